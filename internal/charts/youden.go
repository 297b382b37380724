package charts

import (
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/cardiacqa/eqareport/internal/stats"
)

const (
	youdenK   = 3
	youdenPad = 0.10
)

// YoudenInput pairs two specimens for one reference class.
type YoudenInput struct {
	SpecimenX string
	SpecimenY string
	Group     string
	Pairs     []stats.Pair
	// Highlight is the key of the viewing institution.
	Highlight string
}

// Youden plots each institution's pair of results, highlights the viewing
// institution and draws the mean cross-hairs and a dashed ±3 SD box.
func (r *Renderer) Youden(in YoudenInput) (*Image, error) {
	if len(in.Pairs) == 0 {
		return nil, nil
	}
	xs, ys := stats.SplitPairs(in.Pairs)
	box, ok := stats.YoudenBounds(xs, ys, youdenK, youdenPad)
	if !ok {
		return nil, nil
	}

	var otherX, otherY []float64
	var own *stats.Pair
	for i := range in.Pairs {
		p := in.Pairs[i]
		if in.Highlight != "" && p.Key == in.Highlight && own == nil {
			own = &in.Pairs[i]
			continue
		}
		otherX = append(otherX, p.X)
		otherY = append(otherY, p.Y)
	}

	series := []chart.Series{
		// both cross-hairs as one path that retraces through the centre
		chart.ContinuousSeries{
			Name:    "평균",
			XValues: []float64{box.XMin, box.MeanX, box.MeanX, box.MeanX, box.MeanX, box.XMax},
			YValues: []float64{box.MeanY, box.MeanY, box.YMax, box.YMin, box.MeanY, box.MeanY},
			Style: chart.Style{
				StrokeColor: color("2563eb").WithAlpha(180),
				StrokeWidth: 2,
			},
		},
		chart.ContinuousSeries{
			Name:    "±3 SD",
			XValues: []float64{box.BoxXMin, box.BoxXMax, box.BoxXMax, box.BoxXMin, box.BoxXMin},
			YValues: []float64{box.BoxYMin, box.BoxYMin, box.BoxYMax, box.BoxYMax, box.BoxYMin},
			Style: chart.Style{
				StrokeColor:     color("000000"),
				StrokeWidth:     2,
				StrokeDashArray: []float64{6, 4},
			},
		},
	}
	if len(otherX) > 0 {
		series = append(series, dots("다른 기관", otherX, otherY, color("a3a3a3"), 5))
	}
	if own != nil {
		series = append(series, dots("해당 기관", []float64{own.X}, []float64{own.Y}, color("1d4ed8"), 10))
	}

	title := fmt.Sprintf("Youden Plot - 기준분류: %s (%s vs %s)", in.Group, in.SpecimenX, in.SpecimenY)
	c := r.newChart(title, 720, 720)
	c.XAxis = chart.XAxis{
		Name:  in.SpecimenX,
		Range: &chart.ContinuousRange{Min: box.XMin, Max: box.XMax},
		Ticks: niceTicks(box.XMin, box.XMax, 6, fmt2),
	}
	c.YAxis = chart.YAxis{
		Name:  in.SpecimenY,
		Range: &chart.ContinuousRange{Min: box.YMin, Max: box.YMax},
		Ticks: niceTicks(box.YMin, box.YMax, 6, fmt2),
	}
	c.Series = series
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return r.render(fmt.Sprintf("youden-%s-%s", in.SpecimenX, in.SpecimenY), c)
}
