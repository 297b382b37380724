package charts

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/cardiacqa/eqareport/internal/stats"
)

// SDIPoint is one specimen's standard deviation index.
type SDIPoint struct {
	Specimen string
	SDI      stats.Measure
}

var sdBands = []struct {
	k     float64
	name  string
	color string
}{
	{1, "±1 SD", "eab308"},
	{2, "±2 SD", "f97316"},
	{3, "±3 SD", "ef4444"},
}

// LeveyJennings plots one SDI point per specimen against the 0, ±1, ±2 and
// ±3 SD lines. The y range is [-4, 4] unless a point lies outside it. Points
// with a missing SDI are skipped; with none left the chart is omitted.
func (r *Renderer) LeveyJennings(points []SDIPoint) (*Image, error) {
	var xs, ys []float64
	var labels []chart.Value2
	ticks := make([]chart.Tick, 0, len(points))
	for i, p := range points {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Specimen})
		v, ok := p.SDI.Float()
		if !ok {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
		labels = append(labels, chart.Value2{XValue: float64(i), YValue: v, Label: fmt2(v)})
	}
	if len(xs) == 0 {
		return nil, nil
	}

	yLim := 4.0
	for _, v := range ys {
		if a := math.Abs(v); a > yLim-0.5 {
			yLim = math.Ceil(a + 0.5)
		}
	}
	xMin, xMax := -0.5, float64(len(points))-0.5

	series := []chart.Series{line("Mean (0 SD)", xMin, 0, xMax, 0, color("16a34a"), 2, false)}
	for _, b := range sdBands {
		// upper and lower line in one series; the joining segment sits on the
		// right plot edge
		series = append(series, chart.ContinuousSeries{
			Name:    b.name,
			XValues: []float64{xMin, xMax, xMax, xMin},
			YValues: []float64{b.k, b.k, -b.k, -b.k},
			Style: chart.Style{
				StrokeColor:     color(b.color),
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{6, 4},
			},
		})
	}
	series = append(series,
		chart.ContinuousSeries{
			Name:    "SDI",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color("000000"),
				StrokeWidth: 2,
				DotColor:    color("000000"),
				DotWidth:    6,
			},
		},
		chart.AnnotationSeries{Annotations: labels},
	)

	c := r.newChart("SDI : 기준 분류의 SDI", r.width, r.height*3/4)
	c.XAxis = chart.XAxis{
		Name:  "검체명",
		Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		Ticks: ticks,
	}
	yTicks := make([]chart.Tick, 0, int(2*yLim)+1)
	for v := -yLim; v <= yLim; v++ {
		yTicks = append(yTicks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	c.YAxis = chart.YAxis{
		Name:  "SDI",
		Range: &chart.ContinuousRange{Min: -yLim, Max: yLim},
		Ticks: yTicks,
	}
	c.Series = series
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return r.render("levey-jennings", c)
}
