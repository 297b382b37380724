package charts

import (
	"fmt"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cardiacqa/eqareport/internal/stats"
)

// cvThresholds are drawn as dashed reference lines.
var cvThresholds = []float64{5, 10, 20}

// CVComparison draws one bar per reference class with its mean CV across the
// given specimens. Bars are coloured by CV band; the input order (ascending
// CV) is kept, so the most precise class is leftmost.
func (r *Renderer) CVComparison(values []stats.GroupValue, specimens []string) (*Image, error) {
	if len(values) == 0 {
		return nil, nil
	}

	maxCV := 0.0
	for _, v := range values {
		if v.Value > maxCV {
			maxCV = v.Value
		}
	}
	yMax := maxCV * 1.2
	if yMax < 22 {
		yMax = 22
	}

	const halfWidth = 0.3
	var series []chart.Series
	var ticks []chart.Tick
	var labels []chart.Value2
	for i, v := range values {
		x := float64(i)
		band := stats.CVBand(v.Value)
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{x - halfWidth, x - halfWidth, x + halfWidth, x + halfWidth},
			YValues: []float64{0, v.Value, v.Value, 0},
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				StrokeWidth: 1.5,
				FillColor:   color(band.Color()),
			},
		})
		ticks = append(ticks, chart.Tick{Value: x, Label: v.Group})
		labels = append(labels, chart.Value2{XValue: x, YValue: v.Value, Label: fmt.Sprintf("%.2f%%", v.Value)})
	}

	xMin, xMax := -0.6, float64(len(values)-1)+0.6
	for _, th := range cvThresholds {
		if th > yMax {
			continue
		}
		series = append(series, line("", xMin, th, xMax, th, color("6b7280"), 1, true))
	}
	series = append(series, chart.AnnotationSeries{Annotations: labels})

	title := "기준분류별 변동계수(CV%) 비교"
	if len(specimens) > 0 {
		title += " (" + strings.Join(specimens, ", ") + " 평균)"
	}
	c := r.newChart(title, r.width, r.height)
	c.XAxis = chart.XAxis{
		Name:  "기준분류",
		Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		Ticks: ticks,
	}
	c.YAxis = chart.YAxis{
		Name:  "변동계수(CV%)",
		Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		Ticks: niceTicks(0, yMax, 6, fmtTick),
	}
	c.Series = series
	return r.render("cv-comparison", c)
}
