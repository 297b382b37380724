package charts

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/cardiacqa/eqareport/internal/stats"
)

const (
	histogramBins = 20
	trimLow       = 2.5
	trimHigh      = 97.5
)

// HistogramInput carries the values behind one specimen histogram.
type HistogramInput struct {
	Specimen string
	// All holds every institution's result, outliers already removed.
	All []float64
	// Group holds the viewing institution's reference class results.
	Group     []float64
	GroupName string
	// Result is the viewing institution's own result.
	Result stats.Measure
}

// stepOutline turns a histogram into one closed step polygon so a single
// filled series draws every bar.
func stepOutline(h stats.Histogram) ([]float64, []float64) {
	xs := []float64{h.Edges[0]}
	ys := []float64{0}
	for i, c := range h.Counts {
		xs = append(xs, h.Edges[i], h.Edges[i+1])
		ys = append(ys, float64(c), float64(c))
	}
	xs = append(xs, h.Edges[len(h.Edges)-1])
	ys = append(ys, 0)
	return xs, ys
}

// Histogram draws the 2.5–97.5 percentile trimmed distribution of all results
// with the reference class overlaid, mean and median lines for both, and a
// marker for the viewing institution's result.
func (r *Renderer) Histogram(in HistogramInput) (*Image, error) {
	if len(in.All) == 0 || len(in.Group) == 0 {
		return nil, nil
	}
	all, _ := stats.TrimmedHistogram(in.All, trimLow, trimHigh, histogramBins)
	lo, hi := all.Edges[0], all.Edges[len(all.Edges)-1]
	group := stats.ClippedHistogram(in.Group, lo, hi, histogramBins)

	maxCount := 0
	for _, c := range all.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	yMax := math.Max(1, float64(maxCount)*1.15)

	allX, allY := stepOutline(all)
	grpX, grpY := stepOutline(group)

	allSummary := stats.Summarize(measuresOf(in.All))
	grpSummary := stats.Summarize(measuresOf(in.Group))

	groupName := in.GroupName
	if groupName == "" {
		groupName = "기준분류"
	}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    fmt.Sprintf("전체(n=%d)", len(in.All)),
			XValues: allX,
			YValues: allY,
			Style: chart.Style{
				StrokeColor: color("000000"),
				StrokeWidth: 0.5,
				FillColor:   color("d3d3d3").WithAlpha(190),
			},
		},
		chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s(n=%d)", groupName, len(in.Group)),
			XValues: grpX,
			YValues: grpY,
			Style: chart.Style{
				StrokeColor: color("00008b"),
				StrokeWidth: 0.5,
				FillColor:   color("4682b4").WithAlpha(190),
			},
		},
		line(fmt.Sprintf("전체 평균: %.2f", allSummary.Mean.Value), clamp(allSummary.Mean.Value, lo, hi), 0, clamp(allSummary.Mean.Value, lo, hi), yMax, color("ef4444").WithAlpha(128), 1.5, true),
		line(fmt.Sprintf("전체 중간값: %.2f", allSummary.Median.Value), clamp(allSummary.Median.Value, lo, hi), 0, clamp(allSummary.Median.Value, lo, hi), yMax, color("22c55e").WithAlpha(128), 1.5, true),
		line(fmt.Sprintf("%s 평균: %.2f", groupName, grpSummary.Mean.Value), clamp(grpSummary.Mean.Value, lo, hi), 0, clamp(grpSummary.Mean.Value, lo, hi), yMax, color("ef4444"), 2, true),
		line(fmt.Sprintf("%s 중간값: %.2f", groupName, grpSummary.Median.Value), clamp(grpSummary.Median.Value, lo, hi), 0, clamp(grpSummary.Median.Value, lo, hi), yMax, color("16a34a"), 2, false),
	}

	if v, ok := in.Result.Float(); ok {
		x := clamp(v, lo, hi)
		series = append(series,
			dots("Your Result", []float64{x}, []float64{yMax * 0.02}, color("dc2626"), 9),
			chart.AnnotationSeries{Annotations: []chart.Value2{{
				XValue: x,
				YValue: yMax * 0.08,
				Label:  fmt.Sprintf("Your Result %.2f", v),
				Style:  chart.Style{FontColor: color("dc2626"), StrokeColor: color("dc2626")},
			}}},
		)
	}

	c := r.newChart(fmt.Sprintf("[%s] 기관별 결과값 분포 (2.5%%-97.5%%, 전체 %d, %s %d)", in.Specimen, len(in.All), groupName, len(in.Group)), r.width, r.height)
	c.XAxis = chart.XAxis{
		Name:  "검사결과값 (pg/mL)",
		Range: &chart.ContinuousRange{Min: lo, Max: hi},
		Ticks: niceTicks(lo, hi, 6, fmt2),
	}
	c.YAxis = chart.YAxis{
		Name:  "기관 수",
		Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		Ticks: niceTicks(0, yMax, 6, fmtTick),
	}
	c.Series = series
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return r.render("histogram-"+in.Specimen, c)
}

func measuresOf(values []float64) []stats.Measure {
	out := make([]stats.Measure, len(values))
	for i, v := range values {
		out[i] = stats.Some(v)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
