package charts

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cardiacqa/eqareport/internal/stats"
)

// palette colours pie slices in order.
var palette = []string{
	"1e40af", "10b981", "f59e0b", "ef4444", "8b5cf6",
	"06b6d4", "ec4899", "84cc16", "f97316", "64748b",
}

// DistributionLegend computes the per-class counts and percentages for the
// reference-class summaries of one specimen. Classes with no participants are
// left out.
func DistributionLegend(groups []stats.GroupSummary) []LegendEntry {
	total := 0
	for _, g := range groups {
		total += g.Participants
	}
	if total == 0 {
		return nil
	}
	var out []LegendEntry
	for _, g := range groups {
		if g.Participants <= 0 {
			continue
		}
		out = append(out, LegendEntry{
			Name:    g.Group,
			Count:   g.Participants,
			Percent: float64(g.Participants) / float64(total) * 100,
			Color:   palette[len(out)%len(palette)],
		})
	}
	return out
}

// Distribution draws the share of participants per reference class as a pie
// with percentage labels. The legend with absolute counts is returned on the
// image for the report to render.
func (r *Renderer) Distribution(specimen string, groups []stats.GroupSummary) (*Image, error) {
	legend := DistributionLegend(groups)
	if len(legend) == 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(legend))
	for _, e := range legend {
		values = append(values, chart.Value{
			Value: float64(e.Count),
			Label: fmt.Sprintf("%.1f%%", e.Percent),
			Style: chart.Style{
				FillColor:   color(e.Color),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontColor:   drawing.ColorWhite,
				FontSize:    13,
			},
		})
	}

	pie := chart.PieChart{
		Title:  fmt.Sprintf("기준분류별 참여기관 분포 (%s)", specimen),
		Width:  640,
		Height: 640,
		Font:   r.font,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render distribution: %w", err)
	}
	return &Image{Name: "distribution", PNG: buf.Bytes(), Legend: legend}, nil
}
