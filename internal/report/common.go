package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cardiacqa/eqareport/internal/charts"
	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/stats"
)

// ErrNoSummaries is returned when there is nothing to report on.
var ErrNoSummaries = errors.New("no group summaries")

// CommonReportInput feeds BuildCommonReport.
type CommonReportInput struct {
	Program      results.ProgramInfo
	Organization string
	Summaries    []stats.GroupSummary
	// Specimens restricts and orders the sections; empty means every specimen
	// in first-seen order.
	Specimens []string
}

type commonView struct {
	header
	Sections []specimenSection
	CVChart  *charts.Image
	// CVSpecimens lists the specimens the CV comparison averages over.
	CVSpecimens []string
}

type specimenSection struct {
	Specimen     string
	Overall      stats.GroupSummary
	HasOverall   bool
	Classes      []stats.GroupSummary
	Distribution *charts.Image
}

// BuildCommonReport renders the report shared by all participants: overall
// statistics and the reference-class table per specimen, the class
// distribution and the CV comparison.
func (b *Builder) BuildCommonReport(in CommonReportInput) (string, error) {
	if len(in.Summaries) == 0 {
		return "", ErrNoSummaries
	}
	summaries := stats.Canonical(in.Summaries)
	specimens := in.Specimens
	if len(specimens) == 0 {
		specimens = stats.Specimens(summaries)
	}

	view := commonView{
		header:      b.header(pageTitle(in.Program), in.Program, in.Organization),
		CVSpecimens: specimens,
	}
	for _, sp := range specimens {
		classes := stats.Select(summaries, sp, stats.LevelReference)
		overall, hasOverall := stats.Find(summaries, sp, stats.LevelOverall, "")
		if !hasOverall && len(classes) == 0 {
			b.logger.WithField("specimen", sp).Warn("no summaries for specimen")
			continue
		}
		view.Sections = append(view.Sections, specimenSection{
			Specimen:   sp,
			Overall:    overall,
			HasOverall: hasOverall,
			Classes:    classes,
			Distribution: b.chart("distribution", func() (*charts.Image, error) {
				return b.charts.Distribution(sp, classes)
			}),
		})
	}

	cvs := stats.MeanCVByGroup(summaries, stats.LevelReference, specimens)
	view.CVChart = b.chart("cv-comparison", func() (*charts.Image, error) {
		return b.charts.CVComparison(cvs, specimens)
	})

	return b.templates.RenderTemplate("common", view)
}

// pageTitle builds "KEQAS 2025-2 심장표지자단백검사(hs-TnI)" style titles.
func pageTitle(p results.ProgramInfo) string {
	var parts []string
	parts = append(parts, "KEQAS")
	switch {
	case p.Year != "" && p.Round != "":
		parts = append(parts, fmt.Sprintf("%s-%s", p.Year, p.Round))
	case p.Year != "":
		parts = append(parts, p.Year)
	}
	name := p.ProgramName
	if p.TestName != "" {
		if name == "" {
			name = p.TestName
		} else {
			name = fmt.Sprintf("%s(%s)", name, p.TestName)
		}
	}
	if name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}
