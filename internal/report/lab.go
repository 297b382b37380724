package report

import (
	"fmt"

	"github.com/cardiacqa/eqareport/internal/charts"
	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/stats"
)

// LabReportInput feeds BuildLabReport. Rows hold every institution's results
// because the comparison groups and charts need the whole round.
type LabReportInput struct {
	Program      results.ProgramInfo
	Organization string
	Institution  string
	Rows         []results.ResultRow
	// Summaries are computed from Rows when nil.
	Summaries []stats.GroupSummary
	Specimens []string
}

type labView struct {
	header
	Institution string
	Profile     results.Profile
	Results     []labResult
	Histograms  []*charts.Image
	LeveyJ      *charts.Image
	Youden      []*charts.Image
}

// labResult is one specimen block of the results table.
type labResult struct {
	Specimen string
	Result   stats.Measure
	Groups   []labGroup
}

type labGroup struct {
	Name    string
	Level   stats.Level
	Summary stats.GroupSummary
	Found   bool
	SDI     stats.Measure
	Remark  string
}

// BuildLabReport renders the detail report for one institution.
func (b *Builder) BuildLabReport(in LabReportInput) (string, error) {
	own := results.ForInstitution(in.Rows, in.Institution)
	if len(own) == 0 {
		return "", fmt.Errorf("institution %s has no results", in.Institution)
	}
	summaries := in.Summaries
	if summaries == nil {
		summaries = results.Summaries(in.Rows)
	}
	specimens := in.Specimens
	if len(specimens) == 0 {
		specimens = results.Specimens(in.Rows)
	}

	first := own[0]
	view := labView{
		header:      b.header(pageTitle(in.Program)+" 기관별 보고서", in.Program, in.Organization),
		Institution: in.Institution,
		Profile: results.Profile{
			Code:           first.Institution,
			RefClass:       first.RefClass,
			DeviceCompany:  first.DeviceCompany,
			DeviceName:     first.DeviceName,
			ReagentCompany: first.ReagentCompany,
			ReagentName:    first.ReagentName,
		}.WithPlaceholders(),
	}

	var sdiPoints []charts.SDIPoint
	var reported []string
	for _, sp := range specimens {
		row, ok := results.Find(own, in.Institution, sp)
		if !ok {
			continue
		}
		reported = append(reported, sp)
		block := labResult{Specimen: sp, Result: row.Result, Groups: labGroups(row, summaries)}
		view.Results = append(view.Results, block)
		sdiPoints = append(sdiPoints, charts.SDIPoint{Specimen: sp, SDI: block.Groups[1].SDI})

		// no overlay without a reference class
		if row.RefClass == "" {
			continue
		}
		if img := b.chart("histogram", func() (*charts.Image, error) {
			return b.charts.Histogram(charts.HistogramInput{
				Specimen:  sp,
				All:       results.SpecimenValues(in.Rows, sp, ""),
				Group:     results.SpecimenValues(in.Rows, sp, row.RefClass),
				GroupName: row.RefClass,
				Result:    row.Result,
			})
		}); img != nil {
			view.Histograms = append(view.Histograms, img)
		}
	}
	if len(view.Results) == 0 {
		return "", fmt.Errorf("institution %s has no results for the selected specimens", in.Institution)
	}

	view.LeveyJ = b.chart("levey-jennings", func() (*charts.Image, error) {
		return b.charts.LeveyJennings(sdiPoints)
	})

	var pairs [][2]string
	if first.RefClass != "" {
		pairs = results.SpecimenPairs(reported)
	}
	for _, pair := range pairs {
		if img := b.chart("youden", func() (*charts.Image, error) {
			return b.charts.Youden(charts.YoudenInput{
				SpecimenX: pair[0],
				SpecimenY: pair[1],
				Group:     first.RefClass,
				Pairs:     results.Pairs(in.Rows, pair[0], pair[1], first.RefClass),
				Highlight: in.Institution,
			})
		}); img != nil {
			view.Youden = append(view.Youden, img)
		}
	}

	return b.templates.RenderTemplate("lab", view)
}

// labGroups returns the All, reference-class and sub-class rows for one
// result. The SDI columns of the input win over a computed SDI.
func labGroups(row results.ResultRow, summaries []stats.GroupSummary) []labGroup {
	all, allOK := stats.Find(summaries, row.Specimen, stats.LevelOverall, "")
	ref, refOK := stats.Find(summaries, row.Specimen, stats.LevelReference, row.RefClass)
	sub, subOK := stats.Find(summaries, row.Specimen, stats.LevelSub, row.SubClass)

	sdi := func(given stats.Measure, s stats.GroupSummary, ok bool) stats.Measure {
		if given.Valid {
			return given
		}
		if !ok {
			return stats.None()
		}
		return stats.SDI(row.Result, s)
	}

	return []labGroup{
		{Name: "All", Level: stats.LevelOverall, Summary: all, Found: allOK, SDI: sdi(stats.None(), all, allOK), Remark: row.OutlierAll},
		{Name: row.RefClass, Level: stats.LevelReference, Summary: ref, Found: refOK && row.RefClass != "", SDI: sdi(row.RefSDI, ref, refOK && row.RefClass != ""), Remark: row.OutlierRef},
		{Name: row.SubClass, Level: stats.LevelSub, Summary: sub, Found: subOK && row.SubClass != "", SDI: sdi(row.SubSDI, sub, subOK && row.SubClass != ""), Remark: row.OutlierSub},
	}
}
