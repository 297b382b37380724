// internal/results/results.go
// Package results maps loaded tables onto institution result rows, precomputed
// group summaries and institution profiles.
package results

import (
	"fmt"
	"strings"

	"github.com/cardiacqa/eqareport/internal/logging"
	"github.com/cardiacqa/eqareport/internal/stats"
	"github.com/cardiacqa/eqareport/internal/table"
)

// ProgramInfo identifies the EQA round a table belongs to.
type ProgramInfo struct {
	Year        string `json:"year"`
	Round       string `json:"round"`
	ProgramCode string `json:"programCode"`
	ProgramName string `json:"programName"`
	TestCode    string `json:"testCode"`
	TestName    string `json:"testName"`
}

// Merge returns p with every non-empty field of override applied.
func (p ProgramInfo) Merge(override ProgramInfo) ProgramInfo {
	pick := func(base, o string) string {
		if strings.TrimSpace(o) != "" {
			return o
		}
		return base
	}
	return ProgramInfo{
		Year:        pick(p.Year, override.Year),
		Round:       pick(p.Round, override.Round),
		ProgramCode: pick(p.ProgramCode, override.ProgramCode),
		ProgramName: pick(p.ProgramName, override.ProgramName),
		TestCode:    pick(p.TestCode, override.TestCode),
		TestName:    pick(p.TestName, override.TestName),
	}
}

// ResultRow is one institution's result for one specimen.
type ResultRow struct {
	Program        ProgramInfo
	Institution    string
	Specimen       string
	Result         stats.Measure
	RefClass       string
	SubClass       string
	DeviceCompany  string
	DeviceName     string
	ReagentCompany string
	ReagentName    string
	Method         string
	RefSDI         stats.Measure
	SubSDI         stats.Measure
	OutlierAll     string
	OutlierRef     string
	OutlierSub     string
}

// Level reports the most specific classification the row carries.
func (r ResultRow) Level() stats.Level {
	return Classify(r.RefClass, r.SubClass)
}

// Classify decides the grouping level from the classification fields.
func Classify(refClass, subClass string) stats.Level {
	switch {
	case strings.TrimSpace(subClass) != "":
		return stats.LevelSub
	case strings.TrimSpace(refClass) != "":
		return stats.LevelReference
	default:
		return stats.LevelOverall
	}
}

// Flagged reports whether an outlier column marks the row.
func Flagged(flag string) bool {
	switch strings.ToUpper(strings.TrimSpace(flag)) {
	case "YES", "Y", "TRUE", "O":
		return true
	default:
		return false
	}
}

// ParseResultRows maps a lab report table onto ResultRows. Only the
// institution, specimen and result columns are required. Cells that do not
// parse as numbers are logged and treated as missing.
func ParseResultRows(t *table.Table) ([]ResultRow, error) {
	if err := t.Require(ColInstitution, ColSpecimen, ColResult); err != nil {
		return nil, err
	}

	rows := make([]ResultRow, 0, t.Len())
	for i, rec := range t.Rows {
		line := i + 2
		get := func(col string) string { return t.Get(rec, col) }
		measure := func(col string) stats.Measure {
			m, err := stats.ParseMeasure(get(col))
			if err != nil {
				logging.Warn("%s line %d column %s: %v; value skipped", t.Source, line, col, err)
			}
			return m
		}

		r := ResultRow{
			Program: ProgramInfo{
				Year:        get(ColYear),
				Round:       get(ColRound),
				ProgramCode: get(ColProgramCode),
				ProgramName: get(ColProgramName),
				TestCode:    get(ColTestCode),
				TestName:    get(ColTestName),
			},
			Institution:    get(ColInstitution),
			Specimen:       get(ColSpecimen),
			Result:         measure(ColResult),
			RefClass:       get(ColRefClass),
			SubClass:       get(ColSubClass),
			DeviceCompany:  get(ColDeviceCo),
			DeviceName:     get(ColDevice),
			ReagentCompany: get(ColReagentCo),
			ReagentName:    get(ColReagent),
			Method:         get(ColMethod),
			RefSDI:         measure(ColRefSDI),
			SubSDI:         measure(ColSubSDI),
			OutlierAll:     get(ColOutlierAll),
			OutlierRef:     get(ColOutlierRef),
			OutlierSub:     get(ColOutlierSub),
		}
		if r.Institution == "" || r.Specimen == "" {
			logging.Warn("%s line %d: missing institution or specimen; row skipped", t.Source, line)
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// ProgramOf returns the program info of the first row.
func ProgramOf(rows []ResultRow) ProgramInfo {
	if len(rows) == 0 {
		return ProgramInfo{}
	}
	return rows[0].Program
}

// Specimens lists specimen identifiers in first-encounter order.
func Specimens(rows []ResultRow) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		if !seen[r.Specimen] {
			seen[r.Specimen] = true
			out = append(out, r.Specimen)
		}
	}
	return out
}

// Institutions lists institution codes in first-encounter order.
func Institutions(rows []ResultRow) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		if !seen[r.Institution] {
			seen[r.Institution] = true
			out = append(out, r.Institution)
		}
	}
	return out
}

// ForInstitution returns the rows of one institution in input order.
func ForInstitution(rows []ResultRow, code string) []ResultRow {
	var out []ResultRow
	for _, r := range rows {
		if r.Institution == code {
			out = append(out, r)
		}
	}
	return out
}

// Summaries aggregates rows into overall, reference-class and sub-class
// summaries per specimen, in canonical order. Each row contributes to one
// overall bucket and at most one bucket per classification.
func Summaries(rows []ResultRow) []stats.GroupSummary {
	g := stats.NewGrouper()
	for _, r := range rows {
		g.Add(r.Specimen, stats.LevelOverall, "", r.Result, Flagged(r.OutlierAll))
		if r.RefClass != "" {
			g.Add(r.Specimen, stats.LevelReference, r.RefClass, r.Result, Flagged(r.OutlierRef) || Flagged(r.OutlierAll))
		}
		if r.SubClass != "" {
			g.Add(r.Specimen, stats.LevelSub, r.SubClass, r.Result, Flagged(r.OutlierSub) || Flagged(r.OutlierAll))
		}
	}
	return g.Summaries()
}

// ParseSummaryRows maps a precomputed common-report table onto group
// summaries in canonical order.
func ParseSummaryRows(t *table.Table) ([]stats.GroupSummary, ProgramInfo, error) {
	if err := t.Require(ColSpecimen, ColCount); err != nil {
		return nil, ProgramInfo{}, err
	}

	var (
		list    []stats.GroupSummary
		program ProgramInfo
	)
	for i, rec := range t.Rows {
		line := i + 2
		get := func(col string) string { return t.Get(rec, col) }
		measure := func(col string) stats.Measure {
			m, err := stats.ParseMeasure(get(col))
			if err != nil {
				logging.Warn("%s line %d column %s: %v; value skipped", t.Source, line, col, err)
			}
			return m
		}
		if i == 0 {
			program = ProgramInfo{
				Year:        get(ColYear),
				Round:       get(ColRound),
				ProgramCode: get(ColProgramCode),
				ProgramName: get(ColProgramName),
				TestCode:    get(ColTestCode),
				TestName:    firstNonEmpty(get(ColParentTest), get(ColTestName)),
			}
		}

		specimen := get(ColSpecimen)
		if specimen == "" {
			logging.Warn("%s line %d: missing specimen; row skipped", t.Source, line)
			continue
		}
		ref, sub := get(ColRefClassName), get(ColSubClassName)
		level := Classify(ref, sub)
		group := ref
		if level == stats.LevelSub {
			group = sub
		}

		count := measure(ColCount)
		if !count.Valid {
			logging.Warn("%s line %d: missing %s; row skipped", t.Source, line, ColCount)
			continue
		}
		s := stats.GroupSummary{
			Specimen:     specimen,
			Level:        level,
			Group:        group,
			Participants: int(count.Value),
			Submitted:    measure(ColCountOut),
			Mean:         measure(ColMean),
			Median:       measure(ColMedian),
			Min:          measure(ColMin),
			Max:          measure(ColMax),
			SD:           measure(ColSD),
			CV:           measure(ColCV),
			Lower:        measure(ColLower),
			Upper:        measure(ColUpper),
		}
		list = append(list, s)
	}
	if len(list) == 0 {
		return nil, program, fmt.Errorf("%s has no summary rows", t.Source)
	}
	return stats.Canonical(list), program, nil
}

// IsSummaryTable reports whether t looks like a precomputed summary table
// rather than per-institution results.
func IsSummaryTable(t *table.Table) bool {
	return t.Has(ColCount) && !t.Has(ColResult)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
