// internal/stats/summary.go
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// z95 is the two-sided 95% normal quantile used for derived confidence bounds.
const z95 = 1.96

// Level tags which classification a summary row belongs to.
type Level int

const (
	// LevelOverall covers every institution regardless of classification.
	LevelOverall Level = iota
	// LevelReference groups by reference class (device manufacturer).
	LevelReference
	// LevelSub groups by sub class (device model).
	LevelSub
)

func (l Level) String() string {
	switch l {
	case LevelOverall:
		return "overall"
	case LevelReference:
		return "reference"
	case LevelSub:
		return "sub"
	default:
		return "unknown"
	}
}

// Label is the Korean heading used in reports.
func (l Level) Label() string {
	switch l {
	case LevelOverall:
		return "All"
	case LevelReference:
		return "기준분류"
	case LevelSub:
		return "세분류"
	default:
		return "-"
	}
}

// GroupSummary holds descriptive statistics for one (specimen, level, group).
type GroupSummary struct {
	Specimen     string  `json:"specimen"`
	Level        Level   `json:"level"`
	Group        string  `json:"group,omitempty"`
	Participants int     `json:"participants"`
	Submitted    Measure `json:"submitted"`
	Mean         Measure `json:"mean"`
	Median       Measure `json:"median"`
	Min          Measure `json:"min"`
	Max          Measure `json:"max"`
	SD           Measure `json:"sd"`
	CV           Measure `json:"cv"`
	Lower        Measure `json:"lower"`
	Upper        Measure `json:"upper"`
}

// Summarize computes descriptive statistics over the present values only.
// Submitted equals Participants; callers that know about outlier flags
// overwrite it. A precomputed table may leave Submitted missing.
func Summarize(values []Measure) GroupSummary {
	xs := Present(values)
	s := GroupSummary{Participants: len(xs), Submitted: Some(float64(len(xs)))}
	if len(xs) == 0 {
		return s
	}

	mean := stat.Mean(xs, nil)
	s.Mean = Some(mean)
	s.Min = Some(floats.Min(xs))
	s.Max = Some(floats.Max(xs))
	s.Median = Percentile(xs, 50)

	if len(xs) >= 2 {
		sd := stat.StdDev(xs, nil)
		s.SD = Some(sd)
		s.CV = CV(s.SD, s.Mean)
		half := z95 * sd / math.Sqrt(float64(len(xs)))
		s.Lower = Some(mean - half)
		s.Upper = Some(mean + half)
	}
	return s
}

// CV returns SD / mean * 100, missing when either input is missing or the
// mean is zero.
func CV(sd, mean Measure) Measure {
	if !sd.Valid || !mean.Valid || mean.Value == 0 {
		return None()
	}
	return Some(math.Abs(sd.Value / mean.Value * 100))
}

// SDI returns (result - mean) / SD for the group, missing when SD is zero or
// undefined.
func SDI(result Measure, s GroupSummary) Measure {
	if !result.Valid || !s.Mean.Valid || !s.SD.Valid || s.SD.Value == 0 {
		return None()
	}
	return Some((result.Value - s.Mean.Value) / s.SD.Value)
}

// ByParticipants sorts summaries by descending participant count. Ties keep
// their input order.
func ByParticipants(list []GroupSummary) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Participants > list[j].Participants
	})
}

// Canonical reorders summaries: specimens in first-seen order, then levels
// overall, reference, sub, and within each level by descending participants.
func Canonical(list []GroupSummary) []GroupSummary {
	out := make([]GroupSummary, 0, len(list))
	for _, sp := range Specimens(list) {
		for _, level := range []Level{LevelOverall, LevelReference, LevelSub} {
			block := Select(list, sp, level)
			ByParticipants(block)
			out = append(out, block...)
		}
	}
	return out
}

// Specimens lists the specimen identifiers in first-seen order.
func Specimens(list []GroupSummary) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range list {
		if !seen[s.Specimen] {
			seen[s.Specimen] = true
			out = append(out, s.Specimen)
		}
	}
	return out
}

// Select returns the summaries for a specimen and level, preserving order.
// An empty specimen matches every specimen.
func Select(list []GroupSummary, specimen string, level Level) []GroupSummary {
	var out []GroupSummary
	for _, s := range list {
		if s.Level != level {
			continue
		}
		if specimen != "" && s.Specimen != specimen {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Find returns the summary for a specimen, level and group value.
func Find(list []GroupSummary, specimen string, level Level, group string) (GroupSummary, bool) {
	for _, s := range list {
		if s.Specimen == specimen && s.Level == level && s.Group == group {
			return s, true
		}
	}
	return GroupSummary{}, false
}

// GroupValue pairs a group name with a single derived number.
type GroupValue struct {
	Group string
	Value float64
}

// MeanCVByGroup averages the defined CVs of every group at level across the
// given specimens (all specimens when empty). The result is sorted by
// ascending CV.
func MeanCVByGroup(list []GroupSummary, level Level, specimens []string) []GroupValue {
	wanted := make(map[string]bool, len(specimens))
	for _, sp := range specimens {
		wanted[sp] = true
	}

	sums := map[string][]float64{}
	var order []string
	for _, s := range list {
		if s.Level != level || !s.CV.Valid || s.Group == "" {
			continue
		}
		if len(wanted) > 0 && !wanted[s.Specimen] {
			continue
		}
		if _, seen := sums[s.Group]; !seen {
			order = append(order, s.Group)
		}
		sums[s.Group] = append(sums[s.Group], s.CV.Value)
	}

	out := make([]GroupValue, 0, len(order))
	for _, g := range order {
		out = append(out, GroupValue{Group: g, Value: stat.Mean(sums[g], nil)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

type groupKey struct {
	specimen string
	level    Level
	group    string
}

type groupAcc struct {
	values   []Measure
	outliers int
}

// Grouper accumulates per-row values into (specimen, level, group) buckets
// and remembers the order in which buckets were first seen.
type Grouper struct {
	order   []groupKey
	buckets map[groupKey]*groupAcc
}

// NewGrouper returns an empty Grouper.
func NewGrouper() *Grouper {
	return &Grouper{buckets: map[groupKey]*groupAcc{}}
}

// Add records one value. Missing values still register the bucket so that a
// group with no results is reported with zero participants.
func (g *Grouper) Add(specimen string, level Level, group string, value Measure, outlier bool) {
	key := groupKey{specimen: specimen, level: level, group: group}
	acc, ok := g.buckets[key]
	if !ok {
		acc = &groupAcc{}
		g.buckets[key] = acc
		g.order = append(g.order, key)
	}
	acc.values = append(acc.values, value)
	if outlier && value.Valid {
		acc.outliers++
	}
}

// Summaries returns one summary per bucket: specimens in first-seen order,
// then levels overall, reference, sub, each level in canonical order.
func (g *Grouper) Summaries() []GroupSummary {
	list := make([]GroupSummary, 0, len(g.order))
	for _, key := range g.order {
		acc := g.buckets[key]
		s := Summarize(acc.values)
		s.Specimen = key.specimen
		s.Level = key.level
		s.Group = key.group
		s.Submitted = Some(float64(s.Participants - acc.outliers))
		list = append(list, s)
	}
	return Canonical(list)
}
