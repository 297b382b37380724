// internal/stats/distribution.go
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (0..100) using linear interpolation
// between the closest ranks. It is missing for an empty input.
func Percentile(values []float64, p float64) Measure {
	if len(values) == 0 {
		return None()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if p <= 0 {
		return Some(sorted[0])
	}
	if p >= 100 {
		return Some(sorted[len(sorted)-1])
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return Some(sorted[lo] + (sorted[hi]-sorted[lo])*frac)
}

// Histogram is a fixed-width binning: len(Edges) == len(Counts)+1.
type Histogram struct {
	Edges  []float64
	Counts []int
}

// Total returns the number of values binned.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// BinOf returns the bin index a value falls into after clipping.
func (h Histogram) BinOf(v float64) int {
	bins := len(h.Counts)
	if bins == 0 {
		return -1
	}
	lo, hi := h.Edges[0], h.Edges[bins]
	if v <= lo {
		return 0
	}
	if v >= hi {
		return bins - 1
	}
	idx := int((v - lo) / (hi - lo) * float64(bins))
	if idx >= bins {
		idx = bins - 1
	}
	return idx
}

// ClippedHistogram bins values into `bins` equal-width bins over [lo, hi].
// Values below lo land in the first bin and values above hi in the last, so
// the counts always sum to len(values). A degenerate range is widened by 0.5
// on each side.
func ClippedHistogram(values []float64, lo, hi float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}
	if !(hi > lo) {
		lo, hi = lo-0.5, lo+0.5
	}
	h := Histogram{
		Edges:  floats.Span(make([]float64, bins+1), lo, hi),
		Counts: make([]int, bins),
	}
	for _, v := range values {
		h.Counts[h.BinOf(v)]++
	}
	return h
}

// TrimmedHistogram bins values over their [pLow, pHigh] percentile range with
// clipping into the edge bins.
func TrimmedHistogram(values []float64, pLow, pHigh float64, bins int) (Histogram, bool) {
	if len(values) == 0 {
		return Histogram{}, false
	}
	lo := Percentile(values, pLow)
	hi := Percentile(values, pHigh)
	return ClippedHistogram(values, lo.Value, hi.Value, bins), true
}

// YoudenBox describes the axis layout of a Youden plot.
type YoudenBox struct {
	MeanX, MeanY float64
	SDX, SDY     float64
	// Box edges at mean ± k·SD.
	BoxXMin, BoxXMax float64
	BoxYMin, BoxYMax float64
	// Axis limits.
	XMin, XMax float64
	YMin, YMax float64
}

// YoudenBounds computes the ±k·SD box for paired values and, per axis, limits
// that contain every point and the box, padded by pad times that combined
// range on each side. The range falls back to 1 when degenerate. SD is zero
// for fewer than two points.
func YoudenBounds(xs, ys []float64, k, pad float64) (YoudenBox, bool) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return YoudenBox{}, false
	}
	var b YoudenBox
	b.MeanX = stat.Mean(xs, nil)
	b.MeanY = stat.Mean(ys, nil)
	if len(xs) >= 2 {
		b.SDX = stat.StdDev(xs, nil)
		b.SDY = stat.StdDev(ys, nil)
	}
	b.BoxXMin, b.BoxXMax = b.MeanX-k*b.SDX, b.MeanX+k*b.SDX
	b.BoxYMin, b.BoxYMax = b.MeanY-k*b.SDY, b.MeanY+k*b.SDY

	b.XMin, b.XMax = paddedLimits(xs, b.BoxXMin, b.BoxXMax, pad)
	b.YMin, b.YMax = paddedLimits(ys, b.BoxYMin, b.BoxYMax, pad)
	return b, true
}

func paddedLimits(values []float64, boxMin, boxMax, pad float64) (float64, float64) {
	lo := math.Min(floats.Min(values), boxMin)
	hi := math.Max(floats.Max(values), boxMax)
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	return lo - pad*span, hi + pad*span
}

// Band classifies a CV percentage.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandCaution   Band = "caution"
	BandPoor      Band = "poor"
)

// CVBand maps a CV% to its band: ≤5 excellent, ≤10 good, ≤20 caution.
func CVBand(cv float64) Band {
	switch {
	case cv <= 5:
		return BandExcellent
	case cv <= 10:
		return BandGood
	case cv <= 20:
		return BandCaution
	default:
		return BandPoor
	}
}

func (b Band) Label() string {
	switch b {
	case BandExcellent:
		return "우수"
	case BandGood:
		return "양호"
	case BandCaution:
		return "주의"
	default:
		return "부주의"
	}
}

// Color is the hex colour (without #) used for the band in charts.
func (b Band) Color() string {
	switch b {
	case BandExcellent:
		return "10b981"
	case BandGood:
		return "3b82f6"
	case BandCaution:
		return "f59e0b"
	default:
		return "ef4444"
	}
}

// Pair holds one key's values for two specimens.
type Pair struct {
	Key  string
	X, Y float64
}

// SplitPairs returns the X and Y coordinates of pairs.
func SplitPairs(pairs []Pair) ([]float64, []float64) {
	xs := make([]float64, len(pairs))
	ys := make([]float64, len(pairs))
	for i, p := range pairs {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}
