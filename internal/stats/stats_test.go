package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func measures(vs ...float64) []Measure {
	out := make([]Measure, len(vs))
	for i, v := range vs {
		out[i] = Some(v)
	}
	return out
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	values := append(measures(2, 4, 4, 4, 5, 5, 7, 9), None(), None())
	s := Summarize(values)

	assert.Equal(t, 8, s.Participants)
	assert.Equal(t, Some(8), s.Submitted)
	assert.InDelta(t, 5.0, s.Mean.Value, 1e-9)
	assert.InDelta(t, 4.5, s.Median.Value, 1e-9)
	assert.InDelta(t, 2.0, s.Min.Value, 1e-9)
	assert.InDelta(t, 9.0, s.Max.Value, 1e-9)

	// sample SD of the classic set is sqrt(32/7)
	wantSD := math.Sqrt(32.0 / 7.0)
	require.True(t, s.SD.Valid)
	assert.InDelta(t, wantSD, s.SD.Value, 1e-9)
	assert.InDelta(t, wantSD/5*100, s.CV.Value, 1e-9)

	half := 1.96 * wantSD / math.Sqrt(8)
	assert.InDelta(t, 5-half, s.Lower.Value, 1e-9)
	assert.InDelta(t, 5+half, s.Upper.Value, 1e-9)
}

func TestSummarizeEdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil)
		assert.Zero(t, s.Participants)
		assert.False(t, s.Mean.Valid)
		assert.False(t, s.SD.Valid)
		assert.False(t, s.CV.Valid)
	})

	t.Run("single value has no SD", func(t *testing.T) {
		s := Summarize(measures(12.5))
		assert.Equal(t, 1, s.Participants)
		assert.True(t, s.Mean.Valid)
		assert.False(t, s.SD.Valid)
		assert.False(t, s.CV.Valid)
		assert.False(t, s.Lower.Valid)
	})

	t.Run("zero mean has no CV", func(t *testing.T) {
		s := Summarize(measures(-1, 1))
		assert.True(t, s.SD.Valid)
		assert.False(t, s.CV.Valid)
	})

	t.Run("negative mean keeps CV non-negative", func(t *testing.T) {
		s := Summarize(measures(-2, -4))
		require.True(t, s.CV.Valid)
		assert.GreaterOrEqual(t, s.CV.Value, 0.0)
	})
}

func TestSDI(t *testing.T) {
	t.Parallel()

	s := GroupSummary{Mean: Some(10), SD: Some(2)}
	assert.InDelta(t, 1.5, SDI(Some(13), s).Value, 1e-9)
	assert.False(t, SDI(None(), s).Valid)
	assert.False(t, SDI(Some(13), GroupSummary{Mean: Some(10), SD: Some(0)}).Valid)
	assert.False(t, SDI(Some(13), GroupSummary{Mean: Some(10)}).Valid)
}

func TestPercentileLinear(t *testing.T) {
	t.Parallel()

	values := []float64{4, 1, 3, 2}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 2.5},
		{25, 1.75},
		{2.5, 1.075},
		{97.5, 3.925},
		{100, 4},
	}
	for _, tt := range tests {
		got := Percentile(values, tt.p)
		require.True(t, got.Valid)
		assert.InDelta(t, tt.want, got.Value, 1e-9, "p=%v", tt.p)
	}
	assert.False(t, Percentile(nil, 50).Valid)
	assert.Equal(t, []float64{4, 1, 3, 2}, values, "input must not be reordered")
}

func TestClippedHistogramCountsSum(t *testing.T) {
	t.Parallel()

	values := []float64{-100, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 250}
	h := ClippedHistogram(values, 0, 10, 20)

	require.Len(t, h.Edges, 21)
	require.Len(t, h.Counts, 20)
	assert.Equal(t, len(values), h.Total())
	assert.InDelta(t, 0.0, h.Edges[0], 1e-12)
	assert.InDelta(t, 10.0, h.Edges[20], 1e-12)
	assert.Equal(t, 2, h.Counts[0], "below-range value clipped into first bin")
	assert.Equal(t, 2, h.Counts[19], "upper edge and above-range values land in last bin")
	assert.Equal(t, 1, h.Counts[18])
}

func TestClippedHistogramDegenerateRange(t *testing.T) {
	t.Parallel()

	h := ClippedHistogram([]float64{5, 5, 5}, 5, 5, 20)
	assert.Equal(t, 3, h.Total())
	assert.Less(t, h.Edges[0], h.Edges[len(h.Edges)-1])
}

func TestTrimmedHistogram(t *testing.T) {
	t.Parallel()

	var values []float64
	for i := 0; i < 200; i++ {
		values = append(values, float64(i))
	}
	values = append(values, 10000)
	h, ok := TrimmedHistogram(values, 2.5, 97.5, 20)
	require.True(t, ok)
	assert.Equal(t, len(values), h.Total())
	assert.Less(t, h.Edges[20], 10000.0)

	_, ok = TrimmedHistogram(nil, 2.5, 97.5, 20)
	assert.False(t, ok)
}

func TestYoudenBounds(t *testing.T) {
	t.Parallel()

	xs := []float64{10, 12, 11, 13, 9, 30}
	ys := []float64{20, 21, 19, 23, 22, 5}
	b, ok := YoudenBounds(xs, ys, 3, 0.10)
	require.True(t, ok)

	for i := range xs {
		assert.GreaterOrEqual(t, xs[i], b.XMin)
		assert.LessOrEqual(t, xs[i], b.XMax)
		assert.GreaterOrEqual(t, ys[i], b.YMin)
		assert.LessOrEqual(t, ys[i], b.YMax)
	}
	assert.LessOrEqual(t, b.XMin, b.BoxXMin)
	assert.GreaterOrEqual(t, b.XMax, b.BoxXMax)
	assert.LessOrEqual(t, b.YMin, b.BoxYMin)
	assert.GreaterOrEqual(t, b.YMax, b.BoxYMax)

	xRange := math.Max(b.BoxXMax, 30) - math.Min(b.BoxXMin, 9)
	assert.InDelta(t, 0.10*xRange, b.BoxXMin-b.XMin, 1e-9)
	assert.InDelta(t, b.MeanX-3*b.SDX, b.BoxXMin, 1e-9)
}

func TestYoudenBoundsDegenerate(t *testing.T) {
	t.Parallel()

	b, ok := YoudenBounds([]float64{4}, []float64{4}, 3, 0.10)
	require.True(t, ok)
	assert.Zero(t, b.SDX)
	assert.InDelta(t, 3.9, b.XMin, 1e-9)
	assert.InDelta(t, 4.1, b.XMax, 1e-9)

	_, ok = YoudenBounds(nil, nil, 3, 0.10)
	assert.False(t, ok)
	_, ok = YoudenBounds([]float64{1, 2}, []float64{1}, 3, 0.10)
	assert.False(t, ok)
}

func TestCVBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cv    float64
		band  Band
		label string
		color string
	}{
		{3.2, BandExcellent, "우수", "10b981"},
		{5, BandExcellent, "우수", "10b981"},
		{7.5, BandGood, "양호", "3b82f6"},
		{20, BandCaution, "주의", "f59e0b"},
		{21, BandPoor, "부주의", "ef4444"},
	}
	for _, tt := range tests {
		b := CVBand(tt.cv)
		assert.Equal(t, tt.band, b)
		assert.Equal(t, tt.label, b.Label())
		assert.Equal(t, tt.color, b.Color())
	}
}

func TestGrouperCanonicalOrder(t *testing.T) {
	t.Parallel()

	g := NewGrouper()
	add := func(class string, v float64, outlier bool) {
		g.Add("CCA-25-04", LevelOverall, "", Some(v), outlier)
		g.Add("CCA-25-04", LevelReference, class, Some(v), outlier)
	}
	// B is seen first but has fewer participants.
	for i := 0; i < 3; i++ {
		add("B사", 10+float64(i), false)
	}
	for i := 0; i < 5; i++ {
		add("A사", 20+float64(i), i == 0)
	}
	g.Add("CCA-25-04", LevelReference, "C사", None(), false)

	out := g.Summaries()
	require.Len(t, out, 4)
	assert.Equal(t, LevelOverall, out[0].Level)
	assert.Equal(t, 8, out[0].Participants)
	assert.Equal(t, Some(7), out[0].Submitted)

	refs := Select(out, "CCA-25-04", LevelReference)
	require.Len(t, refs, 3)
	assert.Equal(t, "A사", refs[0].Group)
	assert.Equal(t, 5, refs[0].Participants)
	assert.Equal(t, Some(4), refs[0].Submitted)
	assert.Equal(t, "B사", refs[1].Group)
	assert.Equal(t, "C사", refs[2].Group)
	assert.Zero(t, refs[2].Participants)

	found, ok := Find(out, "CCA-25-04", LevelReference, "B사")
	require.True(t, ok)
	assert.InDelta(t, 11.0, found.Mean.Value, 1e-9)
	_, ok = Find(out, "CCA-25-05", LevelReference, "B사")
	assert.False(t, ok)
}

func TestByParticipantsStable(t *testing.T) {
	t.Parallel()

	list := []GroupSummary{
		{Group: "x", Participants: 2},
		{Group: "y", Participants: 4},
		{Group: "z", Participants: 2},
	}
	ByParticipants(list)
	assert.Equal(t, []string{"y", "x", "z"}, []string{list[0].Group, list[1].Group, list[2].Group})
}

func TestMeanCVByGroup(t *testing.T) {
	t.Parallel()

	list := []GroupSummary{
		{Specimen: "s1", Level: LevelReference, Group: "A", CV: Some(10)},
		{Specimen: "s2", Level: LevelReference, Group: "A", CV: Some(20)},
		{Specimen: "s1", Level: LevelReference, Group: "B", CV: Some(4)},
		{Specimen: "s1", Level: LevelReference, Group: "C", CV: None()},
		{Specimen: "s3", Level: LevelReference, Group: "B", CV: Some(100)},
		{Specimen: "s1", Level: LevelOverall, CV: Some(1)},
	}
	got := MeanCVByGroup(list, LevelReference, []string{"s1", "s2"})
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Group)
	assert.InDelta(t, 4.0, got[0].Value, 1e-9)
	assert.Equal(t, "A", got[1].Group)
	assert.InDelta(t, 15.0, got[1].Value, 1e-9)
}

func TestMeasureParseAndJSON(t *testing.T) {
	t.Parallel()

	m, err := ParseMeasure(" 1,234.5 ")
	require.NoError(t, err)
	assert.Equal(t, Some(1234.5), m)

	m, err = ParseMeasure("")
	require.NoError(t, err)
	assert.False(t, m.Valid)

	_, err = ParseMeasure("검출안됨")
	assert.Error(t, err)

	assert.False(t, Some(math.NaN()).Valid)

	data, err := json.Marshal(struct {
		A Measure `json:"a"`
		B Measure `json:"b"`
	}{A: Some(2.5), B: None()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2.5,"b":null}`, string(data))

	var back Measure
	require.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.False(t, back.Valid)
}
