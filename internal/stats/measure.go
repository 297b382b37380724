// internal/stats/measure.go
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Measure is a numeric value that may be absent. A missing value is never
// treated as zero.
type Measure struct {
	Value float64
	Valid bool
}

// Some wraps a present value. NaN and infinities are treated as missing.
func Some(v float64) Measure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Measure{}
	}
	return Measure{Value: v, Valid: true}
}

// None returns a missing value.
func None() Measure {
	return Measure{}
}

// Float returns the value and whether it is present.
func (m Measure) Float() (float64, bool) {
	return m.Value, m.Valid
}

// Or returns the value, or fallback when missing.
func (m Measure) Or(fallback float64) float64 {
	if !m.Valid {
		return fallback
	}
	return m.Value
}

func (m Measure) String() string {
	if !m.Valid {
		return "-"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// MarshalJSON encodes a missing value as null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts a number or null.
func (m *Measure) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*m = Measure{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

// ParseMeasure converts a table cell into a Measure. Empty cells are missing
// without error; text that is not a number is missing with an error so the
// caller can log it. Thousands separators are tolerated.
func ParseMeasure(cell string) (Measure, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return Measure{}, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Measure{}, fmt.Errorf("not a number: %q", cell)
	}
	return Some(v), nil
}

// Present returns the values of the present measures, in order.
func Present(values []Measure) []float64 {
	out := make([]float64, 0, len(values))
	for _, m := range values {
		if m.Valid {
			out = append(out, m.Value)
		}
	}
	return out
}
