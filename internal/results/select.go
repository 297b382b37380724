// internal/results/select.go
package results

import "github.com/cardiacqa/eqareport/internal/stats"

// Find returns the row for an institution and specimen.
func Find(rows []ResultRow, code, specimen string) (ResultRow, bool) {
	for _, r := range rows {
		if r.Institution == code && r.Specimen == specimen {
			return r, true
		}
	}
	return ResultRow{}, false
}

// SpecimenValues returns the present results for a specimen, excluding rows
// flagged as overall outliers. A non-empty refClass restricts the rows to
// that reference class.
func SpecimenValues(rows []ResultRow, specimen, refClass string) []float64 {
	var out []float64
	for _, r := range rows {
		if r.Specimen != specimen || !r.Result.Valid || Flagged(r.OutlierAll) {
			continue
		}
		if refClass != "" && r.RefClass != refClass {
			continue
		}
		out = append(out, r.Result.Value)
	}
	return out
}

// Pairs joins the results of two specimens on institution code within one
// reference class. Institutions missing either value are left out.
func Pairs(rows []ResultRow, specimenX, specimenY, refClass string) []stats.Pair {
	ys := map[string]float64{}
	for _, r := range rows {
		if r.Specimen == specimenY && r.RefClass == refClass && r.Result.Valid {
			if _, dup := ys[r.Institution]; !dup {
				ys[r.Institution] = r.Result.Value
			}
		}
	}
	seen := map[string]bool{}
	var out []stats.Pair
	for _, r := range rows {
		if r.Specimen != specimenX || r.RefClass != refClass || !r.Result.Valid || seen[r.Institution] {
			continue
		}
		y, ok := ys[r.Institution]
		if !ok {
			continue
		}
		seen[r.Institution] = true
		out = append(out, stats.Pair{Key: r.Institution, X: r.Result.Value, Y: y})
	}
	return out
}

// SpecimenPairs returns the (1,2), (2,3), (1,3) pairings of the first three
// specimens, or fewer when fewer specimens exist.
func SpecimenPairs(specimens []string) [][2]string {
	switch {
	case len(specimens) < 2:
		return nil
	case len(specimens) == 2:
		return [][2]string{{specimens[0], specimens[1]}}
	default:
		return [][2]string{
			{specimens[0], specimens[1]},
			{specimens[1], specimens[2]},
			{specimens[0], specimens[2]},
		}
	}
}
