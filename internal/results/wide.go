// internal/results/wide.go
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cardiacqa/eqareport/internal/logging"
	"github.com/cardiacqa/eqareport/internal/stats"
	"github.com/cardiacqa/eqareport/internal/table"
)

var wideDescriptors = map[string]bool{
	ColInstitution: true,
	WideDeviceCo:   true,
	WideDevice:     true,
	WideReagentCo:  true,
	WideReagent:    true,
	WideMethod:     true,
}

// WideSpecimenColumns returns every header that is not a descriptor column.
func WideSpecimenColumns(t *table.Table) []string {
	var out []string
	for _, h := range t.Header {
		if h == "" || wideDescriptors[h] {
			continue
		}
		out = append(out, h)
	}
	return out
}

// ConvertWide turns one-row-per-institution input into long result rows. The
// device company becomes the reference class and the device name the sub
// class. Blank or non-numeric specimen cells are skipped. When specimens is
// empty every non-descriptor column is treated as a specimen.
func ConvertWide(t *table.Table, program ProgramInfo, specimens []string) ([]ResultRow, error) {
	if err := t.Require(ColInstitution); err != nil {
		return nil, err
	}
	if len(specimens) == 0 {
		specimens = WideSpecimenColumns(t)
	}
	var present []string
	for _, sp := range specimens {
		if t.Has(sp) {
			present = append(present, sp)
		} else {
			logging.Warn("%s has no column for specimen %s", t.Source, sp)
		}
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("%s has none of the specimen columns %v", t.Source, specimens)
	}

	var rows []ResultRow
	for i, rec := range t.Rows {
		code := t.Get(rec, ColInstitution)
		if code == "" {
			logging.Warn("%s line %d: missing institution code; row skipped", t.Source, i+2)
			continue
		}
		deviceCo := t.Get(rec, WideDeviceCo)
		device := t.Get(rec, WideDevice)
		for _, sp := range present {
			cell := t.Get(rec, sp)
			if cell == "" {
				continue
			}
			m, err := stats.ParseMeasure(cell)
			if err != nil || !m.Valid {
				logging.Warn("%s %s value %q could not be converted; skipped", code, sp, cell)
				continue
			}
			rows = append(rows, ResultRow{
				Program:        program,
				Institution:    code,
				Specimen:       sp,
				Result:         m,
				RefClass:       deviceCo,
				SubClass:       device,
				DeviceCompany:  deviceCo,
				DeviceName:     device,
				ReagentCompany: t.Get(rec, WideReagentCo),
				ReagentName:    t.Get(rec, WideReagent),
				Method:         t.Get(rec, WideMethod),
			})
		}
	}
	return rows, nil
}

// WriteResultRows writes rows as a UTF-8 CSV with a byte-order mark, in the
// lab report column layout.
func WriteResultRows(w io.Writer, rows []ResultRow) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(LabReportColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Program.Year, r.Program.Round, r.Program.ProgramCode, r.Program.ProgramName,
			r.Institution, r.Program.TestCode, r.Program.TestName, r.Specimen,
			formatMeasure(r.Result), r.RefClass, r.SubClass,
			"", "", formatMeasure(r.RefSDI), formatMeasure(r.SubSDI),
			r.DeviceCompany, r.DeviceName, r.ReagentCompany, r.ReagentName, r.Method,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMeasure(m stats.Measure) string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}
