// internal/results/profiles.go
package results

import (
	"sort"
	"strings"
)

// Profile describes one participating institution for the dashboard.
type Profile struct {
	Code           string `json:"code"`
	RefClass       string `json:"ref_class"`
	DeviceCompany  string `json:"device_company"`
	DeviceName     string `json:"device_name"`
	ReagentCompany string `json:"reagent_company"`
	ReagentName    string `json:"reagent_name"`
	HasReport      bool   `json:"has_report"`
	ReportURL      string `json:"report_url"`
}

// Display returns the value or the placeholder when it is blank.
func Display(v string) string {
	if strings.TrimSpace(v) == "" {
		return Placeholder
	}
	return v
}

// WithPlaceholders returns a copy with every blank descriptive field replaced
// by the placeholder.
func (p Profile) WithPlaceholders() Profile {
	p.RefClass = Display(p.RefClass)
	p.DeviceCompany = Display(p.DeviceCompany)
	p.DeviceName = Display(p.DeviceName)
	p.ReagentCompany = Display(p.ReagentCompany)
	p.ReagentName = Display(p.ReagentName)
	return p
}

// Profiles builds one profile per institution from its first row, sorted by
// code.
func Profiles(rows []ResultRow) []Profile {
	seen := map[string]bool{}
	var out []Profile
	for _, r := range rows {
		if seen[r.Institution] {
			continue
		}
		seen[r.Institution] = true
		out = append(out, Profile{
			Code:           r.Institution,
			RefClass:       r.RefClass,
			DeviceCompany:  r.DeviceCompany,
			DeviceName:     r.DeviceName,
			ReagentCompany: r.ReagentCompany,
			ReagentName:    r.ReagentName,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// RefClasses returns the sorted distinct non-empty reference classes.
func RefClasses(profiles []Profile) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range profiles {
		rc := strings.TrimSpace(p.RefClass)
		if rc == "" || rc == Placeholder || seen[rc] {
			continue
		}
		seen[rc] = true
		out = append(out, rc)
	}
	sort.Strings(out)
	return out
}
