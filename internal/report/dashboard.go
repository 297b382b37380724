package report

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/cardiacqa/eqareport/internal/results"
)

// DashboardInput feeds BuildDashboard. Profiles carry HasReport and ReportURL
// already resolved against the output directory.
type DashboardInput struct {
	Program      results.ProgramInfo
	Organization string
	Profiles     []results.Profile
	Specimens    int
}

type dashboardView struct {
	header
	Cards            []results.Profile
	RefClasses       []string
	Specimens        int
	InstitutionsJSON template.JS
	RefClassesJSON   template.JS
}

// BuildDashboard renders the institution index with its reference-class
// filter. Cards are rendered server-side; the embedded JSON drives filtering.
func (b *Builder) BuildDashboard(in DashboardInput) (string, error) {
	cards := make([]results.Profile, 0, len(in.Profiles))
	for _, p := range in.Profiles {
		cards = append(cards, p.WithPlaceholders())
	}
	classes := results.RefClasses(in.Profiles)

	// json.Marshal keeps Hangul as-is and escapes <, > and &, so the payload
	// is safe inside a script element.
	profiles := in.Profiles
	if profiles == nil {
		profiles = []results.Profile{}
	}
	institutions, err := json.Marshal(profiles)
	if err != nil {
		return "", fmt.Errorf("encode institutions: %w", err)
	}
	if classes == nil {
		classes = []string{}
	}
	refClasses, err := json.Marshal(classes)
	if err != nil {
		return "", fmt.Errorf("encode reference classes: %w", err)
	}

	view := dashboardView{
		header:           b.header(pageTitle(in.Program)+" 기관별 보고서", in.Program, in.Organization),
		Cards:            cards,
		RefClasses:       classes,
		Specimens:        in.Specimens,
		InstitutionsJSON: template.JS(institutions),
		RefClassesJSON:   template.JS(refClasses),
	}
	return b.templates.RenderTemplate("dashboard", view)
}
