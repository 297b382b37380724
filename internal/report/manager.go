// internal/report/manager.go
// Package report assembles the common report, the per-institution reports and
// the dashboard from embedded html/template pages.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cardiacqa/eqareport/internal/charts"
	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/stats"
	"github.com/cardiacqa/eqareport/internal/util"
)

//go:embed templates/*.html
var templateFS embed.FS

// partialsName is parsed into every page so pages can share blocks.
const partialsName = "partials"

// Manager loads, parses and renders the report pages.
type Manager struct {
	templates map[string]*template.Template
	logger    logrus.FieldLogger
}

// NewManager creates a template manager.
func NewManager(logger logrus.FieldLogger) *Manager {
	return &Manager{
		templates: make(map[string]*template.Template),
		logger:    logger.WithField("component", "template_manager"),
	}
}

// LoadTemplates parses every embedded page together with the shared partials.
func (m *Manager) LoadTemplates() error {
	partials, err := templateFS.ReadFile("templates/" + partialsName + ".html")
	if err != nil {
		return fmt.Errorf("failed to read partials: %w", err)
	}

	err = fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		name := strings.TrimSuffix(path.Base(p), ".html")
		if name == partialsName {
			return nil
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", p, err)
		}
		tmpl, err := template.New(name).Funcs(m.getTemplateFuncs()).Parse(string(partials))
		if err != nil {
			return fmt.Errorf("failed to parse partials for %s: %w", p, err)
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", p, err)
		}

		m.templates[name] = tmpl
		m.logger.WithField("template", name).Debug("Loaded template")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	m.logger.WithField("template_count", len(m.templates)).Debug("Templates loaded")
	return nil
}

// RenderTemplate executes the named page.
func (m *Manager) RenderTemplate(name string, data any) (string, error) {
	tmpl, ok := m.templates[name]
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// GetAvailableTemplates returns the loaded page names, sorted.
func (m *Manager) GetAvailableTemplates() []string {
	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) getTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatNumber": util.FormatNumber,
		"dataURI": func(img *charts.Image) template.URL {
			// base64 PNG produced by the chart renderer, never user input
			return template.URL(img.DataURI())
		},
		"placeholder": results.Display,
		"percent": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
		"levelLabel": func(l stats.Level) string {
			return l.Label()
		},
		"bandLabel": func(cv stats.Measure) string {
			v, ok := cv.Float()
			if !ok {
				return ""
			}
			return stats.CVBand(v).Label()
		},
		"bandColor": func(cv stats.Measure) string {
			v, ok := cv.Float()
			if !ok {
				return "#6b7280"
			}
			return "#" + stats.CVBand(v).Color()
		},
		"join": strings.Join,
	}
}
