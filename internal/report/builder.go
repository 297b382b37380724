package report

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cardiacqa/eqareport/internal/charts"
	"github.com/cardiacqa/eqareport/internal/results"
)

// Builder renders report pages. It is safe to reuse across institutions.
type Builder struct {
	templates *Manager
	charts    *charts.Renderer
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewBuilder loads the embedded templates and binds the chart renderer.
func NewBuilder(renderer *charts.Renderer, logger logrus.FieldLogger) (*Builder, error) {
	m := NewManager(logger)
	if err := m.LoadTemplates(); err != nil {
		return nil, err
	}
	return &Builder{
		templates: m,
		charts:    renderer,
		logger:    logger.WithField("component", "report_builder"),
		now:       time.Now,
	}, nil
}

// header is shared by every page.
type header struct {
	Title        string
	Program      results.ProgramInfo
	Organization string
	Generated    string
}

func (b *Builder) header(title string, program results.ProgramInfo, org string) header {
	return header{
		Title:        title,
		Program:      program,
		Organization: org,
		Generated:    b.now().Format("2006-01-02"),
	}
}

// chart runs one renderer call; failures are logged and the figure omitted.
func (b *Builder) chart(name string, draw func() (*charts.Image, error)) *charts.Image {
	img, err := draw()
	if err != nil {
		b.logger.WithError(err).WithField("chart", name).Warn("chart omitted")
		return nil
	}
	return img
}
