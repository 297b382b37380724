// internal/pipeline/pipeline.go
// Package pipeline ties loading, aggregation, chart rendering and page
// assembly together and writes the results under one output directory.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cardiacqa/eqareport/internal/charts"
	"github.com/cardiacqa/eqareport/internal/logging"
	"github.com/cardiacqa/eqareport/internal/report"
	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/table"
	"github.com/cardiacqa/eqareport/internal/util"
)

// Output file names, relative to Options.OutputDir.
const (
	CommonReportFile = "common_report.html"
	DashboardFile    = "dashboard.html"
	ConvertedFile    = "lab_report_generated.csv"
	ManifestFile     = "manifest.json"

	DefaultLabReportsDir = "reports/institution_reports"
	defaultWorkers       = 4
)

// ErrNoInput is returned when a step has no input file configured.
var ErrNoInput = errors.New("no input configured")

// ErrUnsafeCode is returned for institution codes that cannot be used as a
// file name inside the reports directory.
var ErrUnsafeCode = errors.New("institution code is not a plain file name")

// Options configures a Runner.
type Options struct {
	OutputDir     string
	LabReportsDir string
	HostingURL    string
	// MaxReports caps the number of institution reports; 0 means no cap.
	MaxReports   int
	Workers      int
	CommonInput  string
	LabInput     string
	WideInput    string
	Table        table.Options
	ChartFont    string
	Program      results.ProgramInfo
	Specimens    []string
	Organization string
}

// Runner executes the report steps for one run.
type Runner struct {
	opts    Options
	builder *report.Builder
	logger  logrus.FieldLogger

	mu       sync.Mutex
	manifest Manifest
}

// New prepares a runner with its own run ID.
func New(opts Options, logger logrus.FieldLogger) (*Runner, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.LabReportsDir == "" {
		opts.LabReportsDir = DefaultLabReportsDir
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}

	renderer, err := charts.NewRenderer(opts.ChartFont)
	if err != nil {
		return nil, err
	}
	builder, err := report.NewBuilder(renderer, logger)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	return &Runner{
		opts:    opts,
		builder: builder,
		logger:  logger.WithField("run_id", runID),
		manifest: Manifest{
			RunID:     runID,
			StartedAt: time.Now().UTC(),
		},
	}, nil
}

// RunID identifies this run in logs and the manifest.
func (r *Runner) RunID() string {
	return r.manifest.RunID
}

// GenerateAll converts the wide input when one is configured, then writes the
// common report, the institution reports and the dashboard, and finally the
// manifest. Steps without input are skipped.
func (r *Runner) GenerateAll(ctx context.Context) error {
	if r.opts.WideInput != "" {
		path, err := r.Convert(ctx)
		if err != nil {
			return err
		}
		r.opts.LabInput = path
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"common", func(ctx context.Context) error { _, err := r.GenerateCommon(ctx); return err }},
		{"labs", func(ctx context.Context) error { _, err := r.GenerateLabs(ctx); return err }},
		{"dashboard", func(ctx context.Context) error { _, err := r.GenerateDashboard(ctx); return err }},
	}
	ran := 0
	for _, step := range steps {
		err := step.run(ctx)
		if errors.Is(err, ErrNoInput) {
			r.logger.WithField("step", step.name).Info("step skipped: no input configured")
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		ran++
	}
	if ran == 0 {
		return ErrNoInput
	}
	return r.WriteManifest()
}

// loadRows reads the lab input and returns the result rows with the
// configured program fields applied over the table's own.
func (r *Runner) loadRows() ([]results.ResultRow, results.ProgramInfo, error) {
	if r.opts.LabInput == "" {
		return nil, results.ProgramInfo{}, fmt.Errorf("lab input: %w", ErrNoInput)
	}
	t, err := table.Load(r.opts.LabInput, r.opts.Table)
	if err != nil {
		return nil, results.ProgramInfo{}, err
	}
	rows, err := results.ParseResultRows(t)
	if err != nil {
		return nil, results.ProgramInfo{}, err
	}
	return rows, results.ProgramOf(rows).Merge(r.opts.Program), nil
}

// specimens returns the configured specimens, or those found in rows.
func (r *Runner) specimens(rows []results.ResultRow) []string {
	if len(r.opts.Specimens) > 0 {
		return r.opts.Specimens
	}
	return results.Specimens(rows)
}

// write stores a generated file atomically and records it in the manifest.
func (r *Runner) write(kind, rel string, data []byte) (string, error) {
	path := filepath.Join(r.opts.OutputDir, filepath.FromSlash(rel))
	if err := util.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("write %s: %w", kind, err)
	}
	logging.LogArtifact(kind, path, fmt.Sprintf("%d bytes", len(data)))

	r.mu.Lock()
	r.manifest.Files = append(r.manifest.Files, Artifact{Kind: kind, Path: filepath.ToSlash(rel), Bytes: len(data)})
	r.mu.Unlock()
	return path, nil
}

// checkCode rejects codes that would leave LabReportsDir or name a directory.
func checkCode(code string) error {
	if code == "" || code == "." || code == ".." ||
		strings.ContainsAny(code, `/\:`) || strings.Contains(code, "..") {
		return fmt.Errorf("%q: %w", code, ErrUnsafeCode)
	}
	return nil
}

// labReportRel is the report path of one institution relative to OutputDir.
func (r *Runner) labReportRel(code string) string {
	return strings.Trim(filepath.ToSlash(r.opts.LabReportsDir), "/") + "/" + code + ".html"
}

// ReportURL is the dashboard link for an institution report.
func (r *Runner) ReportURL(code string) string {
	rel := r.labReportRel(code)
	if r.opts.HostingURL == "" {
		return rel
	}
	return strings.TrimRight(r.opts.HostingURL, "/") + "/" + rel
}
