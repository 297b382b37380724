package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/cardiacqa/eqareport/internal/report"
	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/stats"
	"github.com/cardiacqa/eqareport/internal/table"
	"github.com/cardiacqa/eqareport/internal/util"
)

// Convert turns the wide input into the long lab report CSV and returns the
// written path.
func (r *Runner) Convert(ctx context.Context) (string, error) {
	if r.opts.WideInput == "" {
		return "", fmt.Errorf("wide input: %w", ErrNoInput)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t, err := table.Load(r.opts.WideInput, r.opts.Table)
	if err != nil {
		return "", err
	}
	rows, err := results.ConvertWide(t, r.opts.Program, r.opts.Specimens)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := results.WriteResultRows(&buf, rows); err != nil {
		return "", fmt.Errorf("encode converted rows: %w", err)
	}
	r.logger.WithField("rows", len(rows)).Info("wide input converted")
	return r.write("converted", ConvertedFile, buf.Bytes())
}

// GenerateCommon writes the common report. The common input may be a
// precomputed summary table or result rows; without a common input the lab
// input is summarised.
func (r *Runner) GenerateCommon(ctx context.Context) (string, error) {
	input := r.opts.CommonInput
	if input == "" {
		input = r.opts.LabInput
	}
	if input == "" {
		return "", fmt.Errorf("common input: %w", ErrNoInput)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t, err := table.Load(input, r.opts.Table)
	if err != nil {
		return "", err
	}
	var (
		summaries []stats.GroupSummary
		program   results.ProgramInfo
	)
	if results.IsSummaryTable(t) {
		summaries, program, err = results.ParseSummaryRows(t)
		if err != nil {
			return "", err
		}
	} else {
		rows, err := results.ParseResultRows(t)
		if err != nil {
			return "", err
		}
		summaries = results.Summaries(rows)
		program = results.ProgramOf(rows)
	}

	html, err := r.builder.BuildCommonReport(report.CommonReportInput{
		Program:      program.Merge(r.opts.Program),
		Organization: r.opts.Organization,
		Summaries:    summaries,
		Specimens:    r.opts.Specimens,
	})
	if err != nil {
		return "", fmt.Errorf("build common report: %w", err)
	}
	return r.write("common", CommonReportFile, []byte(html))
}

// Targets returns the institutions that get a detail report: first-encounter
// order, capped by MaxReports.
func Targets(rows []results.ResultRow, maxReports int) []string {
	codes := results.Institutions(rows)
	if maxReports > 0 && len(codes) > maxReports {
		codes = codes[:maxReports]
	}
	return codes
}

// GenerateLabs writes one detail report per target institution and returns
// the written paths in target order.
func (r *Runner) GenerateLabs(ctx context.Context) ([]string, error) {
	rows, program, err := r.loadRows()
	if err != nil {
		return nil, err
	}
	summaries := results.Summaries(rows)
	specimens := r.specimens(rows)
	var codes []string
	for _, code := range Targets(rows, r.opts.MaxReports) {
		if err := checkCode(code); err != nil {
			r.logger.WithError(err).Warn("institution report skipped")
			continue
		}
		codes = append(codes, code)
	}

	paths := make([]string, len(codes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, code := range codes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			html, err := r.builder.BuildLabReport(report.LabReportInput{
				Program:      program,
				Organization: r.opts.Organization,
				Institution:  code,
				Rows:         rows,
				Summaries:    summaries,
				Specimens:    specimens,
			})
			if err != nil {
				return fmt.Errorf("build report for %s: %w", code, err)
			}
			path, err := r.write("lab", r.labReportRel(code), []byte(html))
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger.WithField("reports", len(paths)).Info("institution reports written")
	return paths, nil
}

// Profiles returns the dashboard profiles with report links resolved against
// the files present in the output directory.
func (r *Runner) Profiles(rows []results.ResultRow) []results.Profile {
	profiles := results.Profiles(rows)
	for i := range profiles {
		p := &profiles[i]
		p.HasReport = checkCode(p.Code) == nil && util.FileExists(filepath.Join(r.opts.OutputDir, filepath.FromSlash(r.labReportRel(p.Code))))
		p.ReportURL = r.ReportURL(p.Code)
	}
	return profiles
}

// GenerateDashboard writes the institution index.
func (r *Runner) GenerateDashboard(ctx context.Context) (string, error) {
	rows, program, err := r.loadRows()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := r.builder.BuildDashboard(report.DashboardInput{
		Program:      program,
		Organization: r.opts.Organization,
		Profiles:     r.Profiles(rows),
		Specimens:    len(r.specimens(rows)),
	})
	if err != nil {
		return "", fmt.Errorf("build dashboard: %w", err)
	}
	return r.write("dashboard", DashboardFile, []byte(html))
}
