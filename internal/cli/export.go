// internal/cli/export.go
package eqareport

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardiacqa/eqareport/internal/pdf"
	"github.com/cardiacqa/eqareport/internal/pipeline"
)

var exportLandscape bool

// exportCmd represents the 'export' command group.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Group commands for exporting generated reports",
}

// exportPDFCmd implements 'export pdf'. Without arguments every HTML file in
// the last run's manifest is printed.
var exportPDFCmd = &cobra.Command{
	Use:   "pdf [report.html ...]",
	Short: "Print HTML reports to PDF with headless Chrome",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		targets := args
		if len(targets) == 0 {
			var err error
			targets, err = manifestReports(cfg.OutputDir)
			if err != nil {
				return err
			}
		}

		opts := pdf.Options{Timeout: cfg.PDFTimeoutDuration(), Landscape: exportLandscape}
		failed := 0
		for _, html := range targets {
			out := pdf.OutputPath(html)
			if err := pdf.PrintToPDF(commandContext(cmd), html, out, opts); err != nil {
				printWarn(cmd.OutOrStdout(), "%v", err)
				failed++
				continue
			}
			printSuccess(cmd.OutOrStdout(), "%s", out)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d reports could not be printed", failed, len(targets))
		}
		return nil
	},
}

// manifestReports lists the HTML files recorded in the output directory's
// manifest.
func manifestReports(outputDir string) ([]string, error) {
	m, err := pipeline.ReadManifest(outputDir)
	if err != nil {
		return nil, fmt.Errorf("no reports given and no manifest in %s: %w", outputDir, err)
	}
	var out []string
	for _, f := range m.Files {
		if strings.EqualFold(filepath.Ext(f.Path), ".html") {
			out = append(out, filepath.Join(outputDir, filepath.FromSlash(f.Path)))
		}
	}
	if len(out) == 0 {
		return nil, errors.New("manifest lists no HTML reports")
	}
	return out, nil
}

func init() {
	exportPDFCmd.Flags().BoolVar(&exportLandscape, "landscape", false, "print in landscape orientation")
	exportCmd.AddCommand(exportPDFCmd)
	rootCmd.AddCommand(exportCmd)
}
