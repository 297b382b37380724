// internal/cli/browse.go
package eqareport

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/table"
	"github.com/cardiacqa/eqareport/internal/tui"
)

// browseCmd implements 'browse', the terminal counterpart of the dashboard.
var browseCmd = &cobra.Command{
	Use:         "browse",
	Annotations: map[string]string{inputsAnnotation: "labInput"},
	Short:       "Browse institutions in the terminal",
	Long:        `The 'browse' command lists every institution of labInput with fuzzy search; tab cycles the reference-class filter and enter shows the institution's results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		rows, err := loadLabRows()
		if err != nil {
			return err
		}
		return tui.Run(r.Profiles(rows), rows)
	},
}

// loadLabRows reads the configured lab input.
func loadLabRows() ([]results.ResultRow, error) {
	cfg := GetConfig()
	if cfg.LabInput == "" {
		return nil, fmt.Errorf("labInput is not set")
	}
	t, err := table.Load(cfg.LabInput, table.Options{Encoding: cfg.Encoding, Sheet: cfg.Sheet})
	if err != nil {
		return nil, err
	}
	return results.ParseResultRows(t)
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
