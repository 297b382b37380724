// internal/cli/list_institutions.go
package eqareport

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cardiacqa/eqareport/internal/results"
)

// institutionsCmd implements 'list institutions', printing one line per
// participating institution with its classification and report link.
var institutionsCmd = &cobra.Command{
	Use:         "institutions",
	Annotations: map[string]string{inputsAnnotation: "labInput"},
	Short:       "List participating institutions and their report status",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		rows, err := loadLabRows()
		if err != nil {
			return err
		}
		runListInstitutions(cmd.OutOrStdout(), r.Profiles(rows))
		return nil
	},
}

func runListInstitutions(out io.Writer, profiles []results.Profile) {
	width := 0
	for _, p := range profiles {
		if len(p.Code) > width {
			width = len(p.Code)
		}
	}

	fmt.Fprintf(out, "Institutions (%d):\n", len(profiles))
	for _, p := range profiles {
		v := p.WithPlaceholders()
		status := warnLabel("no report")
		if p.HasReport {
			status = successLabel(p.ReportURL)
		}
		fmt.Fprintf(out, "  %-*s  %s / %s  %s\n", width, p.Code, v.RefClass, v.DeviceName, status)
	}
}

func init() {
	listCmd.AddCommand(institutionsCmd)
}
