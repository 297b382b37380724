// internal/cli/show_summary.go
package eqareport

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/stats"
	"github.com/cardiacqa/eqareport/internal/util"
)

// showSummaryCmd implements 'show summary', which prints the group
// statistics of labInput without writing any report.
var showSummaryCmd = &cobra.Command{
	Use:         "summary",
	Annotations: map[string]string{inputsAnnotation: "labInput"},
	Short:       "Show group statistics for the lab input",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := loadLabRows()
		if err != nil {
			return err
		}
		renderSummary(cmd.OutOrStdout(), results.Summaries(rows))
		return nil
	},
}

var (
	summaryHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	summaryCell   = lipgloss.NewStyle().Padding(0, 1)
	summaryTitle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

// renderSummary prints one table per specimen with the overall row and every
// reference and sub class in canonical order.
func renderSummary(out io.Writer, summaries []stats.GroupSummary) {
	for _, sp := range stats.Specimens(summaries) {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return summaryHeader
				}
				return summaryCell
			}).
			Headers("분류", "그룹", "기관 수", "제출", "평균", "중간값", "SD", "CV(%)", "등급")

		for _, level := range []stats.Level{stats.LevelOverall, stats.LevelReference, stats.LevelSub} {
			for _, s := range stats.Select(summaries, sp, level) {
				group := s.Group
				if level == stats.LevelOverall {
					group = "All"
				}
				band := ""
				if cv, ok := s.CV.Float(); ok {
					band = stats.CVBand(cv).Label()
				}
				t.Row(level.Label(), group,
					util.FormatNumber(s.Participants), util.FormatNumber(s.Submitted),
					util.FormatNumber(s.Mean), util.FormatNumber(s.Median),
					util.FormatNumber(s.SD), util.FormatNumber(s.CV), band)
			}
		}
		fmt.Fprintln(out, summaryTitle.Render(sp))
		fmt.Fprintln(out, t.Render())
	}
}

func init() {
	showCmd.AddCommand(showSummaryCmd)
}
