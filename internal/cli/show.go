// internal/cli/show.go
package eqareport

import (
	"github.com/spf13/cobra"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying configuration and data",
	Long:  `The 'show' command groups subcommands that display the merged configuration or a summary of the input data.`,
}

func init() {
	rootCmd.AddCommand(showCmd)
}
