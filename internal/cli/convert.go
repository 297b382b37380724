// internal/cli/convert.go
package eqareport

import (
	"github.com/spf13/cobra"
)

// convertCmd implements 'convert', which turns the wide one-row-per-institution
// input into the long lab report table the other commands read.
var convertCmd = &cobra.Command{
	Use:         "convert",
	Annotations: map[string]string{inputsAnnotation: "wideInput"},
	Short:       "Convert the wide input into the lab report CSV",
	Long:        `The 'convert' command reads wideInput, skips blank or non-numeric specimen cells, and writes the long lab report table to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		path, err := r.Convert(commandContext(cmd))
		if err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "converted table written to %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
