// internal/cli/show_config.go
package eqareport

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardiacqa/eqareport/internal/appconfig"
)

// showConfigCmd implements 'show config'.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig(), appconfig.Defaults())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
