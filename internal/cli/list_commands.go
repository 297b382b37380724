// internal/cli/list_commands.go
package eqareport

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardiacqa/eqareport/internal/appconfig"
)

// inputsAnnotation names the config keys a command reads its tables from.
// Alternatives are separated by "|"; the first one set is used.
const inputsAnnotation = "eqareport/inputs"

// commandsCmd implements 'list commands', which prints the command tree with
// the input each command reads and whether that input is configured.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands with the inputs they read",
	Long:  `The 'commands' subcommand lists all commands and subcommands in a hierarchical, indented format. Commands that read a table show the config key they take it from and its current value.`,
	Run: func(cmd *cobra.Command, args []string) {
		runListCommands(cmd.OutOrStdout(), rootCmd, GetConfig())
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

// commandInfo is one line of the listing.
type commandInfo struct {
	path        string
	description string
	inputs      string
}

// runListCommands prints the command tree in a three-column layout.
func runListCommands(out io.Writer, root *cobra.Command, cfg *appconfig.Config) {
	infos := collectCommandData(root, "", "", cfg)

	pathWidth, descWidth := 0, 0
	for _, info := range infos {
		pathWidth = max(pathWidth, len(info.path))
		descWidth = max(descWidth, len(info.description))
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, info := range infos {
		line := fmt.Sprintf("  %-*s  %s", pathWidth, info.path, info.description)
		if info.inputs != "" {
			line = fmt.Sprintf("  %-*s  %-*s  %s", pathWidth, info.path, descWidth, info.description, info.inputs)
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
}

// collectCommandData walks the command tree depth-first, skipping hidden and
// completion commands.
func collectCommandData(cmd *cobra.Command, parent, indent string, cfg *appconfig.Config) []commandInfo {
	if cmd.Hidden || cmd.Name() == "completion" {
		return nil
	}
	path := cmd.Name()
	if parent != "" {
		path = parent + " " + cmd.Name()
	}

	infos := []commandInfo{{
		path:        indent + path,
		description: cmd.Short,
		inputs:      inputStatus(cmd.Annotations[inputsAnnotation], cfg),
	}}
	for _, sub := range cmd.Commands() {
		infos = append(infos, collectCommandData(sub, path, indent+"  ", cfg)...)
	}
	return infos
}

// inputStatus renders "key: value" for the first configured alternative, or
// the alternatives marked unset.
func inputStatus(keys string, cfg *appconfig.Config) string {
	if keys == "" {
		return ""
	}
	alts := strings.Split(keys, "|")
	for _, key := range alts {
		if v := inputValue(cfg, key); v != "" {
			return successLabel(key) + ": " + v
		}
	}
	return warnLabel(strings.Join(alts, "|")) + ": unset"
}

// inputValue returns the configured path for an input key.
func inputValue(cfg *appconfig.Config, key string) string {
	switch key {
	case "labInput":
		return cfg.LabInput
	case "commonInput":
		return cfg.CommonInput
	case "wideInput":
		return cfg.WideInput
	}
	return ""
}
