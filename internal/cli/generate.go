// internal/cli/generate.go
package eqareport

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardiacqa/eqareport/internal/pipeline"
)

// generateCmd represents the 'generate' command group for building reports.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Group commands for generating HTML reports",
	Long:  `The 'generate' command groups subcommands that build the common report, the institution reports and the dashboard.`,
}

var generateCommonCmd = &cobra.Command{
	Use:         "common",
	Annotations: map[string]string{inputsAnnotation: "commonInput|labInput"},
	Short:       "Generate the common report shared by all participants",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, func(ctx context.Context, r *pipeline.Runner) error {
			path, err := r.GenerateCommon(ctx)
			if err == nil {
				printSuccess(cmd.OutOrStdout(), "common report written to %s", path)
			}
			return err
		})
	},
}

var generateLabsCmd = &cobra.Command{
	Use:         "labs",
	Annotations: map[string]string{inputsAnnotation: "labInput"},
	Short:       "Generate one detail report per institution",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, func(ctx context.Context, r *pipeline.Runner) error {
			paths, err := r.GenerateLabs(ctx)
			if err == nil {
				printSuccess(cmd.OutOrStdout(), "%d institution reports written", len(paths))
			}
			return err
		})
	},
}

var generateDashboardCmd = &cobra.Command{
	Use:         "dashboard",
	Annotations: map[string]string{inputsAnnotation: "labInput"},
	Short:       "Generate the institution dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, func(ctx context.Context, r *pipeline.Runner) error {
			path, err := r.GenerateDashboard(ctx)
			if err == nil {
				printSuccess(cmd.OutOrStdout(), "dashboard written to %s", path)
			}
			return err
		})
	},
}

var generateAllCmd = &cobra.Command{
	Use:         "all",
	Annotations: map[string]string{inputsAnnotation: "wideInput|labInput|commonInput"},
	Short:       "Convert, then generate every report and the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		if err := r.GenerateAll(commandContext(cmd)); err != nil {
			if errors.Is(err, pipeline.ErrNoInput) {
				return fmt.Errorf("%w: set labInput, commonInput or wideInput", err)
			}
			return err
		}
		m := r.Manifest()
		printSuccess(cmd.OutOrStdout(), "run %s wrote %d files", m.RunID, len(m.Files))
		return nil
	},
}

// runStep runs one pipeline step and records its output in the manifest.
func runStep(cmd *cobra.Command, step func(context.Context, *pipeline.Runner) error) error {
	r, err := newRunner()
	if err != nil {
		return err
	}
	if err := step(commandContext(cmd), r); err != nil {
		return err
	}
	return r.WriteManifest()
}

func init() {
	generateCmd.AddCommand(generateCommonCmd, generateLabsCmd, generateDashboardCmd, generateAllCmd)
	rootCmd.AddCommand(generateCmd)
}

// commandContext returns the command's context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
