// internal/cli/root.go
package eqareport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardiacqa/eqareport/internal/appconfig"
	"github.com/cardiacqa/eqareport/internal/logging"
	"github.com/cardiacqa/eqareport/internal/pipeline"
	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/table"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:           "eqareport",
	Short:         "eqareport: KEQAS hs-cTnI external quality assessment report generator",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Validate and load the config file, if any
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) Materialize flags > config > defaults into currentConfig
		cfg := appconfig.Defaults()
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		currentConfig = &cfg

		// 3) Route logs
		return logging.Init(cfg.LogFilePath(), cfg.Debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// stringFlags and intFlags are persistent flags bound to the config key of
// the same name.
var (
	stringFlags = []struct{ name, usage string }{
		{"logFile", "append logs to this file"},
		{"outputDir", "directory for generated reports"},
		{"labReportsDir", "institution report directory below outputDir"},
		{"hostingURL", "base URL the output directory is published under"},
		{"commonInput", "summary or result table for the common report"},
		{"labInput", "institution result table"},
		{"wideInput", "wide one-row-per-institution table to convert"},
		{"encoding", "input encoding: auto, utf-8, utf-8-sig, euc-kr, cp949"},
		{"sheet", "workbook sheet to read from .xlsx inputs"},
		{"chartFont", "TrueType font for chart labels"},
		{"organization", "organization named in page headers"},
	}
	intFlags = []struct{ name, usage string }{
		{"maxReports", "cap on institution reports (0 = all)"},
		{"workers", "institution reports rendered in parallel"},
		{"pdfTimeout", "seconds allowed for one PDF printout"},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	for _, f := range stringFlags {
		rootCmd.PersistentFlags().String(f.name, "", f.usage)
		_ = viper.BindPFlag(f.name, rootCmd.PersistentFlags().Lookup(f.name))
	}
	for _, f := range intFlags {
		rootCmd.PersistentFlags().Int(f.name, 0, f.usage)
		_ = viper.BindPFlag(f.name, rootCmd.PersistentFlags().Lookup(f.name))
	}
	rootCmd.PersistentFlags().StringSlice("specimens", nil, "specimens to report, in order")
	_ = viper.BindPFlag("specimens", rootCmd.PersistentFlags().Lookup("specimens"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded validates the config file against the schema, reads it,
// and sets defaults. A missing file is fine; flags and defaults apply.
func ensureConfigLoaded() error {
	d := appconfig.Defaults()
	viper.SetDefault("debug", d.Debug)
	viper.SetDefault("outputDir", d.OutputDir)
	viper.SetDefault("labReportsDir", d.LabReportsDir)
	viper.SetDefault("workers", d.Workers)
	viper.SetDefault("encoding", d.Encoding)
	viper.SetDefault("pdfTimeout", d.PDFTimeout)

	if cfgFile != "" {
		data, err := os.ReadFile(cfgFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read config: %w", err)
		}
		if err := appconfig.Validate(data); err != nil {
			return fmt.Errorf("%s: %w", cfgFile, err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the merged configuration for the running command.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		d := appconfig.Defaults()
		return &d
	}
	return currentConfig
}

// pipelineOptions maps the configuration onto a pipeline run.
func pipelineOptions(cfg *appconfig.Config) pipeline.Options {
	return pipeline.Options{
		OutputDir:     cfg.OutputDir,
		LabReportsDir: cfg.LabReportsDir,
		HostingURL:    cfg.HostingURL,
		MaxReports:    cfg.MaxReports,
		Workers:       cfg.Workers,
		CommonInput:   cfg.CommonInput,
		LabInput:      cfg.LabInput,
		WideInput:     cfg.WideInput,
		Table:         table.Options{Encoding: cfg.Encoding, Sheet: cfg.Sheet},
		ChartFont:     cfg.ChartFont,
		Program: results.ProgramInfo{
			Year:        cfg.Program.Year,
			Round:       cfg.Program.Round,
			ProgramCode: cfg.Program.ProgramCode,
			ProgramName: cfg.Program.ProgramName,
			TestCode:    cfg.Program.TestCode,
			TestName:    cfg.Program.TestName,
		},
		Specimens:    cfg.Specimens,
		Organization: cfg.Organization,
	}
}

// newRunner builds a pipeline runner from the current configuration.
func newRunner() (*pipeline.Runner, error) {
	return pipeline.New(pipelineOptions(GetConfig()), logging.Logger())
}

// DebugEnabled reports the merged debug setting.
func DebugEnabled() bool { return viper.GetBool("debug") }
