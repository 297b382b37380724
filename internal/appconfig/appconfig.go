// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultPDFTimeout bounds one headless Chrome printout.
	defaultPDFTimeout = 60 * time.Second
	// defaultLabReportsDir holds the institution reports below the output directory.
	defaultLabReportsDir = "reports/institution_reports"
	defaultWorkers       = 4
)

//go:embed schema.json
var schemaJSON []byte

// Config represents the top-level application configuration.
type Config struct {
	Debug         bool     `json:"debug"`
	LogFile       string   `json:"logFile,omitempty"`
	OutputDir     string   `json:"outputDir"`
	LabReportsDir string   `json:"labReportsDir,omitempty"`
	HostingURL    string   `json:"hostingURL,omitempty"`
	MaxReports    int      `json:"maxReports"`
	Workers       int      `json:"workers,omitempty"`
	CommonInput   string   `json:"commonInput,omitempty"`
	LabInput      string   `json:"labInput,omitempty"`
	WideInput     string   `json:"wideInput,omitempty"`
	Encoding      string   `json:"encoding,omitempty"`
	Sheet         string   `json:"sheet,omitempty"`
	ChartFont     string   `json:"chartFont,omitempty"`
	PDFTimeout    int      `json:"pdfTimeout,omitempty"`
	Program       Program  `json:"program"`
	Specimens     []string `json:"specimens,omitempty"`
	Organization  string   `json:"organization,omitempty"`
	ConfigPath    string   `json:"-"`
}

// Program fills in or overrides the program fields of the input tables.
type Program struct {
	Year        string `json:"year,omitempty"`
	Round       string `json:"round,omitempty"`
	ProgramCode string `json:"programCode,omitempty"`
	ProgramName string `json:"programName,omitempty"`
	TestCode    string `json:"testCode,omitempty"`
	TestName    string `json:"testName,omitempty"`
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	return Config{
		OutputDir:     ".",
		LabReportsDir: defaultLabReportsDir,
		Workers:       defaultWorkers,
		Encoding:      "auto",
		PDFTimeout:    int(defaultPDFTimeout.Seconds()),
	}
}

// PDFTimeoutDuration returns the printout timeout, falling back to the default if not specified.
func (c Config) PDFTimeoutDuration() time.Duration {
	if c.PDFTimeout <= 0 {
		return defaultPDFTimeout
	}
	return time.Duration(c.PDFTimeout) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "eqareport.log"
}

// Load reads and validates the configuration at path, applying defaults for
// omitted values.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	config, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// Parse validates a JSON document against the configuration schema and
// decodes it over the defaults.
func Parse(data []byte) (Config, error) {
	if err := Validate(data); err != nil {
		return Config{}, err
	}
	config := Defaults()
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&config); err != nil {
		return Config{}, err
	}
	config.applyDefaults()
	return config, nil
}

// Validate checks a JSON document against the embedded schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(errs, ", "))
}

// applyDefaults restores defaults for values a file set to their zero value.
func (c *Config) applyDefaults() {
	d := Defaults()
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = d.OutputDir
	}
	if strings.TrimSpace(c.LabReportsDir) == "" {
		c.LabReportsDir = d.LabReportsDir
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.Encoding == "" {
		c.Encoding = d.Encoding
	}
	if c.PDFTimeout <= 0 {
		c.PDFTimeout = d.PDFTimeout
	}
}
