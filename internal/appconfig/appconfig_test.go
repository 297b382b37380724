// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestLoad verifies that a valid file loads with defaults applied for omitted
// values, and that invalid JSON, schema violations and missing files fail.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	validConfig := `{
        "outputDir": "out",
        "labInput": "data/hs_TnI_lab_report.csv",
        "hostingURL": "https://example.github.io/Cardiac_Marker",
        "maxReports": 5,
        "program": {"year": "2025", "round": "2", "testName": "hs-TnI"},
        "specimens": ["CCA-25-04", "CCA-25-05", "CCA-25-06"]
    }`
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(validConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected config path %q, got %q", path, cfg.ConfigPath)
	}
	if cfg.MaxReports != 5 || cfg.OutputDir != "out" {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if cfg.Program.Year != "2025" || len(cfg.Specimens) != 3 {
		t.Fatalf("nested values not decoded: %+v", cfg)
	}
	if cfg.LabReportsDir != "reports/institution_reports" {
		t.Fatalf("expected default lab reports dir, got %q", cfg.LabReportsDir)
	}
	if cfg.Encoding != "auto" {
		t.Fatalf("expected default encoding auto, got %q", cfg.Encoding)
	}
	if cfg.PDFTimeoutDuration() != 60*time.Second {
		t.Fatalf("expected default PDF timeout of 60s, got %v", cfg.PDFTimeoutDuration())
	}

	invalid := map[string]string{
		"bad json":        `{"outputDir": `,
		"unknown key":     `{"hosts": []}`,
		"negative cap":    `{"maxReports": -1}`,
		"bad encoding":    `{"encoding": "latin-9"}`,
		"bad hosting url": `{"hostingURL": "ftp://example.org"}`,
	}
	for name, body := range invalid {
		p := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".json")
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(p); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	if _, err := Load(filepath.Join(dir, "nonexistent.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// TestLoadDefaultPath loads config/config.json relative to the working
// directory when no path is given.
func TestLoadDefaultPath(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"debug": true}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Debug || cfg.ConfigPath != DefaultConfigPath {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.OutputDir != "." {
		t.Fatalf("expected default output dir, got %q", cfg.OutputDir)
	}
}

func TestLogFilePath(t *testing.T) {
	if got := (Config{}).LogFilePath(); got != "eqareport.log" {
		t.Fatalf("expected default log file, got %q", got)
	}
	if got := (Config{LogFile: "run.log"}).LogFilePath(); got != "run.log" {
		t.Fatalf("expected run.log, got %q", got)
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", nil, Defaults())
	out := buf.String()
	for _, want := range []string{"No config file loaded", "Output Dir:       .", "Max Reports:      unlimited", "Hosting URL:      (none)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	cfg := Defaults()
	cfg.Debug = true
	cfg.MaxReports = 5
	ShowConfig(&buf, "config/config.json", &cfg, Defaults())
	out = buf.String()
	if !strings.Contains(out, "Config file: config/config.json") || !strings.Contains(out, "Max Reports:      5") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "LabReportsDir") {
		t.Errorf("expected the debug dump in output:\n%s", out)
	}
}

// TestExampleConfigValidates keeps the shipped example in step with the schema.
func TestExampleConfigValidates(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.example.json"))
	if err != nil {
		t.Fatalf("example config failed to load: %v", err)
	}
	if len(cfg.Specimens) != 3 || cfg.Program.TestName != "hs-TnI" {
		t.Fatalf("unexpected example config: %+v", cfg)
	}
}
