package pdf

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileURL(t *testing.T) {
	t.Parallel()

	u, err := FileURL(filepath.Join(t.TempDir(), "common report.html"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file:///"))
	assert.True(t, strings.HasSuffix(u, "common%20report.html"))
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("out", "L001.pdf"), OutputPath(filepath.Join("out", "L001.html")))
	assert.Equal(t, "report.pdf", OutputPath("report"))
}

func TestOptionsTimeout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultTimeout, Options{}.timeout())
	assert.Equal(t, 5*time.Second, Options{Timeout: 5 * time.Second}.timeout())
}

func TestPrintToPDFMissingInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := PrintToPDF(context.Background(), filepath.Join(dir, "missing.html"), filepath.Join(dir, "out.pdf"), Options{})
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
}

func TestPrintToPDF(t *testing.T) {
	found := false
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found || testing.Short() {
		t.Skip("no Chrome binary available")
	}

	dir := t.TempDir()
	html := filepath.Join(dir, "report.html")
	require.NoError(t, os.WriteFile(html, []byte(`<!DOCTYPE html><html><body><h1>기관별 보고서</h1></body></html>`), 0o644))
	out := OutputPath(html)

	require.NoError(t, PrintToPDF(context.Background(), html, out, Options{Timeout: 30 * time.Second}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
