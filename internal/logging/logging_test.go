package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "eqareport.log")

	require.NoError(t, Init(logPath, true))
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	Warn("skipping %s", "row 3")
	Debug("debug %d", 42)
	require.NoError(t, Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "hello world")
	assert.Contains(t, content, "skipping row 3")
	assert.Contains(t, content, "level=warning")
	assert.Contains(t, content, "debug 42")
}

func TestDebugSuppressedByDefault(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "quiet.log")

	require.NoError(t, Init(logPath, false))
	Debug("hidden line")
	LogEvent("visible line")
	require.NoError(t, Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden line")
	assert.Contains(t, string(data), "visible line")
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Logger().WithField("component", "charts").Info("rendered")
	out := buf.String()
	assert.Contains(t, out, "component=charts")
	assert.Contains(t, out, "rendered")
}

func TestBuildArtifactMessageDefaults(t *testing.T) {
	msg := buildArtifactMessage(" report ", " ", map[string]any{"ok": true})
	assert.True(t, strings.HasPrefix(msg, "[REPORT]"), msg)
	assert.Contains(t, msg, "path=unknown")
	assert.Contains(t, msg, `detail={"ok":true}`)

	msg = buildArtifactMessage("", "out/a.html", nil)
	assert.Equal(t, "[ARTIFACT] path=out/a.html", msg)
}

func TestFormatPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{name: "nil", payload: nil, want: "null"},
		{name: "blank string", payload: "  ", want: `""`},
		{name: "string", payload: "기관 12", want: "기관 12"},
		{name: "empty bytes", payload: []byte{}, want: "[]"},
		{name: "bytes", payload: []byte("raw"), want: "raw"},
		{name: "stringer", payload: testStringer("custom"), want: "custom"},
		{name: "map", payload: map[string]int{"files": 3}, want: `{"files":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPayload(tt.payload))
		})
	}
}
