package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = newLogger(os.Stdout, false)
)

func newLogger(out io.Writer, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// Init routes log output to stdout and, when logPath is set, to an append-only
// log file. Calling Init again replaces the previous file.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	logger.SetOutput(io.MultiWriter(writers...))
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	logger.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// Logger exposes the shared logger for components that attach fields.
func Logger() logrus.FieldLogger {
	return logger
}

// SetOutput redirects the shared logger, mainly for tests and quiet runs.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

func LogEvent(format string, args ...any) {
	logger.Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...))
}

// LogArtifact records a written output file together with a small payload
// describing it.
func LogArtifact(kind, path string, payload any) {
	logger.Info(buildArtifactMessage(kind, path, payload))
}

func buildArtifactMessage(kind, path string, payload any) string {
	k := strings.TrimSpace(kind)
	if k == "" {
		k = "artifact"
	}
	k = strings.ToUpper(k)
	p := strings.TrimSpace(path)
	if p == "" {
		p = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", k)}
	parts = append(parts, fmt.Sprintf("path=%s", p))
	if payload != nil {
		parts = append(parts, fmt.Sprintf("detail=%s", formatPayload(payload)))
	}
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
