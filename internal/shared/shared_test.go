package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("WritesToProvidedWriter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "key=value") {
			t.Errorf("expected log output to contain key=value, got %q", buf.String())
		}
	})

	t.Run("ApplyLogLevel", func(t *testing.T) {
		logger := NewLogger(&bytes.Buffer{})

		if err := ApplyLogLevel(logger, "debug"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", logger.GetLevel())
		}

		if err := ApplyLogLevel(logger, "loud"); err == nil {
			t.Error("expected error for unknown level")
		}
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("unknown level should not change the logger, got %v", logger.GetLevel())
		}

		if err := ApplyLogLevel(logger, ""); err != nil {
			t.Errorf("empty level should be ignored, got %v", err)
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b {
			t.Error("expected unique ids")
		}
		if len(a) != 36 {
			t.Errorf("expected uuid string, got %q", a)
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "browse.log")
		logger, closeFn, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logger.Info("written to file")
		if err := closeFn(); err != nil {
			t.Fatalf("failed to close log file: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(content), "written to file") {
			t.Errorf("expected log line in file, got %q", content)
		}
	})
}
