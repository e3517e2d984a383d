// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	logger := log.NewWithOptions(w, opts)
	logger.SetStyles(levelStyles())
	return logger
}

// NewFileLogger creates a [log.Logger] that appends to the file at path, creating parent directories.
// The returned close function releases the file.
func NewFileLogger(path string) (*log.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(f), f.Close, nil
}

// levelStyles pads level labels to a fixed width so request lines stay aligned.
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()
	for level, color := range map[log.Level]string{
		log.DebugLevel: "63",
		log.InfoLevel:  "86",
		log.WarnLevel:  "192",
		log.ErrorLevel: "204",
		log.FatalLevel: "134",
	} {
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(levelLabel(level)).
			Bold(true).
			Width(5).
			Foreground(lipgloss.Color(color))
	}
	return styles
}

func levelLabel(level log.Level) string {
	switch level {
	case log.DebugLevel:
		return "DEBUG"
	case log.InfoLevel:
		return "INFO"
	case log.WarnLevel:
		return "WARN"
	case log.ErrorLevel:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// ApplyLogLevel parses a level name ("debug", "info", ...) and applies it.
// Unknown names leave the logger unchanged and return the parse error.
func ApplyLogLevel(l *log.Logger, name string) error {
	if name == "" {
		return nil
	}
	ll, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	SetLogLevel(l, ll)
	return nil
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}
