package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a structured logger wrapper around slog
type Logger struct {
	*slog.Logger
}

// New creates a new structured logger with the specified log level and
// format. Format "json" selects the JSON handler; anything else gets the
// human-readable text handler. Diagnostics go to stderr so they never mix
// with shell redirection of the report path.
func New(level, format string) *Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter is New with an explicit destination, used by tests.
func NewWithWriter(w io.Writer, level, format string) *Logger {
	var logLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithFields creates a child logger with additional fields
func (l *Logger) WithFields(fields ...any) *Logger {
	return &Logger{
		Logger: l.With(fields...),
	}
}
