package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with the output format it was built with.
type Logger struct {
	*slog.Logger
	format string
}

// Format returns the logger format (json or text).
func (l *Logger) Format() string {
	return l.format
}

// ParseLevel maps a level name to a slog.Level, defaulting to error so a
// bare CLI run stays quiet.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// New creates a structured logger writing to output. Format is "json" or
// "text"; anything else falls back to text.
func New(level, format string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	format = strings.ToLower(format)
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		format = "text"
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{Logger: slog.New(handler), format: format}
}
