// Package applog configures the process-wide slog logger.
package applog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output describes where log records go.
type Output struct {
	Writer io.Writer
	// File is set when records go to a log file rather than stderr.
	File bool
	// Close releases the log file, if any.
	Close func() error
}

// ParseLevel accepts debug, info, warn and error. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Open returns the log destination: path when given, stderr otherwise.
func Open(path string) (Output, error) {
	if path == "" {
		return Output{Writer: os.Stderr, Close: func() error { return nil }}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Output{}, fmt.Errorf("could not open log file %q: %w", path, err)
	}
	return Output{Writer: f, File: true, Close: f.Close}, nil
}

// New builds a text logger, or a JSON one when json is set.
func New(w io.Writer, level string, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Init installs a logger for out as the slog default and returns it.
func Init(out Output, level string, json bool) *slog.Logger {
	logger := New(out.Writer, level, json)
	slog.SetDefault(logger)
	return logger
}
