// Package infrastructure provides cross-cutting plumbing: the application
// logger and the Prometheus metrics registry.
package infrastructure

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"leadscli/internal/config"
)

// NewLogger builds the application slog logger from configuration and
// installs it as the process default.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	logger := slog.New(newHandler(os.Stdout, cfg))
	slog.SetDefault(logger)
	return logger
}

// NewLoggerWithOutput builds a logger writing to the given output. Used in
// tests to capture log lines.
func NewLoggerWithOutput(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	return slog.New(newHandler(w, cfg))
}

func newHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// parseLogLevel converts a level string to slog.Level, defaulting to info.
func parseLogLevel(level string) slog.Level {
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
