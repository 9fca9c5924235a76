// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
)

// Setup installs the default slog logger with the given level and format.
// Format "json" selects the JSON handler, anything else selects text.
// Logs go to stderr so stage output redirection stays clean.
func Setup(level string, format string) {
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// WithStage returns a logger tagged with a pipeline stage name.
func WithStage(stage string) *slog.Logger {
	return slog.Default().With("stage", stage)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
