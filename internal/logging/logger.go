package logging

import (
	"log/slog"
	"os"
)

// New creates a process logger with JSON output for backend services.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// Component returns a child logger tagged with the subsystem name so
// poller, watcher and API lines can be told apart in the addon log.
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}
