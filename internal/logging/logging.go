package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init creates and sets the package-level default slog logger.
// All log output goes to stderr so that CSV/JSON written to stdout by a
// pipeline run stays machine-readable. When jsonOutput is true the handler
// emits JSON records, otherwise human-readable text.
func Init(level slog.Level, jsonOutput bool) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// ForRun returns the default logger tagged with a run correlation id.
// Every pipeline stage logs through this so one backfill run can be
// traced end to end.
func ForRun(runID string) *slog.Logger {
	return slog.Default().With("run_id", runID)
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
