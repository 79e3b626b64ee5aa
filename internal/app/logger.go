package app

import (
	"io"
	"log/slog"
)

// ParseLevel maps a CLI level name to a slog level. Unknown names mean info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
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

// newLogger creates an isolated slog.Logger. It does not set the global
// logger, so several apps can run side by side in tests.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(levelStr)}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
