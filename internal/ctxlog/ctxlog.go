// Package ctxlog provides a context key for passing a slog.Logger through
// context.Context between the configuration stages.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

var loggerKey = key{}

// discard is handed out when a stage is called without a configured logger,
// which happens in unit tests that exercise a single package.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the slog.Logger from a context. A context without a
// logger yields a logger that drops every record.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return discard
}
