package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

var loggerContextKey contextKey

// With stores a child logger carrying the extra fields in the context, so
// downstream code, including event handlers detached from the request,
// keeps the request's fields in its log lines.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerContextKey, From(ctx).With(fields...))
}

// From returns the request-scoped logger, or the process logger when the
// context has none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
