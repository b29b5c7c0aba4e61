package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
)

// FromContext returns the logger stored in ctx, falling back to Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithLogger stores logger in ctx. A nil ctx starts from Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// WithRequestID stores id in ctx and replaces its logger with one that
// tags every entry with the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	logger := FromContext(ctx).With(FieldRequestID, id)
	ctx = WithLogger(ctx, logger)
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the ID stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
