package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	OperationKey ContextKey = "operation"
)

type ContextLogger struct {
	logger *slog.Logger
}

func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext binds the request attributes of ctx to the logger, so lines
// logged without a context still carry them.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	attrs := ContextAttrs(ctx)
	if len(attrs) == 0 {
		return cl.logger
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return cl.logger.With(args...)
}

// FromContext returns the global logger decorated with the request attributes of ctx.
func FromContext(ctx context.Context) *slog.Logger {
	return GlobalContext.WithContext(ctx)
}

// WithOperation tags ctx so that log lines emitted below it carry the operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}
