package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// RequestContextHandler stamps each record with the request_id, operation
// and trace identifiers carried by its context. Keys already bound through
// WithAttrs are not repeated.
type RequestContextHandler struct {
	inner   slog.Handler
	bound   map[string]struct{}
	grouped bool
}

func NewRequestContextHandler(inner slog.Handler) *RequestContextHandler {
	return &RequestContextHandler{inner: inner}
}

// ContextAttrs returns the skyview request attributes found in ctx.
func ContextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs := make([]slog.Attr, 0, 4)
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		attrs = append(attrs, slog.String(string(RequestIDKey), requestID))
	}
	if operation, ok := ctx.Value(OperationKey).(string); ok && operation != "" {
		attrs = append(attrs, slog.String(string(OperationKey), operation))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()))
	}
	return attrs
}

func (h *RequestContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *RequestContextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, attr := range ContextAttrs(ctx) {
		if _, ok := h.bound[attr.Key]; ok {
			continue
		}
		r.AddAttrs(attr)
	}
	return h.inner.Handle(ctx, r)
}

func (h *RequestContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &RequestContextHandler{inner: h.inner.WithAttrs(attrs), bound: h.bound, grouped: h.grouped}
	if h.grouped {
		return next
	}
	next.bound = make(map[string]struct{}, len(h.bound)+len(attrs))
	for k := range h.bound {
		next.bound[k] = struct{}{}
	}
	for _, a := range attrs {
		next.bound[a.Key] = struct{}{}
	}
	return next
}

func (h *RequestContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &RequestContextHandler{inner: h.inner.WithGroup(name), bound: h.bound, grouped: true}
}
