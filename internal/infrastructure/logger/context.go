package logger

import "context"

type ctxKey struct{}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx. Without one it returns
// fallback, or a no-op logger when fallback is nil.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return NewNop()
}

// WithFields tags the logger carried by ctx with fields for everything
// downstream. A ctx without a logger is returned unchanged.
func WithFields(ctx context.Context, fields ...Field) context.Context {
	l, ok := ctx.Value(ctxKey{}).(Logger)
	if !ok || len(fields) == 0 {
		return ctx
	}
	return WithContext(ctx, l.With(fields...))
}
