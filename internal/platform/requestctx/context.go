// Package requestctx carries the request logger and trace id between middleware and handlers.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type key int

const (
	loggerKey key = iota
	traceIDKey
)

var nop = zap.NewNop()

// WithLogger stores logger for the rest of the request; nil stores the no-op logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		logger = nop
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger returns the request logger, or NoopLogger when none is stored.
func Logger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return nop
}

// NoopLogger is the shared logger returned when none is stored.
func NoopLogger() *zap.Logger { return nop }

// WithTraceID records the id of the sampled or propagated trace. Empty ids are ignored.
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceID returns the recorded trace id, or "".
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}
