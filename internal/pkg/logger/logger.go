package logger

import (
	"context"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields adds fields to the logger in context and returns new context
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
}

// WithAction adds "action" field to context logger to describe the flow
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// WithStage tags the context logger with the pipeline stage in progress.
func WithStage(ctx context.Context, stage string) context.Context {
	return AddFields(ctx, zap.String("stage", stage))
}

// Elapsed is a "duration" field measured from start.
func Elapsed(start time.Time) zap.Field {
	return zap.Duration("duration", time.Since(start))
}
