package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	actorKey     contextKey = "actor"
)

// WithContext attaches a logger to ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the attached logger or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and attaches a logger carrying it
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, l.With(zap.String("request_id", requestID)))
}

// GetRequestID returns the request ID stored in ctx
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithActor records the authenticated admin email for log correlation
func WithActor(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, actorKey, email)
}

// GetActor returns the authenticated admin email stored in ctx
func GetActor(ctx context.Context) string {
	email, _ := ctx.Value(actorKey).(string)
	return email
}

// TraceFields returns trace_id and span_id for the active span, if any
func TraceFields(ctx context.Context) []zap.Field {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	}
}

// L returns the context logger enriched with trace and actor fields.
//
//	logger.L(ctx).Info("order created", zap.String("order_number", n))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	fields := TraceFields(ctx)
	if actor := GetActor(ctx); actor != "" {
		fields = append(fields, zap.String("actor", actor))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
