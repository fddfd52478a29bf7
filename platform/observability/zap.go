package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TraceFields возвращает trace_id и span_id текущего span, если он валиден
func TraceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// L возвращает logger с trace полями из ctx.
// Если base == nil, используется logger запроса из HTTPMiddleware, затем zap.NewNop.
func L(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = LoggerFromContext(ctx)
		if base == nil {
			return zap.NewNop()
		}
		return base
	}
	fields := TraceFields(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
