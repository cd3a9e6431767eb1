package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/zero-day-ai/heapsim"

// InitTracing installs a tracer provider. When disabled it installs a
// no-op provider, so instrumented code paths carry zero overhead; the
// simulation never requires a collector.
func InitTracing(enabled bool, serviceName string) (*sdktrace.TracerProvider, error) {
	if !enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return nil, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)
	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	return tp, nil
}

// Tracer returns the module tracer from the installed provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan starts a span for one simulation operation, attaching the
// session attribute.
func StartSpan(ctx context.Context, op, sessionID string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, op, trace.WithAttributes(
		attribute.String("heapsim.session_id", sessionID),
	))
}

// ShutdownTracing flushes and stops the provider; nil providers (noop
// mode) are accepted.
func ShutdownTracing(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}
