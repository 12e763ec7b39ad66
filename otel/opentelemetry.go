package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var ServerOptions = trace.WithSpanKind(trace.SpanKindServer)

var ClientOptions = trace.WithSpanKind(trace.SpanKindClient)

const InstrumentationName = "github.com/quaint/analyzer"

// GetTracer Prefer the provider of an active span, so spans started under otelchi join the request trace
func GetTracer(ctx context.Context) trace.Tracer {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return newTracer(span.TracerProvider())
	}
	return newTracer(otel.GetTracerProvider())
}

func newTracer(tp trace.TracerProvider) trace.Tracer {
	return tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion("semver:2.1.2"))
}
