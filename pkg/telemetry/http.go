package telemetry

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// StartClientSpan starts a client span for an outgoing request and injects
// the trace context into its headers.
func StartClientSpan(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, req.Method+" "+req.URL.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPMethod(req.Method),
			semconv.HTTPURL(req.URL.String()),
			semconv.NetPeerName(req.URL.Hostname()),
		),
	)
	InjectHeaders(ctx, req.Header)
	return ctx, span
}

// EndClientSpan records the response status on the span
func EndClientSpan(span trace.Span, status int) {
	span.SetAttributes(semconv.HTTPStatusCode(status))
}

// InjectHeaders injects trace context into outgoing HTTP headers
func InjectHeaders(ctx context.Context, header http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
}
