// Package tracing provides OpenTelemetry tracing for the summarization
// pipeline: an HTTP server middleware and per-stage spans created by the
// orchestration service.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the docsum application.
var tracer = otel.Tracer("docsum")

// GetTracer returns the global tracer for creating spans.
func GetTracer() trace.Tracer {
	return tracer
}

// StartStage starts a span for one pipeline stage (extract, classify,
// select, infer, format).
//
// Example:
//
//	ctx, span := tracing.StartStage(ctx, "infer")
//	defer span.End()
func StartStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "pipeline."+stage)
}
