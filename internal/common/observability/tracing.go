package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"ticket-workers/internal/common/logger"
)

// LogExporter writes finished spans to the structured log at debug level.
type LogExporter struct {
	log logger.Logger
}

func NewLogExporter(log logger.Logger) *LogExporter {
	return &LogExporter{log: log.WithFields(map[string]interface{}{"component": "tracing"})}
}

func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := map[string]interface{}{
			"span":       s.Name(),
			"traceId":    s.SpanContext().TraceID().String(),
			"spanId":     s.SpanContext().SpanID().String(),
			"durationMs": s.EndTime().Sub(s.StartTime()).Milliseconds(),
			"status":     s.Status().Code.String(),
		}
		for _, kv := range s.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}
		e.log.Debug("span finished", fields)
	}
	return nil
}

func (e *LogExporter) Shutdown(context.Context) error {
	return nil
}

// EnableTracing installs a global tracer provider that batches spans into exporter.
func (o *Observability) EnableTracing(serviceName string, exporter sdktrace.SpanExporter) {
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(provider)
	o.tracerProvider = provider
}
