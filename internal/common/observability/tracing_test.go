package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ticket-workers/internal/common/logger"
)

func TestLogExporter_WritesFinishedSpans(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	exporter := NewLogExporter(logger.NewZapAdapter(zap.New(core)))

	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer provider.Shutdown(context.Background())

	_, span := provider.Tracer("test").Start(context.Background(), "tickets.import")
	span.SetAttributes(attribute.String("import.format", "csv"), attribute.Int("import.total_records", 4))
	span.End()

	entries := logs.FilterMessage("span finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "tickets.import", fields["span"])
	assert.Equal(t, "tracing", fields["component"])
	assert.Equal(t, "csv", fields["import.format"])
	assert.Equal(t, "4", fields["import.total_records"])
	assert.NotEmpty(t, fields["traceId"])
}

func TestObservability_EnableTracingSetsGlobalProvider(t *testing.T) {
	previous := otel.GetTracerProvider()
	defer otel.SetTracerProvider(previous)

	obs := &Observability{}
	obs.EnableTracing("ticket-workers-test", NewLogExporter(logger.NewNoOpLogger()))
	defer obs.Shutdown()

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
}
