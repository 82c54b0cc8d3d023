package telemetry

import (
	"context"
	"testing"
	"time"

	"graphfacade/internal/config"
	"graphfacade/internal/graph/graphtest"
	"graphfacade/internal/memgraph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewTracerProviderRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewTracerProvider(ctx, config.TracingConfig{Enabled: true, SampleRate: 1})
	assert.Error(t, err)

	_, err = NewTracerProvider(ctx, config.TracingConfig{Enabled: true, Endpoint: "localhost:4318", SampleRate: 1.5})
	assert.Error(t, err)
}

func TestNewTracerProviderSampling(t *testing.T) {
	tests := []struct {
		rate    float64
		sampled bool
	}{
		{rate: 0, sampled: false},
		{rate: 1, sampled: true},
	}
	for _, tt := range tests {
		tp, err := NewTracerProvider(context.Background(), config.TracingConfig{
			Enabled:    true,
			Endpoint:   "127.0.0.1:4318",
			Insecure:   true,
			SampleRate: tt.rate,
		})
		require.NoError(t, err)
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			tp.Shutdown(ctx)
		})

		// Spans are left open so nothing reaches the exporter.
		_, span := tp.Tracer("test").Start(context.Background(), "graph.get_node")
		assert.Equal(t, tt.sampled, span.IsRecording(), "rate %v", tt.rate)
		assert.Equal(t, tt.sampled, span.SpanContext().IsSampled(), "rate %v", tt.rate)
	}
}

func TestWrapUsesGlobalProvider(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		tp.Shutdown(context.Background())
	})

	ops := Wrap(memgraph.New(), WithBackend("memory"))
	require.NoError(t, ops.CreateNodeSchema(context.Background(), graphtest.PersonSchema()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "graph.create_node_schema", spans[0].Name)
}
