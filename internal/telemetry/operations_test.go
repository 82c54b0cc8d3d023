package telemetry

import (
	"context"
	"testing"

	"graphfacade/internal/graph"
	"graphfacade/internal/graph/graphtest"
	"graphfacade/internal/memgraph"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type harness struct {
	ops      *Operations
	exporter *tracetest.InMemoryExporter
	metrics  *Metrics
	logs     *observer.ObservedLogs
}

func setup(t *testing.T) *harness {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { tp.Shutdown(context.Background()) })

	core, logs := observer.New(zapcore.DebugLevel)
	metrics := NewMetrics(prometheus.NewRegistry())

	ops := Wrap(memgraph.New(),
		WithBackend("memory"),
		WithLogger(zap.New(core)),
		WithTracer(tp.Tracer("test")),
		WithMetrics(metrics),
	)
	return &harness{ops: ops, exporter: exporter, metrics: metrics, logs: logs}
}

func TestContract(t *testing.T) {
	graphtest.Run(t, func(t *testing.T) graph.Operations {
		return setup(t).ops
	}, graphtest.Capabilities{Edges: true})
}

func TestSuccessRecorded(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	require.NoError(t, h.ops.CreateNodeSchema(ctx, graphtest.PersonSchema()))

	spans := h.exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "graph.create_node_schema", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		h.metrics.Operations.WithLabelValues("memory", graph.OpCreateNodeSchema, "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(h.metrics.Duration))

	entries := h.logs.FilterMessage("graph operation").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Person", entries[0].ContextMap()["id"])
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}

func TestFailureRecorded(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	_, err := h.ops.GetNode(ctx, "missing")
	require.True(t, graph.IsNotFound(err), "decorator must not change the error")

	spans := h.exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	require.NotEmpty(t, spans[0].Events, "error event recorded")

	assert.Equal(t, 1.0, testutil.ToFloat64(
		h.metrics.Operations.WithLabelValues("memory", graph.OpGetNode, "not_found")))

	rejected := h.logs.FilterMessage("graph operation rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "not_found", rejected[0].ContextMap()["kind"])
	assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)
}

func TestNilRequestPassesThrough(t *testing.T) {
	h := setup(t)
	err := h.ops.CreateNode(context.Background(), nil)
	assert.Equal(t, graph.KindInvalidArgument, graph.KindOf(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		h.metrics.Operations.WithLabelValues("memory", graph.OpCreateNode, "invalid_argument")))
}

func TestWithoutMetrics(t *testing.T) {
	ops := Wrap(memgraph.New())
	require.NoError(t, ops.CreateNodeSchema(context.Background(), &graph.CreateNodeSchemaRequest{Name: "Tag"}))
}
