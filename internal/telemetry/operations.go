// Package telemetry decorates a graph.Operations with structured logging,
// Prometheus metrics and OpenTelemetry spans. It never changes results.
// Spans go to the global tracer provider unless WithTracer is given;
// NewTracerProvider builds an OTLP one for the program to install.
package telemetry

import (
	"context"
	"strings"
	"time"

	"graphfacade/internal/graph"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "graphfacade/internal/telemetry"

// Operations wraps another graph.Operations.
type Operations struct {
	inner   graph.Operations
	backend string
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *Metrics
}

var _ graph.Operations = (*Operations)(nil)

// Option configures Operations.
type Option func(*Operations)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Operations) {
		o.logger = logger
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Operations) {
		o.tracer = tracer
	}
}

// WithMetrics enables metric recording.
func WithMetrics(m *Metrics) Option {
	return func(o *Operations) {
		o.metrics = m
	}
}

// WithBackend sets the backend label on metrics, spans and log lines.
func WithBackend(name string) Option {
	return func(o *Operations) {
		o.backend = name
	}
}

// Wrap decorates inner.
func Wrap(inner graph.Operations, opts ...Option) *Operations {
	o := &Operations{
		inner:   inner,
		backend: "unknown",
		logger:  zap.NewNop(),
		tracer:  otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// observe runs fn inside a span and records its outcome.
func (o *Operations) observe(ctx context.Context, op, id string, fn func(ctx context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, "graph."+strings.ReplaceAll(op, " ", "_"), trace.WithAttributes(
		attribute.String("graph.backend", o.backend),
		attribute.String("graph.operation", op),
		attribute.String("graph.id", id),
	))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	outcome := "ok"
	fields := []zap.Field{
		zap.String("backend", o.backend),
		zap.String("operation", op),
		zap.String("id", id),
		zap.Duration("duration", elapsed),
	}
	if err != nil {
		kind := graph.KindOf(err)
		outcome = kind.String()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("graph.error_kind", outcome))
		fields = append(fields, zap.String("kind", outcome), zap.Error(err))
		if kind == graph.KindBackend {
			o.logger.Error("graph operation failed", fields...)
		} else {
			o.logger.Warn("graph operation rejected", fields...)
		}
	} else {
		span.SetStatus(codes.Ok, "")
		o.logger.Debug("graph operation", fields...)
	}

	if o.metrics != nil {
		o.metrics.Operations.WithLabelValues(o.backend, op, outcome).Inc()
		o.metrics.Duration.WithLabelValues(o.backend, op).Observe(elapsed.Seconds())
	}
	return err
}

func (o *Operations) CreateNode(ctx context.Context, req *graph.CreateNodeRequest) error {
	var id string
	if req != nil {
		id = req.NodeID
	}
	return o.observe(ctx, graph.OpCreateNode, id, func(ctx context.Context) error {
		return o.inner.CreateNode(ctx, req)
	})
}

func (o *Operations) CreateNodeSchema(ctx context.Context, req *graph.CreateNodeSchemaRequest) error {
	var id string
	if req != nil {
		id = req.Name
	}
	return o.observe(ctx, graph.OpCreateNodeSchema, id, func(ctx context.Context) error {
		return o.inner.CreateNodeSchema(ctx, req)
	})
}

func (o *Operations) CreateEdge(ctx context.Context, req *graph.CreateEdgeRequest) error {
	var id string
	if req != nil {
		id = req.EdgeID
	}
	return o.observe(ctx, graph.OpCreateEdge, id, func(ctx context.Context) error {
		return o.inner.CreateEdge(ctx, req)
	})
}

func (o *Operations) CreateEdgeSchema(ctx context.Context, req *graph.CreateEdgeSchemaRequest) error {
	var id string
	if req != nil {
		id = req.Name
	}
	return o.observe(ctx, graph.OpCreateEdgeSchema, id, func(ctx context.Context) error {
		return o.inner.CreateEdgeSchema(ctx, req)
	})
}

func (o *Operations) GetNode(ctx context.Context, nodeID string) (*graph.Node, error) {
	var node *graph.Node
	err := o.observe(ctx, graph.OpGetNode, nodeID, func(ctx context.Context) error {
		var err error
		node, err = o.inner.GetNode(ctx, nodeID)
		return err
	})
	return node, err
}

func (o *Operations) GetEdge(ctx context.Context, edgeID string) (*graph.Edge, error) {
	var edge *graph.Edge
	err := o.observe(ctx, graph.OpGetEdge, edgeID, func(ctx context.Context) error {
		var err error
		edge, err = o.inner.GetEdge(ctx, edgeID)
		return err
	})
	return edge, err
}
