// Package ingest applies JSONL request batches through graph.Operations.
package ingest

import (
	"context"
	"fmt"
	"io"
	"slices"

	"graphfacade/internal/graph"
	"graphfacade/internal/storage"

	"go.uber.org/zap"
)

// Failure is a record the backend or the decoder rejected.
type Failure struct {
	Line int
	Kind storage.Kind
	ID   string
	Err  error
}

func newFailure(rec *storage.Record, err error) Failure {
	id := rec.ID
	if id == "" {
		id = rec.Name
		if id == "" {
			id = rec.Schema
		}
	}
	return Failure{Line: rec.Line, Kind: rec.Kind, ID: id, Err: err}
}

func (f Failure) String() string {
	return fmt.Sprintf("line %d (%s %s): %v", f.Line, f.Kind, f.ID, f.Err)
}

// Stats counts what one Load applied.
type Stats struct {
	NodeSchemas int
	EdgeSchemas int
	Nodes       int
	Edges       int
	Failures    []Failure
}

// Loader applies records in dependency order: node schemas, edge schemas,
// nodes, edges. Schemas go one at a time; nodes and edges fan out over a
// worker pool, each phase finishing before the next starts.
type Loader struct {
	ops     graph.Operations
	workers int
	logger  *zap.Logger
}

type Option func(*Loader)

func WithWorkers(n int) Option {
	return func(l *Loader) {
		l.workers = n
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

func NewLoader(ops graph.Operations, opts ...Option) *Loader {
	l := &Loader{
		ops:     ops,
		workers: 4,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadReader reads a whole JSONL batch from r and applies it. A malformed
// line aborts before anything is applied.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader) (*Stats, error) {
	records, err := storage.NewRequestReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	return l.Load(ctx, records)
}

// Load applies records. Per-record failures are collected in Stats; the
// returned error is only set when ctx is cancelled.
func (l *Loader) Load(ctx context.Context, records []*storage.Record) (*Stats, error) {
	phases := make(map[storage.Kind][]*storage.Record)
	for _, rec := range records {
		phases[rec.Kind] = append(phases[rec.Kind], rec)
	}
	stats := &Stats{}

	// Declared key types decode node and edge values; the first declaration
	// of a key wins, as in the backends.
	nodeTypes := make(map[string]map[string]graph.DataType)
	edgeTypes := make(map[string]map[string]graph.DataType)
	keyTypes := make(map[string]graph.DataType)

	for _, rec := range phases[storage.KindNodeSchema] {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		req := rec.NodeSchemaRequest()
		if err := l.ops.CreateNodeSchema(ctx, req); err != nil {
			stats.Failures = append(stats.Failures, newFailure(rec, err))
			continue
		}
		stats.NodeSchemas++
		nodeTypes[req.Name] = declare(keyTypes, req.PropertyKeys)
	}

	for _, rec := range phases[storage.KindEdgeSchema] {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		req := rec.EdgeSchemaRequest()
		if err := l.ops.CreateEdgeSchema(ctx, req); err != nil {
			stats.Failures = append(stats.Failures, newFailure(rec, err))
			continue
		}
		stats.EdgeSchemas++
		edgeTypes[req.Name] = declare(keyTypes, req.PropertyKeys)
	}

	n, failures := l.fanOut(ctx, phases[storage.KindNode], func(ctx context.Context, rec *storage.Record) error {
		req, err := rec.NodeRequest(lookup(nodeTypes, keyTypes, rec.Schema))
		if err != nil {
			return err
		}
		return l.ops.CreateNode(ctx, req)
	})
	stats.Nodes = n
	stats.Failures = append(stats.Failures, failures...)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	n, failures = l.fanOut(ctx, phases[storage.KindEdge], func(ctx context.Context, rec *storage.Record) error {
		req, err := rec.EdgeRequest(lookup(edgeTypes, keyTypes, rec.Schema))
		if err != nil {
			return err
		}
		return l.ops.CreateEdge(ctx, req)
	})
	stats.Edges = n
	stats.Failures = append(stats.Failures, failures...)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	slices.SortFunc(stats.Failures, func(a, b Failure) int { return a.Line - b.Line })
	for _, f := range stats.Failures {
		l.logger.Warn("record rejected",
			zap.Int("line", f.Line),
			zap.String("kind", string(f.Kind)),
			zap.String("id", f.ID),
			zap.Error(f.Err))
	}
	l.logger.Info("batch loaded",
		zap.Int("node_schemas", stats.NodeSchemas),
		zap.Int("edge_schemas", stats.EdgeSchemas),
		zap.Int("nodes", stats.Nodes),
		zap.Int("edges", stats.Edges),
		zap.Int("failures", len(stats.Failures)))
	return stats, nil
}

func (l *Loader) fanOut(ctx context.Context, records []*storage.Record, handle Handler) (int, []Failure) {
	if len(records) == 0 {
		return 0, nil
	}
	wp := NewWorkerPool(l.workers, handle)
	wp.Start(ctx)
	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		wp.Submit(rec)
	}
	return wp.Stop()
}

// declare records key types not seen before and returns the schema's own
// view of its keys.
func declare(global, keys map[string]graph.DataType) map[string]graph.DataType {
	own := make(map[string]graph.DataType, len(keys))
	for name, dt := range keys {
		if prev, ok := global[name]; ok {
			dt = prev
		} else {
			global[name] = dt
		}
		own[name] = dt
	}
	return own
}

// lookup returns the key types for a schema declared in this batch, falling
// back to every key declared so far for schemas registered earlier.
func lookup(bySchema map[string]map[string]graph.DataType, global map[string]graph.DataType, schema string) map[string]graph.DataType {
	if types, ok := bySchema[schema]; ok {
		return types
	}
	return global
}
