// Package memgraph is an in-process graph.Operations backend with full edge
// support. Nothing is persisted; it is meant for dry runs and tests.
package memgraph

import (
	"context"
	"errors"
	"slices"
	"sync"

	"graphfacade/internal/graph"

	"go.uber.org/zap"
)

// ErrDuplicateID is the cause attached when a node or edge id is reused.
var ErrDuplicateID = errors.New("id already exists")

type nodeSchema struct {
	properties []string
}

type edgeSchema struct {
	source, target string
	properties     []string
}

// Store holds schemas, nodes and edges in maps guarded by one RWMutex.
type Store struct {
	mu          sync.RWMutex
	keys        map[string]graph.DataType
	nodeSchemas map[string]*nodeSchema
	edgeSchemas map[string]*edgeSchema
	nodes       map[string]*graph.Node
	edges       map[string]*graph.Edge

	logger *zap.Logger
}

var _ graph.Operations = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		keys:        make(map[string]graph.DataType),
		nodeSchemas: make(map[string]*nodeSchema),
		edgeSchemas: make(map[string]*edgeSchema),
		nodes:       make(map[string]*graph.Node),
		edges:       make(map[string]*graph.Edge),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// registerKeys adds property keys not yet known and returns the sorted names.
// Existing keys keep their first declared type. Callers hold the write lock.
func (s *Store) registerKeys(keys map[string]graph.DataType) []string {
	names := graph.SortedKeys(keys)
	for _, name := range names {
		if _, ok := s.keys[name]; !ok {
			s.keys[name] = keys[name]
		}
	}
	return names
}

func (s *Store) CreateNodeSchema(ctx context.Context, req *graph.CreateNodeSchemaRequest) error {
	if err := graph.CheckNodeSchemaRequest(req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodeSchemas[req.Name]; ok {
		s.logger.Debug("node schema already exists", zap.String("schema", req.Name))
		return nil
	}
	names := s.registerKeys(req.PropertyKeys)
	s.nodeSchemas[req.Name] = &nodeSchema{properties: names}

	s.logger.Info("node schema created", zap.String("schema", req.Name), zap.Strings("properties", names))
	return nil
}

func (s *Store) CreateEdgeSchema(ctx context.Context, req *graph.CreateEdgeSchemaRequest) error {
	if err := graph.CheckEdgeSchemaRequest(req); err != nil {
		return err
	}
	const op = graph.OpCreateEdgeSchema

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.edgeSchemas[req.Name]; ok {
		s.logger.Debug("edge schema already exists", zap.String("schema", req.Name))
		return nil
	}
	for _, endpoint := range []string{req.SourceSchema, req.TargetSchema} {
		if _, ok := s.nodeSchemas[endpoint]; !ok {
			return graph.Validation(op, req.Name, "unknown node schema "+endpoint)
		}
	}
	names := s.registerKeys(req.PropertyKeys)
	s.edgeSchemas[req.Name] = &edgeSchema{
		source:     req.SourceSchema,
		target:     req.TargetSchema,
		properties: names,
	}

	s.logger.Info("edge schema created",
		zap.String("schema", req.Name),
		zap.String("source", req.SourceSchema),
		zap.String("target", req.TargetSchema),
		zap.Strings("properties", names))
	return nil
}

func (s *Store) CreateNode(ctx context.Context, req *graph.CreateNodeRequest) error {
	if err := graph.CheckNodeRequest(req); err != nil {
		return err
	}
	const op = graph.OpCreateNode

	s.mu.Lock()
	defer s.mu.Unlock()

	schema, ok := s.nodeSchemas[req.NodeSchema]
	if !ok {
		return graph.Validation(op, req.NodeID, "unknown node schema "+req.NodeSchema)
	}
	if err := graph.CheckProperties(op, req.NodeID, schema.properties, req.Properties); err != nil {
		return err
	}
	if _, ok := s.nodes[req.NodeID]; ok {
		return graph.Wrap(op, req.NodeID, "failed to create node", ErrDuplicateID)
	}

	s.nodes[req.NodeID] = &graph.Node{
		ID:         req.NodeID,
		Schema:     req.NodeSchema,
		Properties: req.Properties.Clone(),
	}
	return nil
}

func (s *Store) CreateEdge(ctx context.Context, req *graph.CreateEdgeRequest) error {
	if err := graph.CheckEdgeRequest(req); err != nil {
		return err
	}
	const op = graph.OpCreateEdge

	s.mu.Lock()
	defer s.mu.Unlock()

	schema, ok := s.edgeSchemas[req.EdgeSchema]
	if !ok {
		return graph.Validation(op, req.EdgeID, "unknown edge schema "+req.EdgeSchema)
	}
	if err := graph.CheckProperties(op, req.EdgeID, schema.properties, req.Properties); err != nil {
		return err
	}

	source, ok := s.nodes[req.SourceID]
	if !ok {
		return graph.NotFound(op, req.EdgeID, "source node "+req.SourceID+" not found")
	}
	target, ok := s.nodes[req.TargetID]
	if !ok {
		return graph.NotFound(op, req.EdgeID, "target node "+req.TargetID+" not found")
	}
	if source.Schema != schema.source || target.Schema != schema.target {
		return graph.Validation(op, req.EdgeID, "edge schema "+req.EdgeSchema+" connects "+
			schema.source+" to "+schema.target+", got "+source.Schema+" to "+target.Schema)
	}
	if _, ok := s.edges[req.EdgeID]; ok {
		return graph.Wrap(op, req.EdgeID, "failed to create edge", ErrDuplicateID)
	}

	s.edges[req.EdgeID] = &graph.Edge{
		ID:         req.EdgeID,
		Schema:     req.EdgeSchema,
		SourceID:   req.SourceID,
		TargetID:   req.TargetID,
		Properties: req.Properties.Clone(),
	}
	return nil
}

func (s *Store) GetNode(ctx context.Context, nodeID string) (*graph.Node, error) {
	const op = graph.OpGetNode
	if err := graph.CheckID(op, nodeID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[nodeID]
	if !ok {
		return nil, graph.NotFound(op, nodeID, "node not found")
	}
	return &graph.Node{ID: n.ID, Schema: n.Schema, Properties: n.Properties.Clone()}, nil
}

func (s *Store) GetEdge(ctx context.Context, edgeID string) (*graph.Edge, error) {
	const op = graph.OpGetEdge
	if err := graph.CheckID(op, edgeID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.edges[edgeID]
	if !ok {
		return nil, graph.NotFound(op, edgeID, "edge not found")
	}
	cp := *e
	cp.Properties = e.Properties.Clone()
	return &cp, nil
}

// PropertyKeyType reports the type a property key was first registered with.
func (s *Store) PropertyKeyType(name string) (graph.DataType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dt, ok := s.keys[name]
	return dt, ok
}

// NodeSchemaProperties returns the sorted property names bound to a node schema.
func (s *Store) NodeSchemaProperties(name string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schema, ok := s.nodeSchemas[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(schema.properties), true
}
