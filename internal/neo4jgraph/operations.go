package neo4jgraph

import (
	"context"
	"errors"

	"graphfacade/internal/graph"

	"go.uber.org/zap"
)

// Operations implements graph.Operations on top of a Client. It keeps no
// state besides the client handle and adds no locking.
type Operations struct {
	client Client
	logger *zap.Logger
}

var _ graph.Operations = (*Operations)(nil)

// Option configures Operations.
type Option func(*Operations)

// WithLogger sets the logger used for schema lifecycle messages.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Operations) {
		o.logger = logger
	}
}

// New creates the adapter around client.
func New(client Client, opts ...Option) *Operations {
	o := &Operations{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Operations) CreateNode(ctx context.Context, req *graph.CreateNodeRequest) error {
	if err := graph.CheckNodeRequest(req); err != nil {
		return err
	}
	const op = graph.OpCreateNode

	label, err := o.client.GetVertexLabel(ctx, req.NodeSchema)
	if errors.Is(err, ErrLabelNotFound) {
		return graph.Validation(op, req.NodeID, "unknown node schema "+req.NodeSchema)
	}
	if err != nil {
		return graph.Wrap(op, req.NodeID, "failed to create node", err)
	}

	if err := graph.CheckProperties(op, req.NodeID, label.Properties, req.Properties); err != nil {
		return err
	}

	vertex := Vertex{
		ID:         req.NodeID,
		Label:      req.NodeSchema,
		Properties: toNativeProperties(req.Properties),
	}
	if err := o.client.AddVertex(ctx, vertex); err != nil {
		return graph.Wrap(op, req.NodeID, "failed to create node", err)
	}
	return nil
}

func (o *Operations) CreateNodeSchema(ctx context.Context, req *graph.CreateNodeSchemaRequest) error {
	if err := graph.CheckNodeSchemaRequest(req); err != nil {
		return err
	}
	const op = graph.OpCreateNodeSchema
	name := req.Name

	exists, err := o.vertexLabelExists(ctx, name)
	if err != nil {
		return graph.Wrap(op, name, "failed to look up node schema", err)
	}
	if exists {
		o.logger.Debug("node schema already exists", zap.String("schema", name))
		return nil
	}

	err = o.client.CreateVertexLabel(ctx, VertexLabel{
		Name:       name,
		IDStrategy: IDCustomizeString,
	})
	if err != nil {
		return graph.Wrap(op, name, "failed to create node schema", err)
	}

	names := graph.SortedKeys(req.PropertyKeys)
	for _, key := range names {
		err := o.client.CreatePropertyKey(ctx, PropertyKey{
			Name:     key,
			DataType: toNativeType(req.PropertyKeys[key]),
		})
		if err != nil {
			return graph.Wrap(op, name, "failed to create property key "+key, err)
		}
	}

	if len(names) > 0 {
		if err := o.client.AppendVertexLabel(ctx, name, names, names); err != nil {
			return graph.Wrap(op, name, "failed to bind properties", err)
		}
	}

	o.logger.Info("node schema created", zap.String("schema", name), zap.Strings("properties", names))
	return nil
}

// vertexLabelExists separates a confirmed absence from a failed lookup; the
// latter is returned as an error so schema creation fails closed.
func (o *Operations) vertexLabelExists(ctx context.Context, name string) (bool, error) {
	_, err := o.client.GetVertexLabel(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrLabelNotFound):
		return false, nil
	default:
		return false, err
	}
}

// CreateEdge is not implemented by this backend.
func (o *Operations) CreateEdge(ctx context.Context, req *graph.CreateEdgeRequest) error {
	if req == nil {
		return graph.Invalid(graph.OpCreateEdge, "request is nil")
	}
	return graph.Unsupported(graph.OpCreateEdge)
}

// CreateEdgeSchema is not implemented by this backend.
func (o *Operations) CreateEdgeSchema(ctx context.Context, req *graph.CreateEdgeSchemaRequest) error {
	if req == nil {
		return graph.Invalid(graph.OpCreateEdgeSchema, "request is nil")
	}
	return graph.Unsupported(graph.OpCreateEdgeSchema)
}

func (o *Operations) GetNode(ctx context.Context, nodeID string) (*graph.Node, error) {
	const op = graph.OpGetNode
	if err := graph.CheckID(op, nodeID); err != nil {
		return nil, err
	}

	vertex, err := o.client.GetVertex(ctx, nodeID)
	if err != nil {
		return nil, graph.Wrap(op, nodeID, "failed to get node", err)
	}
	if vertex == nil {
		return nil, graph.NotFound(op, nodeID, "node not found")
	}

	props, err := fromNativeProperties(vertex.Properties)
	if err != nil {
		return nil, graph.Wrap(op, nodeID, "failed to convert node", err)
	}
	return &graph.Node{
		ID:         vertex.ID,
		Schema:     vertex.Label,
		Properties: props,
	}, nil
}

func (o *Operations) GetEdge(ctx context.Context, edgeID string) (*graph.Edge, error) {
	const op = graph.OpGetEdge
	if err := graph.CheckID(op, edgeID); err != nil {
		return nil, err
	}

	rel, err := o.client.GetEdge(ctx, edgeID)
	if err != nil {
		return nil, graph.Wrap(op, edgeID, "failed to get edge", err)
	}
	if rel == nil {
		return nil, graph.NotFound(op, edgeID, "edge not found")
	}

	props, err := fromNativeProperties(rel.Properties)
	if err != nil {
		return nil, graph.Wrap(op, edgeID, "failed to convert edge", err)
	}
	return &graph.Edge{
		ID:         rel.ID,
		Schema:     rel.Label,
		SourceID:   rel.SourceID,
		TargetID:   rel.TargetID,
		Properties: props,
	}, nil
}
