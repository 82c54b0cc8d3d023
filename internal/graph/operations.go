package graph

import "context"

// Operation names used in errors, logs, metrics and spans.
const (
	OpCreateNode       = "create node"
	OpCreateNodeSchema = "create node schema"
	OpCreateEdge       = "create edge"
	OpCreateEdgeSchema = "create edge schema"
	OpGetNode          = "get node"
	OpGetEdge          = "get edge"
)

// Operations is the backend-agnostic graph contract. Every method either
// succeeds or returns an *Error.
type Operations interface {
	// CreateNode persists one node. The schema must exist and every property
	// key must be registered on it.
	CreateNode(ctx context.Context, req *CreateNodeRequest) error

	// CreateNodeSchema registers a node schema and binds its property keys as
	// nullable. It is a no-op when the schema already exists.
	CreateNodeSchema(ctx context.Context, req *CreateNodeSchemaRequest) error

	CreateEdge(ctx context.Context, req *CreateEdgeRequest) error
	CreateEdgeSchema(ctx context.Context, req *CreateEdgeSchemaRequest) error

	// GetNode fails with KindNotFound when no node has the id.
	GetNode(ctx context.Context, nodeID string) (*Node, error)

	// GetEdge fails with KindNotFound when no edge has the id.
	GetEdge(ctx context.Context, edgeID string) (*Edge, error)
}
