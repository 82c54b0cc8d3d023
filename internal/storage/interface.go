package storage

import "graphfacade/internal/graph"

// Emitter writes fetched entities somewhere.
type Emitter interface {
	EmitNode(node *graph.Node) error
	EmitEdge(edge *graph.Edge) error
	Close() error
}
