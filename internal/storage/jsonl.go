package storage

import (
	"encoding/json"
	"io"
	"sync"

	"graphfacade/internal/graph"
)

// JSONLEmitter implements the Emitter interface, writing one flat JSON
// object per line.
type JSONLEmitter struct {
	w       io.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONLEmitter creates a new JSONLEmitter writing to w.
func NewJSONLEmitter(w io.Writer) *JSONLEmitter {
	return &JSONLEmitter{
		w:       w,
		encoder: json.NewEncoder(w),
	}
}

// EmitNode writes a node in the flattened format:
// - node.ID -> "id"
// - node.Schema -> "type"
// - node.Properties -> inlined into the root object
func (e *JSONLEmitter) EmitNode(node *graph.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := flatten(node.Properties)
	// Core fields win over properties of the same name.
	out["id"] = node.ID
	out["type"] = node.Schema

	return e.encoder.Encode(out)
}

// EmitEdge writes an edge like a node, adding "source" and "target".
func (e *JSONLEmitter) EmitEdge(edge *graph.Edge) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := flatten(edge.Properties)
	out["id"] = edge.ID
	out["type"] = edge.Schema
	out["source"] = edge.SourceID
	out["target"] = edge.TargetID

	return e.encoder.Encode(out)
}

func flatten(props graph.Properties) map[string]any {
	out := make(map[string]any, len(props)+4)
	for k, v := range props {
		out[k] = v
	}
	return out
}

// Close closes the underlying writer if it implements io.Closer.
func (e *JSONLEmitter) Close() error {
	if c, ok := e.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
