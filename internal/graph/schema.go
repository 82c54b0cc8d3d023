package graph

import (
	"maps"
	"slices"
)

// Properties maps property names to typed values.
type Properties map[string]Value

// Keys returns the property names in sorted order.
func (p Properties) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Clone returns a shallow copy; nil stays nil.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

type Node struct {
	ID         string     `json:"id"`
	Schema     string     `json:"schema"`
	Properties Properties `json:"properties"`
}

type Edge struct {
	ID         string     `json:"id"`
	Schema     string     `json:"schema"`
	SourceID   string     `json:"sourceId"`
	TargetID   string     `json:"targetId"`
	Properties Properties `json:"properties"`
}

// CreateNodeRequest asks for one vertex of a registered node schema.
type CreateNodeRequest struct {
	NodeID     string
	NodeSchema string
	Properties Properties
}

// CreateNodeSchemaRequest describes a node schema to register once.
type CreateNodeSchemaRequest struct {
	Name         string
	PropertyKeys map[string]DataType
}

// CreateEdgeRequest asks for one edge between two existing nodes.
type CreateEdgeRequest struct {
	EdgeID     string
	EdgeSchema string
	SourceID   string
	TargetID   string
	Properties Properties
}

// CreateEdgeSchemaRequest describes an edge schema connecting two node schemas.
type CreateEdgeSchemaRequest struct {
	Name         string
	SourceSchema string
	TargetSchema string
	PropertyKeys map[string]DataType
}
