package neo4jgraph

import (
	"context"
	"errors"
)

// NativeType is the backend's property type vocabulary.
type NativeType string

const (
	TypeText    NativeType = "TEXT"
	TypeInt     NativeType = "INT"
	TypeLong    NativeType = "LONG"
	TypeBoolean NativeType = "BOOLEAN"
	TypeDouble  NativeType = "DOUBLE"
	TypeDate    NativeType = "DATE"
)

// IDStrategy says who assigns vertex ids for a label.
type IDStrategy string

// IDCustomizeString means callers supply string ids.
const IDCustomizeString IDStrategy = "CUSTOMIZE_STRING"

// PropertyKey is a globally registered property name with its type.
type PropertyKey struct {
	Name     string
	DataType NativeType
}

// VertexLabel is a registered vertex schema.
type VertexLabel struct {
	Name         string
	IDStrategy   IDStrategy
	Properties   []string
	NullableKeys []string
}

// Vertex is the native node representation. Property values are Go values
// as the driver exchanges them: string, int32, int64, bool, float64,
// time.Time.
type Vertex struct {
	ID         string
	Label      string
	Properties map[string]any
}

// Relationship is the native edge representation.
type Relationship struct {
	ID         string
	Label      string
	SourceID   string
	TargetID   string
	Properties map[string]any
}

// ErrLabelNotFound is returned by Client.GetVertexLabel when the label is
// confirmed absent. Any other error means the lookup itself failed.
var ErrLabelNotFound = errors.New("vertex label not found")

// Client is the set of backend primitives the adapter is built on.
// Implementations must be safe for concurrent use.
type Client interface {
	GetVertexLabel(ctx context.Context, name string) (*VertexLabel, error)

	// CreateVertexLabel creates the label unless it already exists.
	CreateVertexLabel(ctx context.Context, label VertexLabel) error

	// CreatePropertyKey creates the key unless it already exists; an existing
	// key keeps its type.
	CreatePropertyKey(ctx context.Context, key PropertyKey) error

	// AppendVertexLabel binds properties to an existing label, marking
	// nullableKeys as optional. Names already bound are left alone.
	AppendVertexLabel(ctx context.Context, name string, properties, nullableKeys []string) error

	AddVertex(ctx context.Context, vertex Vertex) error

	// GetVertex returns nil, nil when no vertex has the id.
	GetVertex(ctx context.Context, id string) (*Vertex, error)

	// GetEdge returns nil, nil when no edge has the id.
	GetEdge(ctx context.Context, id string) (*Relationship, error)
}
