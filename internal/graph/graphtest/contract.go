// Package graphtest holds the behavioural suite every graph.Operations
// adapter must pass.
package graphtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"graphfacade/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty adapter for one subtest.
type Factory func(t *testing.T) graph.Operations

// Capabilities describes optional behaviour of the adapter under test.
type Capabilities struct {
	// Edges is false for adapters that report Unsupported for edge creation.
	Edges bool
}

// Run executes the contract suite.
func Run(t *testing.T, newOps Factory, caps Capabilities) {
	t.Run("NodeRoundTrip", func(t *testing.T) { testNodeRoundTrip(t, newOps(t)) })
	t.Run("InvalidKeysReportedTogether", func(t *testing.T) { testInvalidKeys(t, newOps(t)) })
	t.Run("UnknownNodeSchema", func(t *testing.T) { testUnknownSchema(t, newOps(t)) })
	t.Run("SchemaIdempotent", func(t *testing.T) { testSchemaIdempotent(t, newOps(t)) })
	t.Run("EmptySchema", func(t *testing.T) { testEmptySchema(t, newOps(t)) })
	t.Run("ReservedPropertyName", func(t *testing.T) { testReservedName(t, newOps(t)) })
	t.Run("ReservedSchemaName", func(t *testing.T) { testReservedSchemaName(t, newOps(t)) })
	t.Run("SchemaNameWithBacktick", func(t *testing.T) { testBacktickSchema(t, newOps(t)) })
	t.Run("InvalidKeysBeforeValues", func(t *testing.T) { testInvalidKeysBeforeValues(t, newOps(t)) })
	t.Run("MissingNode", func(t *testing.T) { testMissingNode(t, newOps(t)) })
	t.Run("MissingEdge", func(t *testing.T) { testMissingEdge(t, newOps(t)) })
	t.Run("InvalidArguments", func(t *testing.T) { testInvalidArguments(t, newOps(t)) })
	if caps.Edges {
		t.Run("EdgeRoundTrip", func(t *testing.T) { testEdgeRoundTrip(t, newOps(t)) })
		t.Run("EdgeValidation", func(t *testing.T) { testEdgeValidation(t, newOps(t)) })
	} else {
		t.Run("EdgesUnsupported", func(t *testing.T) { testEdgesUnsupported(t, newOps(t)) })
	}
}

// PersonSchema is the node schema most cases register.
func PersonSchema() *graph.CreateNodeSchemaRequest {
	return &graph.CreateNodeSchemaRequest{
		Name: "Person",
		PropertyKeys: map[string]graph.DataType{
			"name":    graph.String,
			"age":     graph.Int,
			"balance": graph.Long,
			"active":  graph.Boolean,
			"score":   graph.Double,
			"born":    graph.Date,
		},
	}
}

func testNodeRoundTrip(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	require.NoError(t, ops.CreateNodeSchema(ctx, PersonSchema()))

	props := graph.Properties{
		"name":    graph.StringValue("Alice"),
		"age":     graph.IntValue(30),
		"balance": graph.LongValue(1 << 40),
		"active":  graph.BoolValue(true),
		"score":   graph.DoubleValue(0.75),
		"born":    graph.DateValue(time.Date(1994, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "alice",
		NodeSchema: "Person",
		Properties: props,
	}))

	node, err := ops.GetNode(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", node.ID)
	assert.Equal(t, "Person", node.Schema)
	assertProperties(t, props, node.Properties)

	// A subset of the registered keys is fine.
	require.NoError(t, ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "bob",
		NodeSchema: "Person",
		Properties: graph.Properties{"name": graph.StringValue("Bob")},
	}))
	node, err = ops.GetNode(ctx, "bob")
	require.NoError(t, err)
	assertProperties(t, graph.Properties{"name": graph.StringValue("Bob")}, node.Properties)
}

func testInvalidKeys(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	require.NoError(t, ops.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{
		Name:         "Person",
		PropertyKeys: map[string]graph.DataType{"name": graph.String, "age": graph.Int},
	}))

	err := ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "alice",
		NodeSchema: "Person",
		Properties: graph.Properties{
			"name": graph.StringValue("Alice"),
			"city": graph.StringValue("NYC"),
		},
	})
	require.Error(t, err)
	assert.Equal(t, graph.KindValidation, graph.KindOf(err))
	var gerr *graph.Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, []string{"city"}, gerr.InvalidKeys)
	assert.Contains(t, err.Error(), "invalid properties: [city]")

	err = ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "alice",
		NodeSchema: "Person",
		Properties: graph.Properties{
			"zip":  graph.StringValue("10001"),
			"name": graph.StringValue("Alice"),
			"city": graph.StringValue("NYC"),
		},
	})
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, []string{"city", "zip"}, gerr.InvalidKeys)
	assert.Contains(t, err.Error(), "invalid properties: [city,zip]")

	_, err = ops.GetNode(ctx, "alice")
	assert.True(t, graph.IsNotFound(err), "rejected node must not be persisted")
}

func testUnknownSchema(t *testing.T, ops graph.Operations) {
	err := ops.CreateNode(context.Background(), &graph.CreateNodeRequest{
		NodeID:     "ghost",
		NodeSchema: "Nope",
	})
	require.Error(t, err)
	assert.Equal(t, graph.KindValidation, graph.KindOf(err))
}

func testSchemaIdempotent(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	req := &graph.CreateNodeSchemaRequest{
		Name:         "Person",
		PropertyKeys: map[string]graph.DataType{"name": graph.String},
	}
	require.NoError(t, ops.CreateNodeSchema(ctx, req))
	require.NoError(t, ops.CreateNodeSchema(ctx, req))

	// A repeated call with a wider property set is still a no-op.
	require.NoError(t, ops.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{
		Name:         "Person",
		PropertyKeys: map[string]graph.DataType{"name": graph.String, "email": graph.String},
	}))
	err := ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "alice",
		NodeSchema: "Person",
		Properties: graph.Properties{"email": graph.StringValue("a@example.com")},
	})
	assert.True(t, graph.IsValidation(err), "second schema call must not bind new keys, got %v", err)

	require.NoError(t, ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "alice",
		NodeSchema: "Person",
		Properties: graph.Properties{"name": graph.StringValue("Alice")},
	}))
}

func testEmptySchema(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	require.NoError(t, ops.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{Name: "Tag"}))
	require.NoError(t, ops.CreateNode(ctx, &graph.CreateNodeRequest{NodeID: "t1", NodeSchema: "Tag"}))

	err := ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "t2",
		NodeSchema: "Tag",
		Properties: graph.Properties{"name": graph.StringValue("x")},
	})
	assert.True(t, graph.IsValidation(err))

	node, err := ops.GetNode(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Tag", node.Schema)
	assert.Empty(t, node.Properties)
}

func testReservedName(t *testing.T, ops graph.Operations) {
	err := ops.CreateNodeSchema(context.Background(), &graph.CreateNodeSchemaRequest{
		Name:         "Person",
		PropertyKeys: map[string]graph.DataType{"__id": graph.String},
	})
	assert.True(t, graph.IsValidation(err))
}

func testReservedSchemaName(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	err := ops.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{Name: "__VertexLabel"})
	assert.True(t, graph.IsValidation(err), "got %v", err)

	err = ops.CreateNode(ctx, &graph.CreateNodeRequest{NodeID: "x", NodeSchema: "__PropertyKey"})
	assert.True(t, graph.IsValidation(err), "got %v", err)

	_, err = ops.GetNode(ctx, "x")
	assert.True(t, graph.IsNotFound(err))
}

func testBacktickSchema(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	require.NoError(t, ops.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{
		Name:         "Odd`Name",
		PropertyKeys: map[string]graph.DataType{"name": graph.String},
	}))
	require.NoError(t, ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "odd",
		NodeSchema: "Odd`Name",
		Properties: graph.Properties{"name": graph.StringValue("x")},
	}))

	node, err := ops.GetNode(ctx, "odd")
	require.NoError(t, err)
	assert.Equal(t, "Odd`Name", node.Schema)
}

func testInvalidKeysBeforeValues(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	require.NoError(t, ops.CreateNodeSchema(ctx, PersonSchema()))

	err := ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "alice",
		NodeSchema: "Person",
		Properties: graph.Properties{
			"name": graph.StringValue("Alice"),
			"city": {},
			"zip":  graph.StringValue("10001"),
		},
	})
	var gerr *graph.Error
	require.True(t, errors.As(err, &gerr), "got %v", err)
	assert.Equal(t, graph.KindValidation, gerr.Kind)
	assert.Equal(t, []string{"city", "zip"}, gerr.InvalidKeys)

	err = ops.CreateNode(ctx, &graph.CreateNodeRequest{
		NodeID:     "alice",
		NodeSchema: "Person",
		Properties: graph.Properties{"name": {}},
	})
	assert.True(t, graph.IsValidation(err), "got %v", err)

	_, err = ops.GetNode(ctx, "alice")
	assert.True(t, graph.IsNotFound(err))
}

func testMissingNode(t *testing.T, ops graph.Operations) {
	_, err := ops.GetNode(context.Background(), "missing-id")
	require.Error(t, err)
	assert.Equal(t, graph.KindNotFound, graph.KindOf(err))
}

func testMissingEdge(t *testing.T, ops graph.Operations) {
	_, err := ops.GetEdge(context.Background(), "missing-id")
	require.Error(t, err)
	assert.Equal(t, graph.KindNotFound, graph.KindOf(err))
}

func testInvalidArguments(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	checks := map[string]error{
		"CreateNode nil":       ops.CreateNode(ctx, nil),
		"CreateNode no id":     ops.CreateNode(ctx, &graph.CreateNodeRequest{NodeSchema: "Person"}),
		"CreateNodeSchema nil": ops.CreateNodeSchema(ctx, nil),
		"CreateEdge nil":       ops.CreateEdge(ctx, nil),
		"CreateEdgeSchema nil": ops.CreateEdgeSchema(ctx, nil),
	}
	_, checks["GetNode empty"] = ops.GetNode(ctx, "")
	_, checks["GetEdge empty"] = ops.GetEdge(ctx, "")

	for name, err := range checks {
		assert.Equal(t, graph.KindInvalidArgument, graph.KindOf(err), name)
	}
}

func createEdgeFixture(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	require.NoError(t, ops.CreateNodeSchema(ctx, PersonSchema()))
	require.NoError(t, ops.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{
		Name:         "Company",
		PropertyKeys: map[string]graph.DataType{"name": graph.String},
	}))
	edgeSchema := &graph.CreateEdgeSchemaRequest{
		Name:         "WORKS_AT",
		SourceSchema: "Person",
		TargetSchema: "Company",
		PropertyKeys: map[string]graph.DataType{"since": graph.Date, "role": graph.String},
	}
	require.NoError(t, ops.CreateEdgeSchema(ctx, edgeSchema))
	require.NoError(t, ops.CreateEdgeSchema(ctx, edgeSchema))

	require.NoError(t, ops.CreateNode(ctx, &graph.CreateNodeRequest{NodeID: "alice", NodeSchema: "Person"}))
	require.NoError(t, ops.CreateNode(ctx, &graph.CreateNodeRequest{NodeID: "acme", NodeSchema: "Company"}))
}

func testEdgeRoundTrip(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	createEdgeFixture(t, ops)

	props := graph.Properties{
		"since": graph.DateValue(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)),
		"role":  graph.StringValue("engineer"),
	}
	require.NoError(t, ops.CreateEdge(ctx, &graph.CreateEdgeRequest{
		EdgeID:     "e1",
		EdgeSchema: "WORKS_AT",
		SourceID:   "alice",
		TargetID:   "acme",
		Properties: props,
	}))

	edge, err := ops.GetEdge(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", edge.ID)
	assert.Equal(t, "WORKS_AT", edge.Schema)
	assert.Equal(t, "alice", edge.SourceID)
	assert.Equal(t, "acme", edge.TargetID)
	assertProperties(t, props, edge.Properties)
}

func testEdgeValidation(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	createEdgeFixture(t, ops)

	err := ops.CreateEdgeSchema(ctx, &graph.CreateEdgeSchemaRequest{
		Name:         "OWNS",
		SourceSchema: "Person",
		TargetSchema: "Planet",
	})
	assert.True(t, graph.IsValidation(err), "unknown target schema: %v", err)

	err = ops.CreateEdge(ctx, &graph.CreateEdgeRequest{
		EdgeID: "e1", EdgeSchema: "WORKS_AT", SourceID: "alice", TargetID: "acme",
		Properties: graph.Properties{"salary": graph.LongValue(1), "bonus": graph.LongValue(2)},
	})
	var gerr *graph.Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, graph.KindValidation, gerr.Kind)
	assert.Equal(t, []string{"bonus", "salary"}, gerr.InvalidKeys)

	err = ops.CreateEdge(ctx, &graph.CreateEdgeRequest{
		EdgeID: "e2", EdgeSchema: "WORKS_AT", SourceID: "alice", TargetID: "nobody",
	})
	assert.True(t, graph.IsNotFound(err), "missing target: %v", err)

	err = ops.CreateEdge(ctx, &graph.CreateEdgeRequest{
		EdgeID: "e3", EdgeSchema: "WORKS_AT", SourceID: "acme", TargetID: "alice",
	})
	assert.True(t, graph.IsValidation(err), "reversed endpoints: %v", err)

	err = ops.CreateEdge(ctx, &graph.CreateEdgeRequest{
		EdgeID: "e4", EdgeSchema: "LIKES", SourceID: "alice", TargetID: "acme",
	})
	assert.True(t, graph.IsValidation(err), "unknown edge schema: %v", err)
}

func testEdgesUnsupported(t *testing.T, ops graph.Operations) {
	ctx := context.Background()
	err := ops.CreateEdgeSchema(ctx, &graph.CreateEdgeSchemaRequest{
		Name:         "KNOWS",
		SourceSchema: "Person",
		TargetSchema: "Person",
	})
	assert.Equal(t, graph.KindUnsupported, graph.KindOf(err))

	err = ops.CreateEdge(ctx, &graph.CreateEdgeRequest{
		EdgeID:     "e1",
		EdgeSchema: "KNOWS",
		SourceID:   "alice",
		TargetID:   "bob",
		Properties: graph.Properties{"anything": graph.StringValue("x")},
	})
	assert.Equal(t, graph.KindUnsupported, graph.KindOf(err))
	assert.True(t, graph.IsUnsupported(err))
}

func assertProperties(t *testing.T, want, got graph.Properties) {
	t.Helper()
	require.Len(t, got, len(want))
	for name, w := range want {
		g, ok := got[name]
		if assert.True(t, ok, "missing property %s", name) {
			assert.True(t, w.Equal(g), "property %s: want %v (%s), got %v (%s)", name, w, w.Kind(), g, g.Kind())
		}
	}
}
