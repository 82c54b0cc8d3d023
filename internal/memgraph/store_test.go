package memgraph

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"graphfacade/internal/graph"
	"graphfacade/internal/graph/graphtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContract(t *testing.T) {
	graphtest.Run(t, func(t *testing.T) graph.Operations {
		return New()
	}, graphtest.Capabilities{Edges: true})
}

func TestDuplicateNodeID(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{Name: "Tag"}))
	require.NoError(t, s.CreateNode(ctx, &graph.CreateNodeRequest{NodeID: "t1", NodeSchema: "Tag"}))

	err := s.CreateNode(ctx, &graph.CreateNodeRequest{NodeID: "t1", NodeSchema: "Tag"})
	assert.Equal(t, graph.KindBackend, graph.KindOf(err))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestPropertyKeysKeepFirstType(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{
		Name:         "A",
		PropertyKeys: map[string]graph.DataType{"code": graph.Int},
	}))
	require.NoError(t, s.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{
		Name:         "B",
		PropertyKeys: map[string]graph.DataType{"code": graph.String, "label": graph.String},
	}))

	dt, ok := s.PropertyKeyType("code")
	require.True(t, ok)
	assert.Equal(t, graph.Int, dt)

	props, ok := s.NodeSchemaProperties("B")
	require.True(t, ok)
	assert.Equal(t, []string{"code", "label"}, props)
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateNodeSchema(ctx, graphtest.PersonSchema()))
	props := graph.Properties{"name": graph.StringValue("Alice")}
	require.NoError(t, s.CreateNode(ctx, &graph.CreateNodeRequest{NodeID: "a", NodeSchema: "Person", Properties: props}))

	props["name"] = graph.StringValue("Mallory")
	node, err := s.GetNode(ctx, "a")
	require.NoError(t, err)
	node.Properties["name"] = graph.StringValue("Eve")

	again, err := s.GetNode(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Properties["name"].String())
}

func TestConcurrentCreates(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateNodeSchema(ctx, graphtest.PersonSchema()))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			assert.NoError(t, s.CreateNode(ctx, &graph.CreateNodeRequest{
				NodeID:     id,
				NodeSchema: "Person",
				Properties: graph.Properties{"age": graph.IntValue(int32(i))},
			}))
			_, err := s.GetNode(ctx, id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.nodes, 50)
}
