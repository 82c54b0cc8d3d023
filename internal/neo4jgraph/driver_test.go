package neo4jgraph

import (
	"context"
	"os"
	"testing"
	"time"

	"graphfacade/internal/config"
	"graphfacade/internal/graph"
	"graphfacade/internal/graph/graphtest"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewDriverWithContext does not dial, so no server is needed here.
func TestWriteSessionSharesQueryBookmarks(t *testing.T) {
	ctx := context.Background()
	driver, err := neo4j.NewDriverWithContext("neo4j://localhost:7687", neo4j.NoAuth())
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close(ctx) })

	client := &DriverClient{driver: driver, database: "graph"}
	cfg := client.writeSessionConfig()

	assert.Equal(t, "graph", cfg.DatabaseName)
	assert.Equal(t, neo4j.AccessModeWrite, cfg.AccessMode)
	require.NotNil(t, cfg.BookmarkManager)
	assert.Same(t, driver.ExecuteQueryBookmarkManager(), cfg.BookmarkManager)
}

// TestDriverContract runs the contract suite against a live server. It wipes
// the target database, so point NEO4J_URI at a scratch instance.
func TestDriverContract(t *testing.T) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set, skipping Neo4j integration test")
	}
	cfg := config.Neo4jConfig{
		URI:                     uri,
		User:                    os.Getenv("NEO4J_USER"),
		Password:                os.Getenv("NEO4J_PASSWORD"),
		Database:                os.Getenv("NEO4J_DATABASE"),
		MaxConnectionPoolSize:   10,
		ConnectionTimeout:       10 * time.Second,
		MaxTransactionRetryTime: 10 * time.Second,
	}

	ctx := context.Background()
	client, err := NewDriverClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close(ctx) })

	graphtest.Run(t, func(t *testing.T) graph.Operations {
		require.NoError(t, client.write(ctx, "MATCH (n) DETACH DELETE n", nil))
		return New(client)
	}, graphtest.Capabilities{Edges: false})
}
