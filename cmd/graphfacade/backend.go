package main

import (
	"context"
	"fmt"

	"graphfacade/internal/config"
	"graphfacade/internal/graph"
	"graphfacade/internal/memgraph"
	"graphfacade/internal/neo4jgraph"
	"graphfacade/internal/sqlitegraph"
	"graphfacade/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// openBackend builds the adapter named by cfg.Backend, wrapped with
// telemetry. The returned func releases the backend handle.
func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger, reg prometheus.Registerer) (graph.Operations, func() error, error) {
	var (
		ops     graph.Operations
		closeFn = func() error { return nil }
	)

	switch cfg.Backend {
	case config.BackendMemory:
		ops = memgraph.New(memgraph.WithLogger(logger))

	case config.BackendSQLite:
		store, err := sqlitegraph.Open(cfg.SQLite.Path, sqlitegraph.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		ops, closeFn = store, store.Close

	case config.BackendNeo4j:
		client, err := neo4jgraph.NewDriverClient(ctx, cfg.Neo4j)
		if err != nil {
			return nil, nil, err
		}
		ops = neo4jgraph.New(client, neo4jgraph.WithLogger(logger))
		closeFn = func() error { return client.Close(context.Background()) }

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	logger.Debug("backend opened", zap.String("backend", cfg.Backend))
	wrapped := telemetry.Wrap(ops,
		telemetry.WithBackend(cfg.Backend),
		telemetry.WithLogger(logger),
		telemetry.WithMetrics(telemetry.NewMetrics(reg)),
	)
	return wrapped, closeFn, nil
}
