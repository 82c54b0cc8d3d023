// Package sqlitegraph implements graph.Operations on a single SQLite file.
// Schemas, property keys, nodes and edges are tables; property values are
// stored as typed JSON so they read back with the kind they were written with.
package sqlitegraph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"graphfacade/internal/graph"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Store manages the SQLite connection and schema.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ graph.Operations = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open initializes the SQLite database at path and creates missing tables.
// ":memory:" gives a private in-memory database.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// One connection: ":memory:" databases are per connection, and a single
	// writer avoids SQLITE_BUSY under the ingest worker pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS property_keys (
		name TEXT PRIMARY KEY,
		data_type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS node_schemas (
		name TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS node_schema_properties (
		schema_name TEXT NOT NULL REFERENCES node_schemas(name),
		property TEXT NOT NULL REFERENCES property_keys(name),
		PRIMARY KEY (schema_name, property)
	);

	CREATE TABLE IF NOT EXISTS edge_schemas (
		name TEXT PRIMARY KEY,
		source_schema TEXT NOT NULL REFERENCES node_schemas(name),
		target_schema TEXT NOT NULL REFERENCES node_schemas(name)
	);

	CREATE TABLE IF NOT EXISTS edge_schema_properties (
		schema_name TEXT NOT NULL REFERENCES edge_schemas(name),
		property TEXT NOT NULL REFERENCES property_keys(name),
		PRIMARY KEY (schema_name, property)
	);

	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		schema_name TEXT NOT NULL REFERENCES node_schemas(name),
		properties JSON NOT NULL
	);

	CREATE TABLE IF NOT EXISTS edges (
		id TEXT PRIMARY KEY,
		schema_name TEXT NOT NULL REFERENCES edge_schemas(name),
		source_id TEXT NOT NULL REFERENCES nodes(id),
		target_id TEXT NOT NULL REFERENCES nodes(id),
		properties JSON NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
	CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction, committing when it returns nil.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func schemaProperties(ctx context.Context, tx *sql.Tx, table, schema string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, "SELECT property FROM "+table+" WHERE schema_name = ? ORDER BY property", schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// registerKeys inserts property keys that do not exist yet; existing keys
// keep their type.
func registerKeys(ctx context.Context, tx *sql.Tx, keys map[string]graph.DataType) ([]string, error) {
	names := graph.SortedKeys(keys)
	for _, name := range names {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO property_keys (name, data_type) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
			name, keys[name].String())
		if err != nil {
			return nil, fmt.Errorf("failed to create property key %s: %w", name, err)
		}
	}
	return names, nil
}

func bindKeys(ctx context.Context, tx *sql.Tx, table, schema string, names []string) error {
	for _, name := range names {
		_, err := tx.ExecContext(ctx, "INSERT INTO "+table+" (schema_name, property) VALUES (?, ?)", schema, name)
		if err != nil {
			return fmt.Errorf("failed to bind property %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) CreateNodeSchema(ctx context.Context, req *graph.CreateNodeSchemaRequest) error {
	if err := graph.CheckNodeSchemaRequest(req); err != nil {
		return err
	}
	const op = graph.OpCreateNodeSchema

	var created bool
	var names []string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM node_schemas WHERE name = ?", req.Name)
		if err != nil || found {
			return err
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO node_schemas (name) VALUES (?)", req.Name); err != nil {
			return err
		}
		if names, err = registerKeys(ctx, tx, req.PropertyKeys); err != nil {
			return err
		}
		created = true
		return bindKeys(ctx, tx, "node_schema_properties", req.Name, names)
	})
	if err != nil {
		return graph.Wrap(op, req.Name, "failed to create node schema", err)
	}

	if created {
		s.logger.Info("node schema created", zap.String("schema", req.Name), zap.Strings("properties", names))
	} else {
		s.logger.Debug("node schema already exists", zap.String("schema", req.Name))
	}
	return nil
}

func (s *Store) CreateEdgeSchema(ctx context.Context, req *graph.CreateEdgeSchemaRequest) error {
	if err := graph.CheckEdgeSchemaRequest(req); err != nil {
		return err
	}
	const op = graph.OpCreateEdgeSchema

	var created bool
	var names []string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM edge_schemas WHERE name = ?", req.Name)
		if err != nil || found {
			return err
		}
		for _, endpoint := range []string{req.SourceSchema, req.TargetSchema} {
			ok, err := exists(ctx, tx, "SELECT 1 FROM node_schemas WHERE name = ?", endpoint)
			if err != nil {
				return err
			}
			if !ok {
				return graph.Validation(op, req.Name, "unknown node schema "+endpoint)
			}
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO edge_schemas (name, source_schema, target_schema) VALUES (?, ?, ?)",
			req.Name, req.SourceSchema, req.TargetSchema)
		if err != nil {
			return err
		}
		if names, err = registerKeys(ctx, tx, req.PropertyKeys); err != nil {
			return err
		}
		created = true
		return bindKeys(ctx, tx, "edge_schema_properties", req.Name, names)
	})
	if err != nil {
		return wrapUnlessFacade(op, req.Name, "failed to create edge schema", err)
	}

	if created {
		s.logger.Info("edge schema created",
			zap.String("schema", req.Name),
			zap.String("source", req.SourceSchema),
			zap.String("target", req.TargetSchema),
			zap.Strings("properties", names))
	} else {
		s.logger.Debug("edge schema already exists", zap.String("schema", req.Name))
	}
	return nil
}

func (s *Store) CreateNode(ctx context.Context, req *graph.CreateNodeRequest) error {
	if err := graph.CheckNodeRequest(req); err != nil {
		return err
	}
	const op = graph.OpCreateNode

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM node_schemas WHERE name = ?", req.NodeSchema)
		if err != nil {
			return err
		}
		if !found {
			return graph.Validation(op, req.NodeID, "unknown node schema "+req.NodeSchema)
		}
		registered, err := schemaProperties(ctx, tx, "node_schema_properties", req.NodeSchema)
		if err != nil {
			return err
		}
		if err := graph.CheckProperties(op, req.NodeID, registered, req.Properties); err != nil {
			return err
		}

		blob, err := encodeProperties(req.Properties)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO nodes (id, schema_name, properties) VALUES (?, ?, ?)",
			req.NodeID, req.NodeSchema, blob)
		return err
	})
	if err != nil {
		return wrapUnlessFacade(op, req.NodeID, "failed to create node", err)
	}
	return nil
}

func (s *Store) CreateEdge(ctx context.Context, req *graph.CreateEdgeRequest) error {
	if err := graph.CheckEdgeRequest(req); err != nil {
		return err
	}
	const op = graph.OpCreateEdge

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var source, target string
		err := tx.QueryRowContext(ctx,
			"SELECT source_schema, target_schema FROM edge_schemas WHERE name = ?",
			req.EdgeSchema).Scan(&source, &target)
		if errors.Is(err, sql.ErrNoRows) {
			return graph.Validation(op, req.EdgeID, "unknown edge schema "+req.EdgeSchema)
		}
		if err != nil {
			return err
		}
		registered, err := schemaProperties(ctx, tx, "edge_schema_properties", req.EdgeSchema)
		if err != nil {
			return err
		}
		if err := graph.CheckProperties(op, req.EdgeID, registered, req.Properties); err != nil {
			return err
		}

		sourceSchema, err := nodeSchemaOf(ctx, tx, op, req.EdgeID, "source", req.SourceID)
		if err != nil {
			return err
		}
		targetSchema, err := nodeSchemaOf(ctx, tx, op, req.EdgeID, "target", req.TargetID)
		if err != nil {
			return err
		}
		if sourceSchema != source || targetSchema != target {
			return graph.Validation(op, req.EdgeID, fmt.Sprintf("edge schema %s connects %s to %s, got %s to %s",
				req.EdgeSchema, source, target, sourceSchema, targetSchema))
		}

		blob, err := encodeProperties(req.Properties)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO edges (id, schema_name, source_id, target_id, properties) VALUES (?, ?, ?, ?, ?)",
			req.EdgeID, req.EdgeSchema, req.SourceID, req.TargetID, blob)
		return err
	})
	if err != nil {
		return wrapUnlessFacade(op, req.EdgeID, "failed to create edge", err)
	}
	return nil
}

func nodeSchemaOf(ctx context.Context, tx *sql.Tx, op, edgeID, role, nodeID string) (string, error) {
	var schema string
	err := tx.QueryRowContext(ctx, "SELECT schema_name FROM nodes WHERE id = ?", nodeID).Scan(&schema)
	if errors.Is(err, sql.ErrNoRows) {
		return "", graph.NotFound(op, edgeID, role+" node "+nodeID+" not found")
	}
	return schema, err
}

func (s *Store) GetNode(ctx context.Context, nodeID string) (*graph.Node, error) {
	const op = graph.OpGetNode
	if err := graph.CheckID(op, nodeID); err != nil {
		return nil, err
	}

	var schema, blob string
	err := s.db.QueryRowContext(ctx,
		"SELECT schema_name, properties FROM nodes WHERE id = ?", nodeID).Scan(&schema, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, graph.NotFound(op, nodeID, "node not found")
	}
	if err != nil {
		return nil, graph.Wrap(op, nodeID, "failed to get node", err)
	}

	props, err := decodeProperties(blob)
	if err != nil {
		return nil, graph.Wrap(op, nodeID, "failed to decode node", err)
	}
	return &graph.Node{ID: nodeID, Schema: schema, Properties: props}, nil
}

func (s *Store) GetEdge(ctx context.Context, edgeID string) (*graph.Edge, error) {
	const op = graph.OpGetEdge
	if err := graph.CheckID(op, edgeID); err != nil {
		return nil, err
	}

	e := &graph.Edge{ID: edgeID}
	var blob string
	err := s.db.QueryRowContext(ctx,
		"SELECT schema_name, source_id, target_id, properties FROM edges WHERE id = ?",
		edgeID).Scan(&e.Schema, &e.SourceID, &e.TargetID, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, graph.NotFound(op, edgeID, "edge not found")
	}
	if err != nil {
		return nil, graph.Wrap(op, edgeID, "failed to get edge", err)
	}

	if e.Properties, err = decodeProperties(blob); err != nil {
		return nil, graph.Wrap(op, edgeID, "failed to decode edge", err)
	}
	return e, nil
}

// wrapUnlessFacade passes through errors that are already facade errors and
// wraps everything else as a backend failure.
func wrapUnlessFacade(op, id, message string, err error) error {
	var gerr *graph.Error
	if errors.As(err, &gerr) {
		return err
	}
	return graph.Wrap(op, id, message, err)
}
