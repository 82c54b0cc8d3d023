package neo4jgraph

import (
	"context"
	"fmt"

	"graphfacade/internal/config"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DriverClient implements Client with the official Neo4j Go driver. Schema
// metadata lives in __VertexLabel and __PropertyKey nodes next to the data.
type DriverClient struct {
	driver   neo4j.DriverWithContext
	database string
}

var _ Client = (*DriverClient)(nil)

// NewDriverClient opens a driver for cfg and verifies connectivity.
func NewDriverClient(ctx context.Context, cfg config.Neo4jConfig) (*DriverClient, error) {
	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
		c.ConnectionAcquisitionTimeout = cfg.ConnectionTimeout
		c.MaxTransactionRetryTime = cfg.MaxTransactionRetryTime
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify connectivity to neo4j: %w", err)
	}

	return &DriverClient{
		driver:   driver,
		database: cfg.Database,
	}, nil
}

// Close closes the Neo4j driver connection.
func (c *DriverClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func (c *DriverClient) read(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	return neo4j.ExecuteQuery(ctx, c.driver, query, params, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithReadersRouting())
}

// writeSessionConfig shares the bookmark manager of ExecuteQuery so reads
// routed to followers wait for earlier writes.
func (c *DriverClient) writeSessionConfig() neo4j.SessionConfig {
	return neo4j.SessionConfig{
		DatabaseName:    c.database,
		AccessMode:      neo4j.AccessModeWrite,
		BookmarkManager: c.driver.ExecuteQueryBookmarkManager(),
	}
}

func (c *DriverClient) write(ctx context.Context, query string, params map[string]any) error {
	session := c.driver.NewSession(ctx, c.writeSessionConfig())
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	return err
}

func (c *DriverClient) GetVertexLabel(ctx context.Context, name string) (*VertexLabel, error) {
	result, err := c.read(ctx, getVertexLabelQuery, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to query vertex label %s: %w", name, err)
	}
	if len(result.Records) == 0 {
		return nil, ErrLabelNotFound
	}

	rec := result.Records[0]
	strategy, _, err := neo4j.GetRecordValue[string](rec, "idStrategy")
	if err != nil {
		return nil, fmt.Errorf("vertex label %s: %w", name, err)
	}
	properties, _, err := neo4j.GetRecordValue[[]any](rec, "properties")
	if err != nil {
		return nil, fmt.Errorf("vertex label %s: %w", name, err)
	}
	nullable, _, err := neo4j.GetRecordValue[[]any](rec, "nullableKeys")
	if err != nil {
		return nil, fmt.Errorf("vertex label %s: %w", name, err)
	}

	return &VertexLabel{
		Name:         name,
		IDStrategy:   IDStrategy(strategy),
		Properties:   toStrings(properties),
		NullableKeys: toStrings(nullable),
	}, nil
}

// CreateVertexLabel registers the label and a uniqueness constraint on the
// id property. Constraints are schema operations and cannot share a
// transaction with data writes.
func (c *DriverClient) CreateVertexLabel(ctx context.Context, label VertexLabel) error {
	err := c.write(ctx, createVertexLabelQuery, map[string]any{
		"name":       label.Name,
		"idStrategy": string(label.IDStrategy),
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex label %s: %w", label.Name, err)
	}
	if err := c.write(ctx, buildUniqueIDConstraint(label.Name), nil); err != nil {
		return fmt.Errorf("failed to apply id constraint for %s: %w", label.Name, err)
	}
	return nil
}

func (c *DriverClient) CreatePropertyKey(ctx context.Context, key PropertyKey) error {
	err := c.write(ctx, createPropertyKeyQuery, map[string]any{
		"name":     key.Name,
		"dataType": string(key.DataType),
	})
	if err != nil {
		return fmt.Errorf("failed to create property key %s: %w", key.Name, err)
	}
	return nil
}

func (c *DriverClient) AppendVertexLabel(ctx context.Context, name string, properties, nullableKeys []string) error {
	err := c.write(ctx, appendVertexLabelQuery, map[string]any{
		"name":         name,
		"properties":   properties,
		"nullableKeys": nullableKeys,
	})
	if err != nil {
		return fmt.Errorf("failed to append to vertex label %s: %w", name, err)
	}
	return nil
}

func (c *DriverClient) AddVertex(ctx context.Context, vertex Vertex) error {
	err := c.write(ctx, buildAddVertexQuery(vertex.Label), map[string]any{
		"id":    vertex.ID,
		"props": vertex.Properties,
	})
	if err != nil {
		return fmt.Errorf("failed to add vertex %s: %w", vertex.ID, err)
	}
	return nil
}

func (c *DriverClient) GetVertex(ctx context.Context, id string) (*Vertex, error) {
	result, err := c.read(ctx, getVertexQuery, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to query vertex %s: %w", id, err)
	}
	if len(result.Records) == 0 {
		return nil, nil
	}

	rec := result.Records[0]
	labels, _, err := neo4j.GetRecordValue[[]any](rec, "labels")
	if err != nil {
		return nil, fmt.Errorf("vertex %s: %w", id, err)
	}
	props, keyTypes, err := recordProperties(rec)
	if err != nil {
		return nil, fmt.Errorf("vertex %s: %w", id, err)
	}

	vertex := &Vertex{ID: id, Properties: coerceProperties(props, keyTypes)}
	if names := toStrings(labels); len(names) > 0 {
		vertex.Label = names[0]
	}
	return vertex, nil
}

func (c *DriverClient) GetEdge(ctx context.Context, id string) (*Relationship, error) {
	result, err := c.read(ctx, getEdgeQuery, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to query edge %s: %w", id, err)
	}
	if len(result.Records) == 0 {
		return nil, nil
	}

	rec := result.Records[0]
	label, _, err := neo4j.GetRecordValue[string](rec, "label")
	if err != nil {
		return nil, fmt.Errorf("edge %s: %w", id, err)
	}
	// Endpoints created outside the facade may lack an id.
	source, _, _ := neo4j.GetRecordValue[string](rec, "sourceId")
	target, _, _ := neo4j.GetRecordValue[string](rec, "targetId")

	props, keyTypes, err := recordProperties(rec)
	if err != nil {
		return nil, fmt.Errorf("edge %s: %w", id, err)
	}

	return &Relationship{
		ID:         id,
		Label:      label,
		SourceID:   source,
		TargetID:   target,
		Properties: coerceProperties(props, keyTypes),
	}, nil
}

func recordProperties(rec *neo4j.Record) (map[string]any, map[string]NativeType, error) {
	props, _, err := neo4j.GetRecordValue[map[string]any](rec, "props")
	if err != nil {
		return nil, nil, err
	}
	rows, _, err := neo4j.GetRecordValue[[]any](rec, "keyTypes")
	if err != nil {
		return nil, nil, err
	}

	keyTypes := make(map[string]NativeType, len(rows))
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		dataType, _ := m["dataType"].(string)
		keyTypes[name] = NativeType(dataType)
	}
	return props, keyTypes, nil
}

// coerceProperties drops the internal id and narrows values to the type
// their property key was declared with. Bolt has a single integer type, so
// INT keys come back as int64 without this.
func coerceProperties(props map[string]any, keyTypes map[string]NativeType) map[string]any {
	out := make(map[string]any, len(props))
	for name, x := range props {
		if name == idProperty {
			continue
		}
		out[name] = coerce(x, keyTypes[name])
	}
	return out
}

func coerce(x any, t NativeType) any {
	switch t {
	case TypeInt:
		if n, ok := x.(int64); ok {
			return int32(n)
		}
	case TypeDouble:
		if n, ok := x.(int64); ok {
			return float64(n)
		}
	case TypeDate:
		switch v := x.(type) {
		case neo4j.Date:
			return v.Time()
		case neo4j.LocalDateTime:
			return v.Time()
		}
	}
	return x
}

func toStrings(xs []any) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
