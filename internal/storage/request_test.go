package storage_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"graphfacade/internal/graph"
	"graphfacade/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batch = `
{"kind":"node_schema","name":"Person","property_keys":{"name":"string","age":"INT","born":"DATE"}}

{"kind":"edge_schema","schema":"KNOWS","source":"Person","target":"Person","property_keys":{"since":"DATE"}}
{"kind":"node","id":"alice","schema":"Person","properties":{"name":"Alice","age":30,"born":"1990-01-01T00:00:00Z"}}
{"kind":"edge","id":"e1","schema":"KNOWS","source":"alice","target":"bob","properties":{"since":"2020-05-01T00:00:00Z"}}
`

func TestRequestReader(t *testing.T) {
	records, err := storage.NewRequestReader(strings.NewReader(batch)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	schema := records[0].NodeSchemaRequest()
	assert.Equal(t, "Person", schema.Name)
	assert.Equal(t, graph.String, schema.PropertyKeys["name"])
	assert.Equal(t, graph.Int, schema.PropertyKeys["age"])
	assert.Equal(t, 2, records[0].Line)

	edgeSchema := records[1].EdgeSchemaRequest()
	assert.Equal(t, "KNOWS", edgeSchema.Name)
	assert.Equal(t, "Person", edgeSchema.SourceSchema)
	assert.Equal(t, 4, records[1].Line)

	node, err := records[2].NodeRequest(schema.PropertyKeys)
	require.NoError(t, err)
	assert.Equal(t, "alice", node.NodeID)
	assert.Equal(t, graph.Int, node.Properties["age"].Kind())
	assert.Equal(t, graph.Date, node.Properties["born"].Kind())

	// Without declared types values are inferred.
	inferred, err := records[2].NodeRequest(nil)
	require.NoError(t, err)
	assert.Equal(t, graph.Long, inferred.Properties["age"].Kind())
	assert.Equal(t, graph.String, inferred.Properties["born"].Kind())

	edge, err := records[3].EdgeRequest(edgeSchema.PropertyKeys)
	require.NoError(t, err)
	assert.Equal(t, "bob", edge.TargetID)
	assert.Equal(t, time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), edge.Properties["since"].Interface())
}

func TestRequestReaderErrors(t *testing.T) {
	_, err := storage.NewRequestReader(strings.NewReader(`{"kind":"vertex"}`)).Next()
	assert.ErrorContains(t, err, `line 1: unknown kind "vertex"`)

	_, err = storage.NewRequestReader(strings.NewReader("\n{not json")).Next()
	assert.ErrorContains(t, err, "line 2")

	_, err = storage.NewRequestReader(strings.NewReader(`{"kind":"node_schema","property_keys":{"x":"BLOB"}}`)).Next()
	assert.Error(t, err)

	_, err = storage.NewRequestReader(strings.NewReader("")).Next()
	assert.Equal(t, io.EOF, err)
}

func TestRecordBadPropertyType(t *testing.T) {
	rec, err := storage.NewRequestReader(strings.NewReader(
		`{"kind":"node","id":"a","schema":"Person","properties":{"age":"thirty"}}`)).Next()
	require.NoError(t, err)

	_, err = rec.NodeRequest(map[string]graph.DataType{"age": graph.Int})
	assert.ErrorContains(t, err, "line 1: property age")
}
