package neo4jgraph

import (
	"fmt"
	"strings"
)

// Metadata labels used to emulate a schema store on top of Neo4j.
const (
	vertexLabelMeta = "__VertexLabel"
	propertyKeyMeta = "__PropertyKey"
	idProperty      = "__id"
)

const getVertexLabelQuery = `
	MATCH (l:__VertexLabel {name: $name})
	RETURN l.idStrategy AS idStrategy, l.properties AS properties, l.nullableKeys AS nullableKeys
`

const createVertexLabelQuery = `
	MERGE (l:__VertexLabel {name: $name})
	ON CREATE SET l.idStrategy = $idStrategy, l.properties = [], l.nullableKeys = []
`

const createPropertyKeyQuery = `
	MERGE (p:__PropertyKey {name: $name})
	ON CREATE SET p.dataType = $dataType
`

const appendVertexLabelQuery = `
	MATCH (l:__VertexLabel {name: $name})
	SET l.properties = l.properties + [k IN $properties WHERE NOT k IN l.properties],
	    l.nullableKeys = l.nullableKeys + [k IN $nullableKeys WHERE NOT k IN l.nullableKeys]
	RETURN l.name AS name
`

const getVertexQuery = `
	MATCH (v {__id: $id})
	WHERE NOT v:__VertexLabel AND NOT v:__PropertyKey
	WITH v LIMIT 1
	OPTIONAL MATCH (pk:__PropertyKey) WHERE pk.name IN keys(v)
	RETURN labels(v) AS labels, properties(v) AS props, collect(pk {.name, .dataType}) AS keyTypes
`

const getEdgeQuery = `
	MATCH (s)-[r {__id: $id}]->(t)
	WITH s, r, t LIMIT 1
	OPTIONAL MATCH (pk:__PropertyKey) WHERE pk.name IN keys(r)
	RETURN type(r) AS label, properties(r) AS props, s.__id AS sourceId, t.__id AS targetId,
	       collect(pk {.name, .dataType}) AS keyTypes
`

func buildUniqueIDConstraint(label string) string {
	return fmt.Sprintf("CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE", quoteLabel(label), idProperty)
}

func buildAddVertexQuery(label string) string {
	return fmt.Sprintf(`
		CREATE (v:%s {%s: $id})
		SET v += $props
	`, quoteLabel(label), idProperty)
}

// quoteLabel backtick-quotes label, doubling embedded backticks as Cypher
// requires, so any schema name maps to exactly one label.
func quoteLabel(label string) string {
	return "`" + strings.ReplaceAll(label, "`", "``") + "`"
}
