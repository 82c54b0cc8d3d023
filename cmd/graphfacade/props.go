package main

import (
	"fmt"
	"strings"

	"graphfacade/internal/graph"
)

// parsePropertyKeys reads "name=TYPE" pairs.
func parsePropertyKeys(pairs []string) (map[string]graph.DataType, error) {
	keys := make(map[string]graph.DataType, len(pairs))
	for _, pair := range pairs {
		name, typ, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid property key %q (want name=TYPE)", pair)
		}
		dt, err := graph.ParseDataType(typ)
		if err != nil {
			return nil, fmt.Errorf("property key %s: %w", name, err)
		}
		keys[name] = dt
	}
	return keys, nil
}

// parseProperties reads "name=value" pairs, inferring the type from the
// literal, or "name:TYPE=value" pairs with an explicit type.
func parseProperties(pairs []string) (graph.Properties, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	props := make(graph.Properties, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q (want name=value or name:TYPE=value)", pair)
		}
		name, typ, typed := strings.Cut(key, ":")
		if !typed {
			props[name] = graph.ParseLiteral(raw)
			continue
		}
		dt, err := graph.ParseDataType(typ)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		v, err := graph.ParseValue(dt, raw)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		props[name] = v
	}
	return props, nil
}
