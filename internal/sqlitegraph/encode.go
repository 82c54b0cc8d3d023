package sqlitegraph

import (
	"encoding/json"
	"fmt"

	"graphfacade/internal/graph"
)

// storedValue keeps the kind next to the payload; JSON alone cannot tell an
// INT from a LONG or a DATE from a STRING.
type storedValue struct {
	Type  graph.DataType  `json:"type"`
	Value json.RawMessage `json:"value"`
}

func encodeProperties(props graph.Properties) (string, error) {
	stored := make(map[string]storedValue, len(props))
	for name, v := range props {
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("property %s: %w", name, err)
		}
		stored[name] = storedValue{Type: v.Kind(), Value: raw}
	}
	blob, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("failed to encode properties: %w", err)
	}
	return string(blob), nil
}

func decodeProperties(blob string) (graph.Properties, error) {
	var stored map[string]storedValue
	if err := json.Unmarshal([]byte(blob), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	if len(stored) == 0 {
		return nil, nil
	}
	props := make(graph.Properties, len(stored))
	for name, sv := range stored {
		v, err := graph.DecodeValue(sv.Type, sv.Value)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		props[name] = v
	}
	return props, nil
}
