package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ReservedPrefix marks property names adapters keep for their own bookkeeping.
const ReservedPrefix = "__"

// CheckProperties returns a validation error naming every key of props that
// is not in registered. Keys are reported sorted and comma-joined. Values are
// only checked once every key is known.
func CheckProperties(op, id string, registered []string, props Properties) error {
	var invalid []string
	for name := range props {
		if !slices.Contains(registered, name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) == 0 {
		return CheckValues(op, id, props)
	}
	slices.Sort(invalid)
	return &Error{
		Kind:        KindValidation,
		Op:          op,
		ID:          id,
		Message:     "invalid properties: [" + strings.Join(invalid, ",") + "]",
		InvalidKeys: invalid,
	}
}

// CheckValues rejects zero Values.
func CheckValues(op, id string, props Properties) error {
	for _, name := range props.Keys() {
		if !props[name].IsValid() {
			return Validation(op, id, fmt.Sprintf("property %s has no value", name))
		}
	}
	return nil
}

// CheckPropertyKeys rejects reserved names and unknown data types.
func CheckPropertyKeys(op, name string, keys map[string]DataType) error {
	for key, dt := range keys {
		if key == "" {
			return Validation(op, name, "empty property name")
		}
		if strings.HasPrefix(key, ReservedPrefix) {
			return Validation(op, name, fmt.Sprintf("property name %s uses reserved prefix %s", key, ReservedPrefix))
		}
		if !dt.IsValid() {
			return Validation(op, name, fmt.Sprintf("property %s has invalid data type %d", key, int(dt)))
		}
	}
	return nil
}

// CheckSchemaName rejects schema names that collide with adapter metadata.
func CheckSchemaName(op, id, schema string) error {
	if strings.HasPrefix(schema, ReservedPrefix) {
		return Validation(op, id, fmt.Sprintf("schema name %s uses reserved prefix %s", schema, ReservedPrefix))
	}
	return nil
}

// CheckNodeRequest validates the arguments of CreateNode. Property values are
// checked later by CheckProperties.
func CheckNodeRequest(req *CreateNodeRequest) error {
	switch {
	case req == nil:
		return Invalid(OpCreateNode, "request is nil")
	case req.NodeID == "":
		return Invalid(OpCreateNode, "node id is required")
	case req.NodeSchema == "":
		return Invalid(OpCreateNode, "node schema is required")
	}
	return CheckSchemaName(OpCreateNode, req.NodeID, req.NodeSchema)
}

// CheckNodeSchemaRequest validates the arguments of CreateNodeSchema.
func CheckNodeSchemaRequest(req *CreateNodeSchemaRequest) error {
	switch {
	case req == nil:
		return Invalid(OpCreateNodeSchema, "request is nil")
	case req.Name == "":
		return Invalid(OpCreateNodeSchema, "schema name is required")
	}
	if err := CheckSchemaName(OpCreateNodeSchema, req.Name, req.Name); err != nil {
		return err
	}
	return CheckPropertyKeys(OpCreateNodeSchema, req.Name, req.PropertyKeys)
}

// CheckEdgeRequest validates the arguments of CreateEdge.
func CheckEdgeRequest(req *CreateEdgeRequest) error {
	switch {
	case req == nil:
		return Invalid(OpCreateEdge, "request is nil")
	case req.EdgeID == "":
		return Invalid(OpCreateEdge, "edge id is required")
	case req.EdgeSchema == "":
		return Invalid(OpCreateEdge, "edge schema is required")
	case req.SourceID == "" || req.TargetID == "":
		return Invalid(OpCreateEdge, "source and target ids are required")
	}
	return CheckSchemaName(OpCreateEdge, req.EdgeID, req.EdgeSchema)
}

// CheckEdgeSchemaRequest validates the arguments of CreateEdgeSchema.
func CheckEdgeSchemaRequest(req *CreateEdgeSchemaRequest) error {
	switch {
	case req == nil:
		return Invalid(OpCreateEdgeSchema, "request is nil")
	case req.Name == "":
		return Invalid(OpCreateEdgeSchema, "schema name is required")
	case req.SourceSchema == "" || req.TargetSchema == "":
		return Invalid(OpCreateEdgeSchema, "source and target schemas are required")
	}
	if err := CheckSchemaName(OpCreateEdgeSchema, req.Name, req.Name); err != nil {
		return err
	}
	return CheckPropertyKeys(OpCreateEdgeSchema, req.Name, req.PropertyKeys)
}

// CheckID validates the id argument of GetNode and GetEdge.
func CheckID(op, id string) error {
	if id == "" {
		return Invalid(op, "id is required")
	}
	return nil
}

// SortedKeys returns the names of a property key map in sorted order.
func SortedKeys(keys map[string]DataType) []string {
	return slices.Sorted(maps.Keys(keys))
}
