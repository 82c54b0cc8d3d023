package neo4jgraph

import (
	"fmt"

	"graphfacade/internal/graph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// toNativeType maps every facade DataType to exactly one native type.
// Invalid types never get here: schema requests are validated first.
func toNativeType(d graph.DataType) NativeType {
	switch d {
	case graph.String:
		return TypeText
	case graph.Int:
		return TypeInt
	case graph.Long:
		return TypeLong
	case graph.Boolean:
		return TypeBoolean
	case graph.Double:
		return TypeDouble
	case graph.Date:
		return TypeDate
	default:
		panic(fmt.Sprintf("neo4jgraph: unmapped data type %v", d))
	}
}

func toNativeProperties(props graph.Properties) map[string]any {
	out := make(map[string]any, len(props))
	for name, v := range props {
		out[name] = v.Interface()
	}
	return out
}

// fromNativeValue accepts the Go values the driver returns, including its
// temporal types.
func fromNativeValue(x any) (graph.Value, error) {
	switch t := x.(type) {
	case neo4j.Date:
		return graph.DateValue(t.Time()), nil
	case neo4j.LocalDateTime:
		return graph.DateValue(t.Time()), nil
	default:
		return graph.ValueOf(x)
	}
}

func fromNativeProperties(props map[string]any) (graph.Properties, error) {
	out := make(graph.Properties, len(props))
	for name, x := range props {
		v, err := fromNativeValue(x)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
