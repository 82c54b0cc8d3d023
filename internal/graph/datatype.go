package graph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DataType is the closed set of property value kinds the facade supports.
type DataType int

const (
	String DataType = iota + 1
	Int
	Long
	Boolean
	Double
	Date
)

// DataTypes lists every supported DataType in declaration order.
var DataTypes = []DataType{String, Int, Long, Boolean, Double, Date}

func (d DataType) String() string {
	switch d {
	case String:
		return "STRING"
	case Int:
		return "INT"
	case Long:
		return "LONG"
	case Boolean:
		return "BOOLEAN"
	case Double:
		return "DOUBLE"
	case Date:
		return "DATE"
	default:
		return fmt.Sprintf("DataType(%d)", int(d))
	}
}

// IsValid reports whether d is one of the enumerated kinds.
func (d DataType) IsValid() bool {
	return d >= String && d <= Date
}

// ParseDataType resolves a type name case-insensitively.
func ParseDataType(name string) (DataType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, d := range DataTypes {
		if d.String() == upper {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", name)
}

func (d DataType) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid data type %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *DataType) UnmarshalText(text []byte) error {
	parsed, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (d DataType) MarshalJSON() ([]byte, error) {
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *DataType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}
