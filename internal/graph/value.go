package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Value is a property value tagged with its DataType. The zero Value is
// invalid and is rejected wherever a property value is expected.
type Value struct {
	kind DataType
	str  string
	num  int64
	flt  float64
	b    bool
	t    time.Time
}

func StringValue(s string) Value { return Value{kind: String, str: s} }

func IntValue(i int32) Value { return Value{kind: Int, num: int64(i)} }

func LongValue(i int64) Value { return Value{kind: Long, num: i} }

func BoolValue(b bool) Value { return Value{kind: Boolean, b: b} }

func DoubleValue(f float64) Value { return Value{kind: Double, flt: f} }

// DateValue stores t in UTC without its monotonic clock reading, so values
// read back from a backend compare equal to the ones written.
func DateValue(t time.Time) Value { return Value{kind: Date, t: t.Round(0).UTC()} }

func (v Value) Kind() DataType { return v.kind }

func (v Value) IsValid() bool { return v.kind.IsValid() }

// Interface returns the Go-native payload: string, int32, int64, bool,
// float64 or time.Time. It returns nil for the zero Value.
func (v Value) Interface() any {
	switch v.kind {
	case String:
		return v.str
	case Int:
		return int32(v.num)
	case Long:
		return v.num
	case Boolean:
		return v.b
	case Double:
		return v.flt
	case Date:
		return v.t
	default:
		return nil
	}
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case String:
		return v.str == o.str
	case Int, Long:
		return v.num == o.num
	case Boolean:
		return v.b == o.b
	case Double:
		return v.flt == o.flt
	case Date:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case String:
		return v.str
	case Int, Long:
		return strconv.FormatInt(v.num, 10)
	case Boolean:
		return strconv.FormatBool(v.b)
	case Double:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case Date:
		return v.t.Format(time.RFC3339Nano)
	default:
		return "<invalid>"
	}
}

// ValueOf converts a Go-native value into a Value. Signed integers narrower
// than 64 bits become Int, int and int64 become Long.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		if !t.IsValid() {
			return Value{}, fmt.Errorf("invalid value")
		}
		return t, nil
	case string:
		return StringValue(t), nil
	case int8:
		return IntValue(int32(t)), nil
	case int16:
		return IntValue(int32(t)), nil
	case int32:
		return IntValue(t), nil
	case int:
		return LongValue(int64(t)), nil
	case int64:
		return LongValue(t), nil
	case bool:
		return BoolValue(t), nil
	case float32:
		return DoubleValue(float64(t)), nil
	case float64:
		return DoubleValue(t), nil
	case time.Time:
		return DateValue(t), nil
	case nil:
		return Value{}, fmt.Errorf("nil property value")
	default:
		return Value{}, fmt.Errorf("unsupported property value type %T", x)
	}
}

// ParseValue parses s as a value of the declared type.
func ParseValue(d DataType, s string) (Value, error) {
	switch d {
	case String:
		return StringValue(s), nil
	case Int:
		i, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Value{}, fmt.Errorf("parse %s: %w", d, err)
		}
		return IntValue(int32(i)), nil
	case Long:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("parse %s: %w", d, err)
		}
		return LongValue(i), nil
	case Boolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, fmt.Errorf("parse %s: %w", d, err)
		}
		return BoolValue(b), nil
	case Double:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("parse %s: %w", d, err)
		}
		return DoubleValue(f), nil
	case Date:
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return Value{}, fmt.Errorf("parse %s: %w", d, err)
		}
		return DateValue(t), nil
	default:
		return Value{}, fmt.Errorf("invalid data type %d", int(d))
	}
}

// ParseLiteral infers a type from s: boolean, integer, float, RFC 3339 date,
// and otherwise string.
func ParseLiteral(s string) Value {
	switch s {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return LongValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return DoubleValue(f)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateValue(t)
	}
	return StringValue(s)
}

// MarshalJSON writes the bare payload; dates are RFC 3339 strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Date:
		return json.Marshal(v.t.Format(time.RFC3339Nano))
	case String, Int, Long, Boolean, Double:
		return json.Marshal(v.Interface())
	default:
		return nil, fmt.Errorf("cannot marshal invalid value")
	}
}

// UnmarshalJSON infers the kind: booleans, strings, integral numbers as Long,
// other numbers as Double. Use DecodeValue when the type is known.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case bool:
		*v = BoolValue(t)
	case string:
		*v = StringValue(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			*v = LongValue(i)
			return nil
		}
		f, err := t.Float64()
		if err != nil {
			return fmt.Errorf("invalid number %s: %w", t, err)
		}
		*v = DoubleValue(f)
	default:
		return fmt.Errorf("unsupported JSON property value %s", string(data))
	}
	return nil
}

// DecodeValue decodes a JSON payload written by MarshalJSON for a known type.
func DecodeValue(d DataType, raw json.RawMessage) (Value, error) {
	switch d {
	case String:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case Int:
		var i int32
		if err := json.Unmarshal(raw, &i); err != nil {
			return Value{}, err
		}
		return IntValue(i), nil
	case Long:
		var i int64
		if err := json.Unmarshal(raw, &i); err != nil {
			return Value{}, err
		}
		return LongValue(i), nil
	case Boolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case Double:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return Value{}, err
		}
		return DoubleValue(f), nil
	case Date:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return ParseValue(Date, s)
	default:
		return Value{}, fmt.Errorf("invalid data type %d", int(d))
	}
}
