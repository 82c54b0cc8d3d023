package graph

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataType(t *testing.T) {
	for _, d := range DataTypes {
		got, err := ParseDataType(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	got, err := ParseDataType(" boolean ")
	require.NoError(t, err)
	assert.Equal(t, Boolean, got)

	_, err = ParseDataType("BLOB")
	assert.Error(t, err)
}

func TestDataTypeJSON(t *testing.T) {
	keys := map[string]DataType{"name": String, "born": Date}
	data, err := json.Marshal(keys)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"STRING","born":"DATE"}`, string(data))

	var back map[string]DataType
	require.NoError(t, json.Unmarshal([]byte(`{"age":"int"}`), &back))
	assert.Equal(t, Int, back["age"])

	assert.Error(t, json.Unmarshal([]byte(`{"age":"nope"}`), &back))
}

func TestValueOf(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		in   any
		kind DataType
		want any
	}{
		{"x", String, "x"},
		{int32(7), Int, int32(7)},
		{int16(7), Int, int32(7)},
		{7, Long, int64(7)},
		{int64(7), Long, int64(7)},
		{true, Boolean, true},
		{float32(0.5), Double, 0.5},
		{1.25, Double, 1.25},
		{now, Date, now.UTC()},
	}
	for _, tt := range tests {
		v, err := ValueOf(tt.in)
		require.NoError(t, err, "%T", tt.in)
		assert.Equal(t, tt.kind, v.Kind(), "%T", tt.in)
		assert.Equal(t, tt.want, v.Interface(), "%T", tt.in)
	}

	_, err := ValueOf(nil)
	assert.Error(t, err)
	_, err = ValueOf([]byte("x"))
	assert.Error(t, err)
	_, err = ValueOf(Value{})
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(Int, "42")
	require.NoError(t, err)
	assert.True(t, IntValue(42).Equal(v))

	_, err = ParseValue(Int, "9999999999")
	assert.Error(t, err, "overflows int32")

	v, err = ParseValue(Date, "2020-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, Date, v.Kind())

	_, err = ParseValue(Boolean, "maybe")
	assert.Error(t, err)
}

func TestParseLiteral(t *testing.T) {
	assert.Equal(t, Boolean, ParseLiteral("true").Kind())
	assert.Equal(t, Long, ParseLiteral("1").Kind())
	assert.Equal(t, Double, ParseLiteral("1.5").Kind())
	assert.Equal(t, Date, ParseLiteral("2020-01-02T03:04:05Z").Kind())
	assert.Equal(t, String, ParseLiteral("TRUE").Kind())
	assert.Equal(t, String, ParseLiteral("Alice").Kind())
}

func TestValueJSON(t *testing.T) {
	props := Properties{
		"name":  StringValue("Alice"),
		"age":   IntValue(30),
		"score": DoubleValue(0.5),
		"ok":    BoolValue(false),
		"born":  DateValue(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	data, err := json.Marshal(props)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice","age":30,"score":0.5,"ok":false,"born":"2000-01-01T00:00:00Z"}`, string(data))

	var back Properties
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Long, back["age"].Kind(), "integral numbers decode as LONG")
	assert.Equal(t, Double, back["score"].Kind())
	assert.Equal(t, String, back["born"].Kind(), "dates need DecodeValue")

	born, err := DecodeValue(Date, json.RawMessage(`"2000-01-01T00:00:00Z"`))
	require.NoError(t, err)
	assert.True(t, props["born"].Equal(born))

	age, err := DecodeValue(Int, json.RawMessage(`30`))
	require.NoError(t, err)
	assert.True(t, props["age"].Equal(age))

	_, err = json.Marshal(Value{})
	assert.Error(t, err)
}

func TestValueEqual(t *testing.T) {
	assert.False(t, IntValue(1).Equal(LongValue(1)), "kind is part of equality")
	assert.True(t, DateValue(time.Unix(10, 0)).Equal(DateValue(time.Unix(10, 0).In(time.FixedZone("X", 7200)))))
	assert.Equal(t, "30", IntValue(30).String())
}
