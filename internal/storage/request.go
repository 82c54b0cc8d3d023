package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"graphfacade/internal/graph"
)

// Kind names the request a batch line carries.
type Kind string

const (
	KindNodeSchema Kind = "node_schema"
	KindEdgeSchema Kind = "edge_schema"
	KindNode       Kind = "node"
	KindEdge       Kind = "edge"
)

// Record is one line of a request batch. Which fields are used depends on
// Kind:
//
//	{"kind":"node_schema","name":"Person","property_keys":{"name":"STRING","age":"INT"}}
//	{"kind":"edge_schema","name":"KNOWS","source":"Person","target":"Person","property_keys":{}}
//	{"kind":"node","id":"alice","schema":"Person","properties":{"name":"Alice","age":30}}
//	{"kind":"edge","id":"e1","schema":"KNOWS","source":"alice","target":"bob"}
//
// For schemas "name" and "schema" are interchangeable.
type Record struct {
	Line         int                        `json:"-"`
	Kind         Kind                       `json:"kind"`
	ID           string                     `json:"id,omitempty"`
	Name         string                     `json:"name,omitempty"`
	Schema       string                     `json:"schema,omitempty"`
	Source       string                     `json:"source,omitempty"`
	Target       string                     `json:"target,omitempty"`
	PropertyKeys map[string]graph.DataType  `json:"property_keys,omitempty"`
	Properties   map[string]json.RawMessage `json:"properties,omitempty"`
}

func (r *Record) schemaName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Schema
}

// NodeSchemaRequest converts a node_schema record.
func (r *Record) NodeSchemaRequest() *graph.CreateNodeSchemaRequest {
	return &graph.CreateNodeSchemaRequest{Name: r.schemaName(), PropertyKeys: r.PropertyKeys}
}

// EdgeSchemaRequest converts an edge_schema record.
func (r *Record) EdgeSchemaRequest() *graph.CreateEdgeSchemaRequest {
	return &graph.CreateEdgeSchemaRequest{
		Name:         r.schemaName(),
		SourceSchema: r.Source,
		TargetSchema: r.Target,
		PropertyKeys: r.PropertyKeys,
	}
}

// NodeRequest converts a node record. Values of keys found in types are
// decoded with that type; the rest are inferred from their JSON form.
func (r *Record) NodeRequest(types map[string]graph.DataType) (*graph.CreateNodeRequest, error) {
	props, err := r.decodeProperties(types)
	if err != nil {
		return nil, err
	}
	return &graph.CreateNodeRequest{NodeID: r.ID, NodeSchema: r.Schema, Properties: props}, nil
}

// EdgeRequest converts an edge record, decoding values like NodeRequest.
func (r *Record) EdgeRequest(types map[string]graph.DataType) (*graph.CreateEdgeRequest, error) {
	props, err := r.decodeProperties(types)
	if err != nil {
		return nil, err
	}
	return &graph.CreateEdgeRequest{
		EdgeID:     r.ID,
		EdgeSchema: r.Schema,
		SourceID:   r.Source,
		TargetID:   r.Target,
		Properties: props,
	}, nil
}

func (r *Record) decodeProperties(types map[string]graph.DataType) (graph.Properties, error) {
	if len(r.Properties) == 0 {
		return nil, nil
	}
	props := make(graph.Properties, len(r.Properties))
	for name, raw := range r.Properties {
		var v graph.Value
		var err error
		if dt, ok := types[name]; ok {
			v, err = graph.DecodeValue(dt, raw)
		} else {
			err = json.Unmarshal(raw, &v)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: property %s: %w", r.Line, name, err)
		}
		props[name] = v
	}
	return props, nil
}

// RequestReader reads Records from a JSONL stream. Blank lines are skipped.
type RequestReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewRequestReader(r io.Reader) *RequestReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &RequestReader{scanner: scanner}
}

// Next returns the next record, or io.EOF at the end of input.
func (rr *RequestReader) Next() (*Record, error) {
	for rr.scanner.Scan() {
		rr.line++
		data := bytes.TrimSpace(rr.scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", rr.line, err)
		}
		rec.Line = rr.line
		switch rec.Kind {
		case KindNodeSchema, KindEdgeSchema, KindNode, KindEdge:
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", rr.line, rec.Kind)
		}
		return &rec, nil
	}
	if err := rr.scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", rr.line+1, err)
	}
	return nil, io.EOF
}

// ReadAll drains the reader.
func (rr *RequestReader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := rr.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
