package storage_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"graphfacade/internal/graph"
	"graphfacade/internal/storage"
)

func TestJSONLEmitter_EmitNode(t *testing.T) {
	var buf bytes.Buffer
	emitter := storage.NewJSONLEmitter(&buf)

	node := &graph.Node{
		ID:     "node-1",
		Schema: "Person",
		Properties: graph.Properties{
			"name": graph.StringValue("Alice"),
			"age":  graph.IntValue(50),
			"born": graph.DateValue(time.Date(1974, 1, 2, 0, 0, 0, 0, time.UTC)),
		},
	}

	if err := emitter.EmitNode(node); err != nil {
		t.Fatalf("EmitNode failed: %v", err)
	}

	// Read back and verify
	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Failed to unmarshal output: %v", err)
	}

	if output["id"] != "node-1" {
		t.Errorf("Expected id 'node-1', got %v", output["id"])
	}
	// Verify mapping from Schema -> type
	if output["type"] != "Person" {
		t.Errorf("Expected type 'Person', got %v", output["type"])
	}
	// Verify property flattening
	if output["name"] != "Alice" {
		t.Errorf("Expected name 'Alice', got %v", output["name"])
	}
	// JSON unmarshals numbers as float64
	if output["age"] != 50.0 {
		t.Errorf("Expected age 50, got %v", output["age"])
	}
	if output["born"] != "1974-01-02T00:00:00Z" {
		t.Errorf("Expected RFC 3339 date, got %v", output["born"])
	}
}

func TestJSONLEmitter_CoreFieldsWin(t *testing.T) {
	var buf bytes.Buffer
	emitter := storage.NewJSONLEmitter(&buf)

	node := &graph.Node{
		ID:         "node-1",
		Schema:     "Tag",
		Properties: graph.Properties{"type": graph.StringValue("shadowed")},
	}
	if err := emitter.EmitNode(node); err != nil {
		t.Fatalf("EmitNode failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"type":"Tag"`) {
		t.Errorf("Expected schema in type field, got %s", buf.String())
	}
}

func TestJSONLEmitter_EmitEdge(t *testing.T) {
	var buf bytes.Buffer
	emitter := storage.NewJSONLEmitter(&buf)

	edge := &graph.Edge{
		ID:         "e1",
		Schema:     "KNOWS",
		SourceID:   "node-1",
		TargetID:   "node-2",
		Properties: graph.Properties{"weight": graph.DoubleValue(0.5)},
	}

	if err := emitter.EmitEdge(edge); err != nil {
		t.Fatalf("EmitEdge failed: %v", err)
	}

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Failed to unmarshal output: %v", err)
	}

	// Verify mappings
	if output["source"] != "node-1" {
		t.Errorf("Expected source 'node-1', got %v", output["source"])
	}
	if output["target"] != "node-2" {
		t.Errorf("Expected target 'node-2', got %v", output["target"])
	}
	if output["type"] != "KNOWS" {
		t.Errorf("Expected type 'KNOWS', got %v", output["type"])
	}
	if output["id"] != "e1" {
		t.Errorf("Expected id 'e1', got %v", output["id"])
	}
	if output["weight"] != 0.5 {
		t.Errorf("Expected weight 0.5, got %v", output["weight"])
	}
}

func TestJSONLEmitter_OneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	emitter := storage.NewJSONLEmitter(&buf)
	for _, id := range []string{"a", "b", "c"} {
		if err := emitter.EmitNode(&graph.Node{ID: id, Schema: "Tag"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := emitter.Close(); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 3 {
		t.Errorf("Expected 3 lines, got %d", lines)
	}
}
