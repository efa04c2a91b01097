package ai

import "testing"

func TestSchemaJSONSchema(t *testing.T) {
	s := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"answer":  {Type: TypeString, Description: "the answer"},
			"sources": {Type: TypeArray, Items: &Schema{Type: TypeString}},
		},
		Required: []string{"answer", "sources"},
	}

	out := s.JSONSchema()
	if out["type"] != "object" {
		t.Fatalf("expected object type, got %v", out["type"])
	}
	if out["additionalProperties"] != false {
		t.Fatalf("expected closed object, got %v", out["additionalProperties"])
	}
	required, ok := out["required"].([]any)
	if !ok || len(required) != 2 || required[0] != "answer" {
		t.Fatalf("unexpected required list: %v", out["required"])
	}

	props := out["properties"].(map[string]any)
	answer := props["answer"].(map[string]any)
	if answer["description"] != "the answer" {
		t.Fatalf("expected description, got %v", answer["description"])
	}
	sources := props["sources"].(map[string]any)
	items := sources["items"].(map[string]any)
	if items["type"] != "string" {
		t.Fatalf("expected string items, got %v", items["type"])
	}
}

func TestSchemaJSONSchema_Nil(t *testing.T) {
	var s *Schema
	if s.JSONSchema() != nil {
		t.Fatal("expected nil map for nil schema")
	}
}
