package driver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

const minimalSchemaIR = `{
  "name": "greeter",
  "description": "a tiny schema for driver tests",
  "inputTypes": { "types": [] },
  "outputTypes": {
    "types": [
      {
        "kind": "struct",
        "id": "User",
        "name": "User",
        "fields": { "named": [
          { "id": "User.id", "name": "id", "type": { "name": "std::string" }, "required": true }
        ] },
        "serdeFlattenSupport": false
      }
    ]
  },
  "functions": [
    {
      "id": "get_user",
      "name": "get_user",
      "path": "get.user",
      "outputType": { "name": "User" },
      "serialization": ["json"]
    }
  ]
}`

func TestCompile_EmitsModelsAndClientPerTarget(t *testing.T) {
	result, err := Compile(context.Background(), []byte(minimalSchemaIR), Config{
		Targets: []Target{TargetPython, TargetRust, TargetTypeScript},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	paths := map[string]bool{}
	for _, a := range result.Artifacts {
		paths[a.Path] = true
	}
	for _, want := range []string{
		"python/models.py", "python/client.py",
		"rust/models.rs", "rust/client.rs",
		"typescript/models.ts", "typescript/client.ts",
	} {
		if !paths[want] {
			t.Errorf("expected artifact %q, got %v", want, paths)
		}
	}
}

func TestCompile_UnknownTargetIsFatal(t *testing.T) {
	_, err := Compile(context.Background(), []byte(minimalSchemaIR), Config{
		Targets: []Target{"cobol"},
	})
	if err == nil {
		t.Fatalf("expected a fatal diagnostic error for an unknown target")
	}
}

func TestCompile_IncludeOpenAPIEmitsDocument(t *testing.T) {
	result, err := Compile(context.Background(), []byte(minimalSchemaIR), Config{
		Targets:        []Target{TargetPython},
		IncludeOpenAPI: true,
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	found := false
	for _, a := range result.Artifacts {
		if a.Path == "openapi.json" {
			found = true
			var parsed map[string]any
			if err := json.Unmarshal(a.Contents, &parsed); err != nil {
				t.Fatalf("openapi.json is not valid JSON: %v", err)
			}
			if parsed["openapi"] != "3.1.0" {
				t.Fatalf("expected openapi 3.1.0, got %v", parsed["openapi"])
			}
		}
	}
	if !found {
		t.Fatalf("expected an openapi.json artifact")
	}
}

func TestCompile_CancelledContextStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compile(ctx, []byte(minimalSchemaIR), Config{Targets: []Target{TargetPython}})
	if err == nil {
		t.Fatalf("expected an error from a pre-cancelled context")
	}
}

func TestCompile_ClientFileReferencesModelsImport(t *testing.T) {
	result, err := Compile(context.Background(), []byte(minimalSchemaIR), Config{
		Targets: []Target{TargetPython},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, a := range result.Artifacts {
		if a.Path == "python/client.py" {
			if !strings.Contains(string(a.Contents), "from .models import *") {
				t.Fatalf("expected client.py to import models, got:\n%s", a.Contents)
			}
			return
		}
	}
	t.Fatalf("python/client.py artifact not found")
}
