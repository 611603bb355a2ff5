package compat

import (
	"testing"

	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

func stdlibRef(name string) semantic.TypeRef {
	id := symbol.Stdlib(name)
	return semantic.TypeRef{Symbol: &id}
}

func structRef(id symbol.ID) semantic.TypeRef {
	id2 := id
	return semantic.TypeRef{Symbol: &id2}
}

func schemaWithStruct(id symbol.ID, s *semantic.Struct) *semantic.Schema {
	return &semantic.Schema{
		Types: map[symbol.ID]semantic.Type{
			id: {ID: id, Kind: semantic.TypeKindStruct, Struct: s},
		},
		Functions: map[symbol.ID]semantic.Function{},
	}
}

func TestCheckFunction_OutputAddingOptionalFieldIsCompatible(t *testing.T) {
	userID := symbol.New(symbol.KindStruct, "User", 0)

	oldSchema := schemaWithStruct(userID, &semantic.Struct{
		ID: userID, Name: "User",
		Fields:     map[string]semantic.Field{"id": {Name: "id", Type: stdlibRef("string"), Required: true}},
		FieldOrder: []string{"id"},
	})
	newSchema := schemaWithStruct(userID, &semantic.Struct{
		ID: userID, Name: "User",
		Fields: map[string]semantic.Field{
			"id":    {Name: "id", Type: stdlibRef("string"), Required: true},
			"email": {Name: "email", Type: stdlibRef("string"), Required: false},
		},
		FieldOrder: []string{"id", "email"},
	})

	oldFn := &semantic.Function{Name: "getUser", OutputType: ref(structRef(userID))}
	newFn := &semantic.Function{Name: "getUser", OutputType: ref(structRef(userID))}

	report, err := CheckFunction(oldSchema, newSchema, oldFn, newFn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.OutputCompatible {
		t.Fatalf("expected adding an optional output field to be compatible")
	}
}

func TestCheckFunction_InputNewRequiredFieldIsIncompatible(t *testing.T) {
	reqID := symbol.New(symbol.KindStruct, "UpdateRequest", 0)

	oldSchema := schemaWithStruct(reqID, &semantic.Struct{
		ID: reqID, Name: "UpdateRequest",
		Fields:     map[string]semantic.Field{"name": {Name: "name", Type: stdlibRef("string"), Required: false}},
		FieldOrder: []string{"name"},
	})
	newSchema := schemaWithStruct(reqID, &semantic.Struct{
		ID: reqID, Name: "UpdateRequest",
		Fields:     map[string]semantic.Field{"name": {Name: "name", Type: stdlibRef("string"), Required: true}},
		FieldOrder: []string{"name"},
	})

	oldFn := &semantic.Function{Name: "updateUser", InputType: ref(structRef(reqID))}
	newFn := &semantic.Function{Name: "updateUser", InputType: ref(structRef(reqID))}

	report, err := CheckFunction(oldSchema, newSchema, oldFn, newFn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.InputCompatible {
		t.Fatalf("expected a newly required input field to be incompatible")
	}
}

func TestCheckFunction_NoOutputTypeProjectsToNull(t *testing.T) {
	oldSchema := &semantic.Schema{Types: map[symbol.ID]semantic.Type{}, Functions: map[symbol.ID]semantic.Function{}}
	newSchema := &semantic.Schema{Types: map[symbol.ID]semantic.Type{}, Functions: map[symbol.ID]semantic.Function{}}

	oldFn := &semantic.Function{Name: "ping"}
	newFn := &semantic.Function{Name: "ping"}

	report, err := CheckFunction(oldSchema, newSchema, oldFn, newFn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.OutputCompatible || !report.InputCompatible {
		t.Fatalf("expected two functions with no input/output types to be trivially compatible, got %+v", report)
	}
}

// ref takes a value TypeRef and returns a pointer, mirroring the pointer
// shape semantic.Function stores its type references in.
func ref(r semantic.TypeRef) *semantic.TypeRef { return &r }
