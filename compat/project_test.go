package compat

import (
	"testing"

	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

func TestProject_OptionProjectsToNullableOneOf(t *testing.T) {
	schema := &semantic.Schema{Types: map[symbol.ID]semantic.Type{}}
	optID := symbol.Stdlib("option")
	ref := semantic.TypeRef{Symbol: &optID, Arguments: []semantic.TypeRef{stdlibRef("string")}}

	got := projectFunctionIO(schema, &ref)
	oneOf, ok := got["oneOf"].([]any)
	if !ok || len(oneOf) != 2 {
		t.Fatalf("expected oneOf of length 2, got %#v", got)
	}
}

func TestProject_InternallyTaggedEnumInjectsDiscriminantConst(t *testing.T) {
	enumID := symbol.New(symbol.KindEnum, "Shape", 0)
	schema := &semantic.Schema{Types: map[symbol.ID]semantic.Type{
		enumID: {
			ID: enumID, Kind: semantic.TypeKindEnum,
			Enum: &semantic.Enum{
				ID:             enumID,
				Name:           "Shape",
				Representation: schemair.Representation{Kind: schemair.RepresentationInternal, Tag: "kind"},
				Variants: []semantic.Variant{
					{
						Name:         "Circle",
						ResolvedType: map[string]semantic.Field{"radius": {Name: "radius", Type: stdlibRef("f64"), Required: true}},
						FieldOrder:   []string{"radius"},
					},
				},
			},
		},
	}}

	ref := structRef(enumID)
	got := projectFunctionIO(schema, &ref)
	variants, ok := got["oneOf"].([]any)
	if !ok || len(variants) != 1 {
		t.Fatalf("expected a single-variant oneOf, got %#v", got)
	}
	variant, ok := variants[0].(map[string]any)
	if !ok {
		t.Fatalf("expected variant to be an object schema, got %#v", variants[0])
	}
	props, _ := variant["properties"].(map[string]any)
	tagSchema, ok := props["kind"].(map[string]any)
	if !ok {
		t.Fatalf("expected injected %q discriminant property, got %#v", "kind", props)
	}
	if tagSchema["const"] != "Circle" {
		t.Fatalf("expected discriminant const %q, got %#v", "Circle", tagSchema)
	}
}

func TestProject_CyclicOptionBackReferenceProjectsToTop(t *testing.T) {
	nodeID := symbol.New(symbol.KindStruct, "Node", 0)
	optID := symbol.Stdlib("option")
	boxID := symbol.Stdlib("box")

	selfRef := semantic.TypeRef{Symbol: &optID, Arguments: []semantic.TypeRef{
		{Symbol: &boxID, Arguments: []semantic.TypeRef{structRef(nodeID)}},
	}}

	schema := &semantic.Schema{Types: map[symbol.ID]semantic.Type{
		nodeID: {
			ID: nodeID, Kind: semantic.TypeKindStruct,
			Struct: &semantic.Struct{
				ID:         nodeID,
				Name:       "Node",
				Fields:     map[string]semantic.Field{"next": {Name: "next", Type: selfRef, Required: false}},
				FieldOrder: []string{"next"},
			},
		},
	}}

	ref := structRef(nodeID)
	got := projectFunctionIO(schema, &ref)
	props, _ := got["properties"].(map[string]any)
	next, ok := props["next"].(map[string]any)
	if !ok {
		t.Fatalf("expected a %q property, got %#v", "next", got)
	}
	oneOf, ok := next["oneOf"].([]any)
	if !ok || len(oneOf) != 2 {
		t.Fatalf("expected option's oneOf, got %#v", next)
	}
	inner, ok := oneOf[1].(map[string]any)
	if !ok {
		t.Fatalf("expected inner schema object, got %#v", oneOf[1])
	}
	if len(inner) != 0 {
		t.Fatalf("expected the cyclic back-reference to project to Top ({}), got %#v", inner)
	}
}
