package lowering

import (
	"testing"

	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

func TestClassifyType_StructDefaultIsSimpleModel(t *testing.T) {
	ty := semantic.Type{Kind: semantic.TypeKindStruct, Struct: &semantic.Struct{}}
	got, err := ClassifyType(ty)
	if err != nil || got != ConceptSimpleModel {
		t.Fatalf("got %q, %v; want %q", got, err, ConceptSimpleModel)
	}
}

func TestClassifyType_TransparentStructIsTypeAlias(t *testing.T) {
	ty := semantic.Type{Kind: semantic.TypeKindStruct, Struct: &semantic.Struct{Transparent: true}}
	got, _ := ClassifyType(ty)
	if got != ConceptTypeAlias {
		t.Fatalf("got %q, want %q", got, ConceptTypeAlias)
	}
}

func TestClassifyType_GenericStructWinsOverTransparent(t *testing.T) {
	ty := semantic.Type{Kind: semantic.TypeKindStruct, Struct: &semantic.Struct{Transparent: true, Parameters: []string{"T"}}}
	got, _ := ClassifyType(ty)
	if got != ConceptGenericRootModel {
		t.Fatalf("got %q, want %q", got, ConceptGenericRootModel)
	}
}

func TestClassifyType_EnumRepresentations(t *testing.T) {
	cases := []struct {
		name string
		rep  schemair.Representation
		unit bool
		want Concept
	}{
		{"internal", schemair.Representation{Kind: schemair.RepresentationInternal, Tag: "type"}, false, ConceptDiscriminatedUnion},
		{"adjacent", schemair.Representation{Kind: schemair.RepresentationAdjacent, Tag: "t", Content: "c"}, false, ConceptDiscriminatedUnion},
		{"untagged", schemair.Representation{Kind: schemair.RepresentationUntagged}, false, ConceptRootModelWrapper},
		{"external-unit", schemair.Representation{Kind: schemair.RepresentationExternal}, true, ConceptStringLiteralUnion},
		{"external-fielded", schemair.Representation{Kind: schemair.RepresentationExternal}, false, ConceptRootModelWrapper},
		{"none-unit", schemair.Representation{Kind: schemair.RepresentationNone}, true, ConceptStringLiteralUnion},
	}
	for _, c := range cases {
		fieldsKind := schemair.FieldsNamed
		if c.unit {
			fieldsKind = schemair.FieldsNone
		}
		ty := semantic.Type{Kind: semantic.TypeKindEnum, Enum: &semantic.Enum{
			Representation: c.rep,
			Variants:       []semantic.Variant{{Name: "A", Fields: schemair.Fields{Kind: fieldsKind}}},
		}}
		got, err := ClassifyType(ty)
		if err != nil || got != c.want {
			t.Errorf("%s: got %q, %v; want %q", c.name, got, err, c.want)
		}
	}
}

func TestClassifyType_AliasAndPrimitive(t *testing.T) {
	if got, _ := ClassifyType(semantic.Type{Kind: semantic.TypeKindAlias, Alias: &semantic.Alias{}}); got != ConceptTypeAlias {
		t.Fatalf("alias: got %q", got)
	}
	if got, _ := ClassifyType(semantic.Type{Kind: semantic.TypeKindPrimitive, Primitive: &semantic.Primitive{}}); got != ConceptPrimitiveMapping {
		t.Fatalf("primitive: got %q", got)
	}
}

func strRef(id symbol.ID) semantic.TypeRef { return semantic.TypeRef{Symbol: &id} }

func TestIsPaginatable(t *testing.T) {
	optionID := symbol.Stdlib("option")
	stringID := symbol.Stdlib("string")
	i32ID := symbol.Stdlib("i32")

	reqID := symbol.New(symbol.KindStruct, "ListReq", 0)
	respID := symbol.New(symbol.KindStruct, "ListResp", 0)

	req := &semantic.Struct{
		ID: reqID,
		Fields: map[string]semantic.Field{
			"cursor": {Name: "cursor", Type: semantic.TypeRef{Symbol: &optionID, Arguments: []semantic.TypeRef{strRef(stringID)}}},
			"limit":  {Name: "limit", Type: semantic.TypeRef{Symbol: &optionID, Arguments: []semantic.TypeRef{strRef(i32ID)}}},
		},
	}
	resp := &semantic.Struct{
		ID: respID,
		Fields: map[string]semantic.Field{
			"items":  {Name: "items"},
			"cursor": {Name: "cursor"},
		},
	}
	schema := &semantic.Schema{Types: map[symbol.ID]semantic.Type{
		reqID:  {ID: reqID, Kind: semantic.TypeKindStruct, Struct: req},
		respID: {ID: respID, Kind: semantic.TypeKindStruct, Struct: resp},
	}}
	fn := semantic.Function{InputType: strp(reqID), OutputType: strp(respID)}
	if !IsPaginatable(schema, fn) {
		t.Fatal("expected cursor/limit + items/cursor shape to be paginatable")
	}
}

func strp(id symbol.ID) *semantic.TypeRef { r := strRef(id); return &r }
