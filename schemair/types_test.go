package schemair

import (
	"encoding/json"
	"testing"
)

func TestSchema_RoundTrip(t *testing.T) {
	input := []byte(`{
		"name": "pets",
		"description": "pet store",
		"schemaVersion": "0.1.0",
		"functions": [
			{"id":"f1","name":"getPet","path":"getPet","outputType":{"name":"Pet"},"serialization":["json"]}
		],
		"inputTypes": {"types": []},
		"outputTypes": {"types": [
			{"kind":"struct","id":"t1","name":"Pet","parameters":[],"fields":{"named":[
				{"id":"fld1","name":"name","type":{"name":"std::string"},"required":true}
			]},"serdeFlattenSupport":true}
		]},
		"x-vendor": "acme",
		"futureField": 42
	}`)

	schema, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if schema.Name != "pets" || schema.SchemaVersion != "0.1.0" {
		t.Fatalf("unexpected decode: %+v", schema)
	}
	if len(schema.Extensions) != 1 || len(schema.Unknown) != 1 {
		t.Fatalf("expected 1 extension + 1 unknown field, got ext=%v unknown=%v", schema.Extensions, schema.Unknown)
	}
	if len(schema.OutputTypes.Types) != 1 {
		t.Fatalf("expected 1 output type, got %d", len(schema.OutputTypes.Types))
	}
	td := schema.OutputTypes.Types[0]
	if td.Kind != TypeDefStruct || td.Struct.Name != "Pet" {
		t.Fatalf("unexpected type def: %+v", td)
	}
	if td.Struct.Fields.Kind != FieldsNamed || len(td.Struct.Fields.Items) != 1 {
		t.Fatalf("unexpected fields: %+v", td.Struct.Fields)
	}

	out, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	reparsed, err := Parse(out)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if reparsed.Name != schema.Name || len(reparsed.OutputTypes.Types) != len(schema.OutputTypes.Types) {
		t.Fatalf("round trip mismatch: %+v vs %+v", reparsed, schema)
	}
}

func TestRepresentation_AllWireForms(t *testing.T) {
	cases := []struct {
		wire string
		kind RepresentationKind
	}{
		{`"none"`, RepresentationNone},
		{`"untagged"`, RepresentationUntagged},
		{`{"internal":{"tag":"type"}}`, RepresentationInternal},
		{`{"adjacent":{"tag":"t","content":"c"}}`, RepresentationAdjacent},
	}
	for _, c := range cases {
		var r Representation
		if err := json.Unmarshal([]byte(c.wire), &r); err != nil {
			t.Fatalf("unmarshal %s: %v", c.wire, err)
		}
		if r.Kind != c.kind {
			t.Fatalf("%s: expected kind %s, got %s", c.wire, c.kind, r.Kind)
		}
	}
}

func TestEnumDef_AbsentRepresentationDefaultsExternal(t *testing.T) {
	var e EnumDef
	if err := json.Unmarshal([]byte(`{"id":"e1","name":"Msg","variants":[]}`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Representation.Kind != RepresentationExternal {
		t.Fatalf("expected External default, got %s", e.Representation.Kind)
	}

	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]json.RawMessage
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal back: %v", err)
	}
	if _, present := back["representation"]; present {
		t.Fatalf("expected representation field to be omitted for External, got %s", b)
	}
}

func TestTypeDef_KindDiscriminatorRoundTrips(t *testing.T) {
	cases := []string{
		`{"kind":"primitive","id":"p1","name":"u8"}`,
		`{"kind":"alias","id":"a1","name":"Id","target":{"name":"std::string"}}`,
		`{"kind":"enum","id":"e1","name":"Status","variants":[{"id":"v1","name":"Ok","fields":"none"}]}`,
	}
	for _, c := range cases {
		var td TypeDef
		if err := json.Unmarshal([]byte(c), &td); err != nil {
			t.Fatalf("unmarshal %s: %v", c, err)
		}
		b, err := json.Marshal(td)
		if err != nil {
			t.Fatalf("marshal %s: %v", c, err)
		}
		var reparsed TypeDef
		if err := json.Unmarshal(b, &reparsed); err != nil {
			t.Fatalf("reparse %s: %v", c, err)
		}
		if reparsed.Kind != td.Kind || reparsed.Name() != td.Name() {
			t.Fatalf("round trip mismatch for %s: %+v vs %+v", c, td, reparsed)
		}
	}
}

func TestFields_NoneLiteralAndUnnamed(t *testing.T) {
	var none Fields
	if err := json.Unmarshal([]byte(`"none"`), &none); err != nil {
		t.Fatalf("unmarshal none: %v", err)
	}
	if none.Kind != FieldsNone {
		t.Fatalf("expected FieldsNone, got %s", none.Kind)
	}

	var unnamed Fields
	if err := json.Unmarshal([]byte(`{"unnamed":[{"id":"f0","name":"0","type":{"name":"std::string"},"required":true}]}`), &unnamed); err != nil {
		t.Fatalf("unmarshal unnamed: %v", err)
	}
	if unnamed.Kind != FieldsUnnamed || len(unnamed.Items) != 1 {
		t.Fatalf("unexpected unnamed fields: %+v", unnamed)
	}
}

func TestIsSupportedVersion(t *testing.T) {
	ok, err := IsSupportedVersion("0.1.0")
	if err != nil || !ok {
		t.Fatalf("expected 0.1.0 supported, got ok=%v err=%v", ok, err)
	}
	ok, err = IsSupportedVersion("9.9.9")
	if err != nil || ok {
		t.Fatalf("expected 9.9.9 unsupported, got ok=%v err=%v", ok, err)
	}
	if _, err := IsSupportedVersion("not-a-version"); err == nil {
		t.Fatalf("expected error for malformed version")
	}
}
