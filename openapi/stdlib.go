package openapi

import "github.com/openbindings/schemac/symbol"

// stdlibScalar mirrors compat/project.go's map of the same name: a
// stdlib scalar's bare name to the JSON-Schema shape it projects to.
// Kept as package-local copies (rather than exported from compat) since
// compat's profile is deliberately restricted (no $ref, no
// discriminator) while this package's is the full OpenAPI dialect;
// sharing one map across both would tie changes meant for one profile
// to the other.
var stdlibScalar = map[string]map[string]any{
	"bool":   {"type": "boolean"},
	"string": {"type": "string"},
	"unit":   {"type": "null"},

	"i8": {"type": "integer"}, "i16": {"type": "integer"}, "i32": {"type": "integer"},
	"i64": {"type": "integer"}, "i128": {"type": "integer"},
	"u8": {"type": "integer"}, "u16": {"type": "integer"}, "u32": {"type": "integer"},
	"u64": {"type": "integer"}, "u128": {"type": "integer"},

	"f32": {"type": "number"}, "f64": {"type": "number"},

	"uuid":    {"type": "string", "format": "uuid"},
	"decimal": {"type": "string"},
	"url":     {"type": "string", "format": "uri"},

	"date":      {"type": "string", "format": "date"},
	"time":      {"type": "string"},
	"date_time": {"type": "string", "format": "date-time"},
	"duration":  {"type": "string"},

	"json_value": {},
}

// wrapperNames lists the stdlib generics this package's emitter.wrapper
// projects structurally. Unlike compat's copy of this map, it includes
// three_state (the Open Question decision recorded in lowering/concept.go)
// since the emitter actually builds three_state-wrapped fields; compat's
// own copy is left unchanged (DESIGN.md records the gap).
var wrapperNames = map[string]bool{
	"option": true, "vec": true, "map": true, "set": true, "box": true,
	"tuple": true, "three_state": true,
}

func isStdlib(id symbol.ID) bool {
	return id.Kind == symbol.KindPrimitive && len(id.Path) == 2 && id.Path[0] == "std"
}

func stdlibLocalName(id symbol.ID) string {
	if !isStdlib(id) {
		return ""
	}
	return id.Path[1]
}
