package normalize

import "github.com/openbindings/schemac/symbol"

// stdlibPrimitiveNames enumerates every primitive stdlib pre-registers
// with a stable SymbolId (spec.md §3.3: "integer widths, float, bool,
// string, unit, option, vec, map, set, tuple, uuid, decimal, url,
// date-time family, json-value, duration"). Order here only affects the
// declaration order recorded in diagnostics; resolution is by name.
var stdlibPrimitiveNames = []string{
	"bool", "string", "unit",
	"i8", "i16", "i32", "i64", "i128",
	"u8", "u16", "u32", "u64", "u128",
	"f32", "f64",
	"option", "vec", "map", "set", "tuple", "box",
	"uuid", "decimal", "url",
	"date", "time", "date_time", "duration",
	"json_value",
}

// indirectionWrappers names the stdlib generics whose first argument is an
// indirected reference: a struct/enum referencing itself through one of
// these does not form a direct-edge cycle (spec.md §4.1 phase 5, §3.3,
// §9 "Cyclic graphs").
var indirectionWrappers = map[string]bool{
	"option": true,
	"vec":    true,
	"map":    true,
	"set":    true,
	"box":    true,
}

// preregisterStdlib declares every stdlib primitive in the symbol table
// and returns a lookup map from bare primitive name to its reserved
// SymbolId. Stdlib entries are deliberately NOT added to the table's
// sanitized-name index (QualifiedName left empty) so they can never
// collide with a user type's rendered name; resolution during Type
// Resolution consults stdlibByName directly, before falling back to
// user-declared symbols.
func preregisterStdlib(table *symbol.Table) map[string]symbol.ID {
	out := make(map[string]symbol.ID, len(stdlibPrimitiveNames))
	for _, name := range stdlibPrimitiveNames {
		id := symbol.Stdlib(name)
		table.Declare(symbol.Info{ID: id, DeclarationSite: "stdlib"})
		out[name] = id
	}
	return out
}
