// Package naming is the single module every target's Lowering and Syntax
// IR construction calls into for identifier conversion (spec.md §4.5):
// casing, reserved-word avoidance, deduplication, and a stable
// SymbolId → rendered-name mapping. Renderers and Syntax IR builders never
// invent names themselves.
package naming

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/openbindings/schemac/symbol"
)

// Target names one of the three lowering/rendering targets this module
// knows casing and reserved-word rules for.
type Target string

const (
	Python     Target = "python"
	TypeScript Target = "typescript"
	Rust       Target = "rust"
)

// Resolver owns the SymbolId → rendered type name mapping for one
// compilation of one target. It is not safe for concurrent use; the
// Driver builds one per target per Compile call.
type Resolver struct {
	target    Target
	overrides map[string]string // symbol.ID.String() -> user-requested name

	typeNames map[symbol.ID]string
	usedNames map[string]symbol.ID
}

// NewResolver returns a Resolver for target. overrides is
// driver.Config.NamingOverrides, keyed by the string form of a SymbolId
// (symbol.ID.String()); nil is accepted and treated as empty.
func NewResolver(target Target, overrides map[string]string) *Resolver {
	return &Resolver{
		target:    target,
		overrides: overrides,
		typeNames: map[symbol.ID]string{},
		usedNames: map[string]symbol.ID{},
	}
}

// TypeName returns the stable rendered name for id, deriving a PascalCase
// identifier from qualifiedName (the symbol table's sanitized,
// dot-joined name) the first time id is seen and memoizing it thereafter.
// A user override for id wins outright; if the override collides with a
// name already claimed by a different id, the override escalates through
// the same numeric-suffix disambiguation an auto-derived name would (the
// open question in spec.md §9: "user overrides win, conflicting
// auto-names escalate the disambiguator").
func (r *Resolver) TypeName(id symbol.ID, qualifiedName string) string {
	if cached, ok := r.typeNames[id]; ok {
		return cached
	}
	base := pascalCase(lastSegment(qualifiedName))
	if override, ok := r.overrides[id.String()]; ok {
		base = override
	}
	return r.claim(id, base)
}

// FieldName renders a struct/variant field name in the target's
// conventional casing (snake_case for Python and Rust, camelCase for
// TypeScript). Field names are not deduplicated here: the Normalizer's
// field set already guarantees the raw field names within one struct or
// variant are distinct, and casing collisions across distinct raw names
// are rare enough that detecting them is left to a future pass (noted in
// DESIGN.md).
func (r *Resolver) FieldName(raw string) string {
	switch r.target {
	case TypeScript:
		return camelCase(raw)
	default:
		return snakeCase(raw)
	}
}

// claim applies reserved-word escaping to base and then resolves
// collisions against every name already claimed by a different SymbolId,
// appending "_2", "_3", … until the name is free.
func (r *Resolver) claim(id symbol.ID, base string) string {
	name := r.escapeReserved(base)
	candidate := name
	suffix := 2
	for {
		owner, taken := r.usedNames[candidate]
		if !taken || owner == id {
			break
		}
		candidate = fmt.Sprintf("%s_%d", name, suffix)
		suffix++
	}
	r.usedNames[candidate] = id
	r.typeNames[id] = candidate
	return candidate
}

func (r *Resolver) escapeReserved(name string) string {
	var reserved map[string]bool
	switch r.target {
	case Python:
		reserved = pythonReserved
	case TypeScript:
		reserved = typescriptReserved
	case Rust:
		reserved = rustReserved
	}
	if reserved[name] {
		return name + "_"
	}
	return name
}

func lastSegment(qualifiedName string) string {
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		return qualifiedName[i+1:]
	}
	return qualifiedName
}

// splitWords breaks an identifier into casing-agnostic words on '.', '_',
// '-', and at casing boundaries (lower→upper, and the last upper of a
// run followed by a lower, so "HTTPServer" splits as "HTTP", "Server").
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '.' || r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur = append(cur, r)
		case unicode.IsUpper(r) && i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

func pascalCase(s string) string {
	words := splitWords(s)
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	if b.Len() == 0 {
		return "_"
	}
	out := b.String()
	if unicode.IsDigit([]rune(out)[0]) {
		out = "_" + out
	}
	return out
}

func camelCase(s string) string {
	words := splitWords(s)
	var b strings.Builder
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		if i > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		b.WriteString(string(r))
	}
	if b.Len() == 0 {
		return "_"
	}
	out := b.String()
	if unicode.IsDigit([]rune(out)[0]) {
		out = "_" + out
	}
	return out
}

func snakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	out := strings.Join(words, "_")
	if out == "" {
		return "_"
	}
	if unicode.IsDigit([]rune(out)[0]) {
		out = "_" + out
	}
	return out
}

var pythonReserved = boolSet(
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"finally", "for", "from", "global", "if", "import", "in", "is",
	"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
	"while", "with", "yield",
)

var typescriptReserved = boolSet(
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "enum", "export", "extends",
	"false", "finally", "for", "function", "if", "import", "in",
	"instanceof", "new", "null", "return", "super", "switch", "this",
	"throw", "true", "try", "typeof", "var", "void", "while", "with",
	"as", "implements", "interface", "let", "package", "private",
	"protected", "public", "static", "yield", "any", "boolean", "number",
	"string", "symbol", "undefined", "never", "unknown", "object",
)

var rustReserved = boolSet(
	"as", "break", "const", "continue", "crate", "dyn", "else", "enum",
	"extern", "false", "fn", "for", "if", "impl", "in", "let", "loop",
	"match", "mod", "move", "mut", "pub", "ref", "return", "self", "Self",
	"static", "struct", "super", "trait", "true", "type", "unsafe", "use",
	"where", "while", "async", "await", "dyn", "abstract", "become",
	"box", "do", "final", "macro", "override", "priv", "typeof",
	"unsized", "virtual", "yield", "try",
)

func boolSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
