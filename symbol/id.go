// Package symbol provides stable, totally-ordered identity for every
// entity the compiler declares: struct/enum/alias/primitive types,
// their fields and variants, and endpoints.
package symbol

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Kind distinguishes the category of entity a SymbolId names.
type Kind uint8

const (
	KindStruct Kind = iota
	KindEnum
	KindTypeAlias
	KindPrimitive
	KindEndpoint
	KindVariant
	KindField
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindTypeAlias:
		return "alias"
	case KindPrimitive:
		return "primitive"
	case KindEndpoint:
		return "endpoint"
	case KindVariant:
		return "variant"
	case KindField:
		return "field"
	default:
		return "unknown"
	}
}

// ID is a stable, ordered identity for a declared entity. Two IDs are
// equal iff kind, path, and disambiguator all match; equality implies
// identity (the same declaration), never a structural coincidence.
type ID struct {
	Kind          Kind
	Path          []string
	Disambiguator uint32
}

// New builds an ID from a qualified name split on "::", per the
// Normalizer's deterministic ID Assignment rule (spec.md §4.1 phase 1).
func New(kind Kind, qualifiedName string, disambiguator uint32) ID {
	var path []string
	if qualifiedName != "" {
		path = strings.Split(qualifiedName, "::")
	}
	return ID{Kind: kind, Path: path, Disambiguator: disambiguator}
}

// Stdlib builds the ID of a pre-registered stdlib primitive. Stdlib
// primitives always carry disambiguator 0 and live under the reserved
// "std" path segment so they can never collide with a user type (user
// qualified names are split on "::" and "std" is not a legal Rust/IDL
// path segment reflectors emit — see normalize.preregisterStdlib).
func Stdlib(name string) ID {
	return ID{Kind: KindPrimitive, Path: []string{"std", name}, Disambiguator: 0}
}

// String renders a debug form "kind:path#disambiguator"; the
// "#disambiguator" suffix is omitted when the disambiguator is 0.
func (id ID) String() string {
	p := strings.Join(id.Path, "::")
	if id.Disambiguator == 0 {
		return fmt.Sprintf("%s:%s", id.Kind, p)
	}
	return fmt.Sprintf("%s:%s#%d", id.Kind, p, id.Disambiguator)
}

// Compare implements the total ordering (kind, path, disambiguator) that
// every map and collection in the compiler relies on for determinism.
func Compare(a, b ID) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := slices.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	return cmp.Compare(a.Disambiguator, b.Disambiguator)
}

// Less reports whether a sorts before b under the total order.
func Less(a, b ID) bool { return Compare(a, b) < 0 }

// QualifiedName rejoins Path with "::", the inverse of New's split.
func (id ID) QualifiedName() string { return strings.Join(id.Path, "::") }
