// Package semantic defines the canonical, immutable Semantic Schema the
// Normalizer produces: deduped types keyed by SymbolId, resolved
// references, and endpoint descriptors. Unlike the Schema IR, every
// reference here has already been resolved to a SymbolId or bound to an
// enclosing generic parameter — there is no further lookup to perform.
package semantic

import (
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/symbol"
)

// Direction records which side(s) of the wire a type was seen on during
// Typespace Consolidation (spec.md §4.1 phase 2).
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
	DirectionBoth   Direction = "both"
)

// TypeRef is a resolved TypeReference: either a concrete symbol with
// resolved generic arguments, or a binding to a generic parameter declared
// by the enclosing type/function.
type TypeRef struct {
	Symbol       *symbol.ID
	GenericParam string
	Arguments    []TypeRef
}

// IsGenericParam reports whether this reference binds to an enclosing
// generic parameter rather than a concrete symbol.
func (r TypeRef) IsGenericParam() bool { return r.Symbol == nil }

// Field is a resolved struct or variant field.
type Field struct {
	ID          symbol.ID
	Name        string
	Type        TypeRef
	Required    bool
	Flattened   bool
	Description string
}

// Variant is a resolved enum variant.
type Variant struct {
	ID           symbol.ID
	Name         string
	Description  string
	Discriminant *int64
	Fields       schemair.Fields
	ResolvedType map[string]Field // field name -> resolved Field, for named/unnamed shapes alike
	FieldOrder   []string         // preserves declaration order of ResolvedType keys
}

// TypeKind discriminates the four Type variants.
type TypeKind string

const (
	TypeKindStruct    TypeKind = "struct"
	TypeKindEnum      TypeKind = "enum"
	TypeKindAlias     TypeKind = "alias"
	TypeKindPrimitive TypeKind = "primitive"
)

// Struct is a resolved product type.
type Struct struct {
	ID          symbol.ID
	Name        string
	Description string
	Parameters  []string
	Fields      map[string]Field // empty/nil when Fields.Kind == FieldsNone
	FieldOrder  []string
	FieldsKind  schemair.FieldsKind
	Transparent bool
	Direction   Direction
}

// Enum is a resolved sum type.
type Enum struct {
	ID             symbol.ID
	Name           string
	Description    string
	Parameters     []string
	Representation schemair.Representation
	Variants       []Variant
	Direction      Direction
}

// Alias names another (resolved) type.
type Alias struct {
	ID         symbol.ID
	Name       string
	Parameters []string
	Target     TypeRef
	Direction  Direction
}

// Primitive is an atomic stdlib or user-declared primitive type.
type Primitive struct {
	ID          symbol.ID
	Name        string
	Description string
	Parameters  []string
	Fallback    *TypeRef
	Direction   Direction
}

// Type is the tagged sum Struct | Enum | Alias | Primitive, each carrying
// resolved references instead of raw names.
type Type struct {
	ID        symbol.ID
	Kind      TypeKind
	Struct    *Struct
	Enum      *Enum
	Alias     *Alias
	Primitive *Primitive
}

// Function mirrors schemair.Function but with SymbolIds in place of
// TypeReferences.
type Function struct {
	ID            symbol.ID
	Name          string
	Path          string
	InputType     *TypeRef
	InputHeaders  *TypeRef
	OutputType    *TypeRef
	ErrorType     *TypeRef
	Serialization []string
	Readonly      bool
	Deprecated    bool
	Tags          []string
	Description   string
}

// Schema is the canonical, immutable output of normalization.
type Schema struct {
	ID          string
	Name        string
	Description string

	Types     map[symbol.ID]Type
	Functions map[symbol.ID]Function

	Symbols *symbol.Table
}

// OrderedTypeIDs returns every type's SymbolId in the stable (kind, path,
// disambiguator) order (spec.md §3.3: "Ordering of maps is by SymbolId and
// is stable across runs").
func (s *Schema) OrderedTypeIDs() []symbol.ID {
	var out []symbol.ID
	for _, id := range s.Symbols.Ordered() {
		if _, ok := s.Types[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// OrderedFunctionIDs returns every function's SymbolId in stable order.
func (s *Schema) OrderedFunctionIDs() []symbol.ID {
	var out []symbol.ID
	for _, id := range s.Symbols.Ordered() {
		if _, ok := s.Functions[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
