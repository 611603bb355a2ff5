// Package lowering holds the target-agnostic half of Language Semantic
// Lowering (spec.md §4.3): the decision table that maps a Semantic Schema
// type to exactly one lowered concept. The per-target packages
// (lowering/python, lowering/rust, lowering/typescript) each consume
// ClassifyType and build their own Syntax IR nodes for
// the chosen concept — the decision is shared, the syntax it produces is
// not.
package lowering

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

// Concept names a lowered-concept node per spec.md §4.3's decision table.
type Concept string

const (
	ConceptSimpleModel        Concept = "SimpleModel"
	ConceptTypeAlias          Concept = "TypeAlias"
	ConceptDiscriminatedUnion Concept = "DiscriminatedUnion"
	ConceptRootModelWrapper   Concept = "RootModelWrapper"
	ConceptGenericRootModel   Concept = "GenericRootModel"
	ConceptStringLiteralUnion Concept = "StringLiteralUnion"
	ConceptPrimitiveMapping   Concept = "PrimitiveMapping"
)

// ClassifyType is the total function spec.md §4.3 requires: every
// Semantic type maps to exactly one concept, or the construct is
// unsupported.
func ClassifyType(ty semantic.Type) (Concept, error) {
	switch ty.Kind {
	case semantic.TypeKindStruct:
		s := ty.Struct
		if len(s.Parameters) > 0 {
			return ConceptGenericRootModel, nil
		}
		if s.Transparent {
			return ConceptTypeAlias, nil
		}
		return ConceptSimpleModel, nil

	case semantic.TypeKindEnum:
		e := ty.Enum
		if len(e.Parameters) > 0 {
			return ConceptGenericRootModel, nil
		}
		switch e.Representation.Kind {
		case schemair.RepresentationInternal, schemair.RepresentationAdjacent:
			return ConceptDiscriminatedUnion, nil
		case schemair.RepresentationUntagged:
			return ConceptRootModelWrapper, nil
		default: // RepresentationExternal, RepresentationNone (the same wire form), and the "" zero value alias for External
			if allUnitVariants(e) {
				return ConceptStringLiteralUnion, nil
			}
			return ConceptRootModelWrapper, nil
		}

	case semantic.TypeKindAlias:
		return ConceptTypeAlias, nil

	case semantic.TypeKindPrimitive:
		return ConceptPrimitiveMapping, nil

	default:
		return "", diagnostic.NewAt(diagnostic.CodeUnsupportedConstruct, ty.ID,
			fmt.Sprintf("type kind %q has no lowered concept", ty.Kind))
	}
}

func allUnitVariants(e *semantic.Enum) bool {
	return lo.EveryBy(e.Variants, func(v semantic.Variant) bool {
		return v.Fields.Kind == schemair.FieldsNone
	})
}

// IsPaginatable reports whether fn matches the cursor/limit pagination
// pattern (spec.md §4.3): input has `cursor: Option<string>` and
// `limit: Option<integer>`, output has an `{items, cursor}` shape.
func IsPaginatable(schema *semantic.Schema, fn semantic.Function) bool {
	if fn.InputType == nil || fn.OutputType == nil {
		return false
	}
	in, ok := structOf(schema, *fn.InputType)
	if !ok {
		return false
	}
	out, ok := structOf(schema, *fn.OutputType)
	if !ok {
		return false
	}

	cursor, ok := in.Fields["cursor"]
	if !ok || !isOptionOf(cursor.Type, isStringLike) {
		return false
	}
	limit, ok := in.Fields["limit"]
	if !ok || !isOptionOf(limit.Type, isIntegerLike) {
		return false
	}

	if _, ok := out.Fields["items"]; !ok {
		return false
	}
	if _, ok := out.Fields["cursor"]; !ok {
		return false
	}
	return true
}

func structOf(schema *semantic.Schema, ref semantic.TypeRef) (*semantic.Struct, bool) {
	if ref.IsGenericParam() || ref.Symbol == nil {
		return nil, false
	}
	ty, ok := schema.Types[*ref.Symbol]
	if !ok {
		return nil, false
	}
	if ty.Kind == semantic.TypeKindAlias {
		return structOf(schema, ty.Alias.Target)
	}
	if ty.Kind != semantic.TypeKindStruct {
		return nil, false
	}
	return ty.Struct, true
}

// WrapperName reports the stdlib wrapper name ("option", "three_state",
// "vec", "map", "set", "box", "tuple") a reference resolves to, or "" if ref is not a
// stdlib wrapper application.
func WrapperName(ref semantic.TypeRef) (string, []semantic.TypeRef, bool) {
	if ref.IsGenericParam() || ref.Symbol == nil {
		return "", nil, false
	}
	id := *ref.Symbol
	if id.Kind != symbol.KindPrimitive || len(id.Path) != 2 || id.Path[0] != "std" {
		return "", nil, false
	}
	name := id.Path[1]
	if !wrapperNames[name] {
		return "", nil, false
	}
	return name, ref.Arguments, true
}

var wrapperNames = map[string]bool{
	"option": true, "vec": true, "map": true, "set": true, "box": true, "tuple": true,
	// three_state is the Normalizer's stdlib wrapper for the three-valued
	// optionality pattern (absent/null/present); SPEC_FULL.md §5 Open
	// Questions decides each target lowers it to a dedicated type rather
	// than nesting its own optional wrapper twice.
	"three_state": true,
}

func isOptionOf(ref semantic.TypeRef, pred func(semantic.TypeRef) bool) bool {
	name, args, ok := WrapperName(ref)
	if !ok || name != "option" || len(args) != 1 {
		return false
	}
	return pred(args[0])
}

func isStringLike(ref semantic.TypeRef) bool {
	return StdlibName(ref) == "string"
}

func isIntegerLike(ref semantic.TypeRef) bool {
	switch StdlibName(ref) {
	case "i8", "i16", "i32", "i64", "i128", "u8", "u16", "u32", "u64", "u128":
		return true
	default:
		return false
	}
}

// StdlibName returns the bare stdlib primitive name ref resolves to
// ("bool", "string", "i32", "option", ...), or "" if ref is not a stdlib
// reference.
func StdlibName(ref semantic.TypeRef) string {
	if ref.IsGenericParam() || ref.Symbol == nil {
		return ""
	}
	id := *ref.Symbol
	if id.Kind != symbol.KindPrimitive || len(id.Path) != 2 || id.Path[0] != "std" {
		return ""
	}
	return id.Path[1]
}
