// Package rust implements Language Semantic Lowering for the Rust target
// (spec.md §4.3; SPEC_FULL.md §3.6 names Rust the
// "systems-with-compile-time-types" target): structs and enums become
// derive-annotated structs/enums, GenericRootModel becomes a Rust generic
// struct/enum, and the three-state optionality pattern gets a dedicated
// tri-state enum rather than `Option<Option<T>>` (SPEC_FULL.md §5 Open
// Questions).
package rust

import (
	"fmt"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/lowering"
	"github.com/openbindings/schemac/naming"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
	"github.com/openbindings/schemac/syntax"
)

// Options configures the Rust lowering pass. Rust decisions are
// version-insensitive: SPEC_FULL.md §3.6 calls for no edition-gated
// choices in this implementation.
type Options struct {
	NamingOverrides    map[string]string
	PrimitiveFallbacks map[string]string
}

// Result is the lowered output.
type Result struct {
	Module      *syntax.Module
	Diagnostics *diagnostic.Bag
}

type lowerer struct {
	schema   *semantic.Schema
	resolver *naming.Resolver
	opts     Options
	bag      *diagnostic.Bag
}

// serdeDerive is the standard derive clause every generated model carries,
// grounded on the serde crate's derive macros (serde is the generated Rust
// code's serialization dependency).
var serdeDerive = []string{"Debug", "Clone", "serde::Serialize", "serde::Deserialize"}

// Lower translates a Semantic Schema into Rust Syntax IR.
func Lower(schema *semantic.Schema, opts Options) (*Result, error) {
	bag := &diagnostic.Bag{}
	l := &lowerer{
		schema:   schema,
		resolver: naming.NewResolver(naming.Rust, opts.NamingOverrides),
		opts:     opts,
		bag:      bag,
	}

	mod := &syntax.Module{Name: "models"}

	for _, id := range schema.OrderedTypeIDs() {
		ty := schema.Types[id]
		concept, err := lowering.ClassifyType(ty)
		if err != nil {
			bag.Add(err.(diagnostic.Diagnostic))
			continue
		}
		mod.Items = append(mod.Items, l.lowerType(id, ty, concept)...)
	}

	if len(schema.Functions) > 0 {
		mod.Items = append(mod.Items, l.lowerClient())
	}

	return &Result{Module: mod, Diagnostics: bag}, nil
}

func (l *lowerer) lowerType(id symbol.ID, ty semantic.Type, concept lowering.Concept) []syntax.Item {
	name := l.typeName(id)

	switch concept {
	case lowering.ConceptSimpleModel:
		return []syntax.Item{syntax.ClassItem(l.simpleModel(name, ty.Struct))}

	case lowering.ConceptTypeAlias:
		if ty.Struct != nil {
			target := l.typeExpr(ty.Struct.Fields[ty.Struct.FieldOrder[0]].Type)
			return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: target})}
		}
		return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: l.typeExpr(ty.Alias.Target)})}

	case lowering.ConceptStringLiteralUnion:
		return []syntax.Item{syntax.ClassItem(l.unitEnum(name, ty.Enum))}

	case lowering.ConceptDiscriminatedUnion:
		return []syntax.Item{syntax.ClassItem(l.discriminatedUnion(name, ty.Enum))}

	case lowering.ConceptRootModelWrapper:
		return l.rootModelWrapper(name, ty.Enum)

	case lowering.ConceptGenericRootModel:
		return []syntax.Item{syntax.ClassItem(l.genericRootModel(name, ty))}

	case lowering.ConceptPrimitiveMapping:
		return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: l.primitiveFallback(ty.Primitive)})}

	default:
		l.bag.Addf(diagnostic.CodeUnsupportedConstruct, &id, "", "lowering concept %q has no Rust construction", concept)
		return nil
	}
}

func (l *lowerer) simpleModel(name string, s *semantic.Struct) *syntax.Class {
	c := &syntax.Class{Name: name, Docstring: s.Description, Decorators: []string{derive(serdeDerive...)}}
	for _, fname := range s.FieldOrder {
		f := s.Fields[fname]
		annotation := l.typeExpr(f.Type)
		if !f.Required {
			annotation = syntax.Subscript(syntax.Name("Option"), annotation)
		}
		field := syntax.Field{Name: l.resolver.FieldName(fname), Annotation: annotation}
		if renamed := l.resolver.FieldName(fname); renamed != fname {
			field.Config = map[string]string{"serde_rename": fname}
		}
		c.Fields = append(c.Fields, field)
	}
	return c
}

// unitEnum lowers an all-unit enum (Representation External/None with only
// unit variants) to a plain Rust enum with serde string-tag rename
// attributes per variant, the idiomatic serde C-like-enum shape.
func (l *lowerer) unitEnum(name string, e *semantic.Enum) *syntax.Class {
	c := &syntax.Class{Name: name, Decorators: []string{derive(serdeDerive...)}, IsEnum: true}
	for _, v := range e.Variants {
		// Field stands in for a unit enum variant here: Annotation is the
		// zero TypeExpr (no payload type), Name is the variant name.
		c.Fields = append(c.Fields, syntax.Field{
			Name:   v.Name,
			Config: map[string]string{"serde_rename": v.Name},
		})
	}
	return c
}

// discriminatedUnion lowers Representation Internal{tag}/Adjacent to one
// Rust enum whose variants carry struct-like payloads, annotated with
// serde's `tag`/`content` container attributes (the serde crate's native
// internally/adjacently tagged representation).
func (l *lowerer) discriminatedUnion(name string, e *semantic.Enum) *syntax.Class {
	containerAttr := fmt.Sprintf("serde(tag = %q)", e.Representation.Tag)
	if e.Representation.Kind == schemair.RepresentationAdjacent {
		containerAttr = fmt.Sprintf("serde(tag = %q, content = %q)", e.Representation.Tag, e.Representation.Content)
	}
	c := &syntax.Class{Name: name, Decorators: []string{derive(serdeDerive...), containerAttr}, IsEnum: true}
	for _, v := range e.Variants {
		variant := &syntax.Class{Name: v.Name, Docstring: v.Description}
		for _, fname := range v.FieldOrder {
			f := v.ResolvedType[fname]
			variant.Fields = append(variant.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)})
		}
		c.Nested = append(c.Nested, syntax.ClassItem(variant))
	}
	return c
}

// rootModelWrapper lowers Representation External/Untagged/None to a
// `#[serde(untagged)]` enum whose variants hold one payload struct each
// (External/None get a keyed newtype payload: a one-field struct whose
// field is serde-renamed to the variant name and holds a "<Payload>Value"
// struct of the fields; Untagged holds the fields directly), plus the
// payload struct items (spec.md §4.3, §4.6).
func (l *lowerer) rootModelWrapper(name string, e *semantic.Enum) []syntax.Item {
	var items []syntax.Item
	c := &syntax.Class{Name: name, Decorators: []string{derive(serdeDerive...), "serde(untagged)"}, IsEnum: true}
	for _, v := range e.Variants {
		if v.Fields.Kind == schemair.FieldsNone {
			c.Fields = append(c.Fields, syntax.Field{Name: v.Name})
			continue
		}
		vname := name + l.resolver.TypeName(v.ID, v.Name)
		payload := &syntax.Class{Name: vname, Decorators: []string{derive(serdeDerive...)}}
		for _, fname := range v.FieldOrder {
			f := v.ResolvedType[fname]
			payload.Fields = append(payload.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)})
		}
		items = append(items, syntax.ClassItem(payload))
		if e.Representation.Kind != schemair.RepresentationUntagged {
			payload.Name = vname + "Value"
			keyed := &syntax.Class{Name: vname, Decorators: []string{derive(serdeDerive...)}, Fields: []syntax.Field{
				{Name: l.resolver.FieldName(v.Name), Annotation: syntax.Name(payload.Name), Config: map[string]string{"serde_rename": v.Name}},
			}}
			items = append(items, syntax.ClassItem(keyed))
		}
		c.Fields = append(c.Fields, syntax.Field{Name: v.Name, Annotation: syntax.Name(vname)})
	}
	items = append(items, syntax.ClassItem(c))
	return items
}

func (l *lowerer) genericRootModel(name string, ty semantic.Type) *syntax.Class {
	c := &syntax.Class{Name: name, Decorators: []string{derive(serdeDerive...)}}
	switch ty.Kind {
	case semantic.TypeKindStruct:
		c.TypeParams = ty.Struct.Parameters
		c.Docstring = ty.Struct.Description
		for _, fname := range ty.Struct.FieldOrder {
			f := ty.Struct.Fields[fname]
			c.Fields = append(c.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)})
		}
	case semantic.TypeKindEnum:
		c.IsEnum = true
		c.TypeParams = ty.Enum.Parameters
		c.Docstring = ty.Enum.Description
		for _, v := range ty.Enum.Variants {
			variant := &syntax.Class{Name: v.Name}
			for _, fname := range v.FieldOrder {
				f := v.ResolvedType[fname]
				variant.Fields = append(variant.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)})
			}
			c.Nested = append(c.Nested, syntax.ClassItem(variant))
		}
	}
	return c
}

func (l *lowerer) primitiveFallback(p *semantic.Primitive) syntax.TypeExpr {
	if override, ok := l.opts.PrimitiveFallbacks[p.Name]; ok {
		return syntax.Name(override)
	}
	if p.Fallback != nil {
		return l.typeExpr(*p.Fallback)
	}
	return syntax.Name("serde_json::Value")
}

// lowerClient emits one Client struct with an async method signature per
// declared function; bodies are unreachable `todo!()` stubs (spec.md
// Non-goals: generated clients are never executed by this compiler).
func (l *lowerer) lowerClient() syntax.Item {
	c := &syntax.Class{Name: "Client"}
	for _, id := range l.schema.OrderedFunctionIDs() {
		fn := l.schema.Functions[id]
		method := &syntax.Function{Name: l.resolver.FieldName(fn.Name), Docstring: fn.Description, Async: true}
		if lowering.IsPaginatable(l.schema, fn) {
			if method.Docstring != "" {
				method.Docstring += " "
			}
			method.Docstring += "(paginatable: cursor/limit request, items/cursor response)"
		}
		if fn.InputType != nil {
			method.Params = append(method.Params, syntax.Param{Name: "request", Annotation: ptrTypeExpr(l.typeExpr(*fn.InputType))})
		}
		ret := syntax.Name("()")
		if fn.OutputType != nil {
			ret = l.typeExpr(*fn.OutputType)
		}
		if fn.ErrorType != nil {
			ret = syntax.Subscript(syntax.Name("Result"), ret, l.typeExpr(*fn.ErrorType))
		} else {
			ret = syntax.Subscript(syntax.Name("Result"), ret, syntax.Name("anyhow::Error"))
		}
		method.ReturnType = &ret
		method.Body = []string{"todo!()"}
		c.Methods = append(c.Methods, *method)
	}
	return syntax.ClassItem(c)
}

func (l *lowerer) typeExpr(ref semantic.TypeRef) syntax.TypeExpr {
	if ref.IsGenericParam() {
		return syntax.Name(ref.GenericParam)
	}
	if name, args, ok := lowering.WrapperName(ref); ok {
		return l.wrapperExpr(name, args)
	}
	if name := lowering.StdlibName(ref); name != "" {
		return syntax.Name(l.scalarName(name))
	}

	id := *ref.Symbol
	info, _ := l.schema.Symbols.Lookup(id)
	rendered := l.resolver.TypeName(id, info.QualifiedName)
	if len(ref.Arguments) == 0 {
		return syntax.Name(rendered)
	}
	args := make([]syntax.TypeExpr, len(ref.Arguments))
	for i, a := range ref.Arguments {
		args[i] = l.typeExpr(a)
	}
	return syntax.Subscript(syntax.Name(rendered), args...)
}

// wrapperExpr maps a stdlib wrapper application to its idiomatic Rust
// shape. "three_state" (SPEC_FULL.md §5 Open Question: three-valued
// optionality — absent/null/present) maps to a dedicated ThreeState<T>
// enum rather than Option<Option<T>>, per the decision recorded in
// DESIGN.md.
func (l *lowerer) wrapperExpr(name string, args []semantic.TypeRef) syntax.TypeExpr {
	switch name {
	case "option":
		inner := syntax.Name("serde_json::Value")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		return syntax.Subscript(syntax.Name("Option"), inner)
	case "three_state":
		inner := syntax.Name("serde_json::Value")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		return syntax.Subscript(syntax.Name("ThreeState"), inner)
	case "vec":
		inner := syntax.Name("serde_json::Value")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		return syntax.Subscript(syntax.Name("Vec"), inner)
	case "set":
		inner := syntax.Name("serde_json::Value")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		return syntax.Subscript(syntax.Name("std::collections::HashSet"), inner)
	case "map":
		key, val := syntax.Name("String"), syntax.Name("serde_json::Value")
		if len(args) > 0 {
			key = l.typeExpr(args[0])
		}
		if len(args) > 1 {
			val = l.typeExpr(args[1])
		}
		return syntax.Subscript(syntax.Name("std::collections::HashMap"), key, val)
	case "box":
		inner := syntax.Name("serde_json::Value")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		return syntax.Subscript(syntax.Name("Box"), inner)
	case "tuple":
		elems := make([]syntax.TypeExpr, len(args))
		for i, a := range args {
			elems[i] = l.typeExpr(a)
		}
		return syntax.Tuple(elems...)
	default:
		return syntax.Name("serde_json::Value")
	}
}

func (l *lowerer) scalarName(name string) string {
	switch name {
	case "bool":
		return "bool"
	case "string":
		return "String"
	case "uuid":
		return "uuid::Uuid"
	case "decimal":
		return "rust_decimal::Decimal"
	case "url":
		return "url::Url"
	case "date":
		return "chrono::NaiveDate"
	case "time":
		return "chrono::NaiveTime"
	case "date_time":
		return "chrono::DateTime<chrono::Utc>"
	case "duration":
		return "std::time::Duration"
	case "i8", "i16", "i32", "i64", "i128", "u8", "u16", "u32", "u64", "u128", "f32", "f64":
		return name
	case "unit":
		return "()"
	case "json_value":
		return "serde_json::Value"
	default:
		return "serde_json::Value"
	}
}

func (l *lowerer) typeName(id symbol.ID) string {
	info, _ := l.schema.Symbols.Lookup(id)
	return l.resolver.TypeName(id, info.QualifiedName)
}

func derive(traits ...string) string {
	out := "derive("
	for i, t := range traits {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out + ")"
}

func ptrTypeExpr(t syntax.TypeExpr) *syntax.TypeExpr { return &t }
