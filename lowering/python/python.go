// Package python implements Language Semantic Lowering for the Python
// target (spec.md §4.3; SPEC_FULL.md §3.6 names Python the
// "systems-with-runtime-validation" target): Structs become dataclass
// -shaped SimpleModels, enums become discriminated unions or root-model
// wrappers with a factory function, and the package is the one target
// that supports a runtime/stub split (SplitStubs).
package python

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/formattoken"
	"github.com/openbindings/schemac/lowering"
	"github.com/openbindings/schemac/naming"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
	"github.com/openbindings/schemac/syntax"
)

// Options configures the Python lowering pass.
type Options struct {
	// Version gates small decisions (SPEC_FULL.md §3.6): ">=3.10" allows
	// `X | None` instead of `Optional[X]`. Empty defaults to the
	// conservative `typing.Optional`/`typing.Union` spelling.
	Version string
	// SplitStubs requests a second, stub-only module for generic root
	// models (spec.md §4.6).
	SplitStubs         bool
	NamingOverrides    map[string]string
	PrimitiveFallbacks map[string]string
}

// Result is the lowered output: one runtime module, and optionally one
// stub module when SplitStubs produced distinct content.
type Result struct {
	Module      *syntax.Module
	StubModule  *syntax.Module
	Diagnostics *diagnostic.Bag
}

type lowerer struct {
	schema   *semantic.Schema
	resolver *naming.Resolver
	opts     Options
	union310 bool
	bag      *diagnostic.Bag
}

// Lower translates a Semantic Schema into Python Syntax IR.
func Lower(schema *semantic.Schema, opts Options) (*Result, error) {
	bag := &diagnostic.Bag{}
	l := &lowerer{
		schema:   schema,
		resolver: naming.NewResolver(naming.Python, opts.NamingOverrides),
		opts:     opts,
		bag:      bag,
	}
	if opts.Version != "" {
		tok, err := formattoken.Parse("python@" + opts.Version)
		if err == nil {
			l.union310 = versionAtLeast(tok.Version, "3.10")
		}
	}

	mod := &syntax.Module{Name: "models", HeaderImports: []string{"from __future__ import annotations"}}
	var stubItems []syntax.Item

	for _, id := range schema.OrderedTypeIDs() {
		ty := schema.Types[id]
		concept, err := lowering.ClassifyType(ty)
		if err != nil {
			bag.Add(err.(diagnostic.Diagnostic))
			continue
		}
		items, stubOnly := l.lowerType(id, ty, concept)
		mod.Items = append(mod.Items, items...)
		stubItems = append(stubItems, stubOnly...)
	}

	if len(schema.Functions) > 0 {
		mod.Items = append(mod.Items, l.lowerClient())
	}

	result := &Result{Module: mod, Diagnostics: bag}
	if opts.SplitStubs && len(stubItems) > 0 {
		result.StubModule = &syntax.Module{Name: "models", Items: stubItems}
	}
	return result, nil
}

// versionAtLeast compares major.minor numerically, so "3.9" < "3.10".
func versionAtLeast(have, want string) bool {
	var hMaj, hMin, wMaj, wMin int
	fmt.Sscanf(have, "%d.%d", &hMaj, &hMin)
	fmt.Sscanf(want, "%d.%d", &wMaj, &wMin)
	if hMaj != wMaj {
		return hMaj > wMaj
	}
	return hMin >= wMin
}

// lowerType builds the Syntax IR item(s) for one concept. The second
// return value holds items destined for the stub-only module (generic
// root models, when SplitStubs is set).
func (l *lowerer) lowerType(id symbol.ID, ty semantic.Type, concept lowering.Concept) (items, stubItems []syntax.Item) {
	name := l.typeName(id)

	switch concept {
	case lowering.ConceptSimpleModel:
		return []syntax.Item{syntax.ClassItem(l.simpleModel(name, ty.Struct))}, nil

	case lowering.ConceptTypeAlias:
		if ty.Struct != nil {
			target := l.typeExpr(ty.Struct.Fields[ty.Struct.FieldOrder[0]].Type)
			return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: target})}, nil
		}
		target := l.typeExpr(ty.Alias.Target)
		return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: target})}, nil

	case lowering.ConceptStringLiteralUnion:
		variants := lo.Map(ty.Enum.Variants, func(v semantic.Variant, _ int) syntax.TypeExpr {
			return syntax.Literal(fmt.Sprintf("%q", v.Name))
		})
		return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: syntax.Union(variants...)})}, nil

	case lowering.ConceptDiscriminatedUnion:
		return l.discriminatedUnion(name, ty.Enum)

	case lowering.ConceptRootModelWrapper:
		return l.rootModelWrapper(name, ty.Enum)

	case lowering.ConceptGenericRootModel:
		class := l.genericRootModel(name, ty)
		if l.opts.SplitStubs {
			return nil, []syntax.Item{syntax.ClassItem(class)}
		}
		return []syntax.Item{syntax.ClassItem(class)}, nil

	case lowering.ConceptPrimitiveMapping:
		target := l.primitiveFallback(ty.Primitive)
		return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: target})}, nil

	default:
		l.bag.Addf(diagnostic.CodeUnsupportedConstruct, &id, "", "lowering concept %q has no Python construction", concept)
		return nil, nil
	}
}

func (l *lowerer) simpleModel(name string, s *semantic.Struct) *syntax.Class {
	c := &syntax.Class{Name: name, Decorators: []string{"@dataclasses.dataclass"}, Docstring: s.Description}
	for _, fname := range s.FieldOrder {
		f := s.Fields[fname]
		field := syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)}
		if !f.Required {
			none := "None"
			field.Default = &none
		}
		c.Fields = append(c.Fields, field)
	}
	return c
}

// discriminatedUnion lowers Representation Internal{tag} and
// Adjacent{tag,content} (and the None-with-non-unit-variant fallback) to
// one dataclass per variant plus a Union type alias (spec.md §4.3).
func (l *lowerer) discriminatedUnion(name string, e *semantic.Enum) (items, stub []syntax.Item) {
	var variantNames []syntax.TypeExpr
	for _, v := range e.Variants {
		vname := name + l.resolver.TypeName(v.ID, v.Name)
		class := &syntax.Class{Name: vname, Decorators: []string{"@dataclasses.dataclass"}, Docstring: v.Description}
		if e.Representation.Kind == schemair.RepresentationInternal {
			class.Fields = append(class.Fields, syntax.Field{
				Name:       l.resolver.FieldName(e.Representation.Tag),
				Annotation: syntax.Literal(fmt.Sprintf("%q", v.Name)),
			})
		}
		for _, fname := range v.FieldOrder {
			f := v.ResolvedType[fname]
			field := syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)}
			if !f.Required {
				none := "None"
				field.Default = &none
			}
			class.Fields = append(class.Fields, field)
		}
		items = append(items, syntax.ClassItem(class))
		variantNames = append(variantNames, syntax.Name(vname))
	}
	items = append(items, syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: syntax.Union(variantNames...)}))
	return items, nil
}

// rootModelWrapper lowers Representation External/Untagged/None to one
// dataclass per fielded variant, string constants for unit variants, a
// Union alias, and a dict-driven factory function (spec.md §4.3, §4.6).
func (l *lowerer) rootModelWrapper(name string, e *semantic.Enum) (items, stub []syntax.Item) {
	var variantNames []syntax.TypeExpr
	var dispatch []string
	for _, v := range e.Variants {
		if v.Fields.Kind == schemair.FieldsNone {
			variantNames = append(variantNames, syntax.Literal(fmt.Sprintf("%q", v.Name)))
			dispatch = append(dispatch, fmt.Sprintf("if raw == %q: return raw", v.Name))
			continue
		}
		vname := name + l.resolver.TypeName(v.ID, v.Name)
		class := &syntax.Class{Name: vname, Decorators: []string{"@dataclasses.dataclass"}, Docstring: v.Description}
		for _, fname := range v.FieldOrder {
			f := v.ResolvedType[fname]
			field := syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)}
			if !f.Required {
				none := "None"
				field.Default = &none
			}
			class.Fields = append(class.Fields, field)
		}
		items = append(items, syntax.ClassItem(class))
		variantNames = append(variantNames, syntax.Name(vname))
		key := v.Name
		if e.Representation.Kind != schemair.RepresentationUntagged {
			dispatch = append(dispatch, fmt.Sprintf("if isinstance(raw, dict) and %q in raw: return %s(**raw[%q])", key, vname, key))
		}
	}
	items = append(items, syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: syntax.Union(variantNames...)}))

	dispatch = append(dispatch, "raise ValueError(f\"no variant of "+name+" matches {raw!r}\")")
	factory := &syntax.Function{
		Name:       "parse_" + toSnake(name),
		Params:     []syntax.Param{{Name: "raw", Annotation: ptrTypeExpr(syntax.Name("object"))}},
		ReturnType: ptrTypeExpr(syntax.Name(name)),
		Body:       dispatch,
	}
	items = append(items, syntax.FunctionItem(factory))
	return items, nil
}

func (l *lowerer) genericRootModel(name string, ty semantic.Type) *syntax.Class {
	class := &syntax.Class{Name: name}
	switch ty.Kind {
	case semantic.TypeKindStruct:
		class.TypeParams = ty.Struct.Parameters
		class.Docstring = ty.Struct.Description
		for _, fname := range ty.Struct.FieldOrder {
			f := ty.Struct.Fields[fname]
			class.Fields = append(class.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)})
		}
	case semantic.TypeKindEnum:
		class.TypeParams = ty.Enum.Parameters
		class.Docstring = ty.Enum.Description
		for _, v := range ty.Enum.Variants {
			for _, fname := range v.FieldOrder {
				f := v.ResolvedType[fname]
				class.Fields = append(class.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)})
			}
		}
	}
	class.Decorators = append(class.Decorators, "@dataclasses.dataclass")
	return class
}

func (l *lowerer) primitiveFallback(p *semantic.Primitive) syntax.TypeExpr {
	if override, ok := l.opts.PrimitiveFallbacks[p.Name]; ok {
		return syntax.Name(override)
	}
	if p.Fallback != nil {
		return l.typeExpr(*p.Fallback)
	}
	return syntax.Name("object")
}

// lowerClient emits a single Client class with one stub method per
// declared function. Bodies are a fixed placeholder: the compiler never
// executes generated clients (spec.md Non-goals), so there is no request
// logic to synthesize beyond the method signature.
func (l *lowerer) lowerClient() syntax.Item {
	class := &syntax.Class{Name: "Client"}
	for _, id := range l.schema.OrderedFunctionIDs() {
		fn := l.schema.Functions[id]
		method := &syntax.Function{Name: l.resolver.FieldName(fn.Name), Docstring: fn.Description}
		if lowering.IsPaginatable(l.schema, fn) {
			if method.Docstring != "" {
				method.Docstring += " "
			}
			method.Docstring += "(paginatable: cursor/limit request, items/cursor response)"
		}
		if fn.InputType != nil {
			method.Params = append(method.Params, syntax.Param{Name: "request", Annotation: ptrTypeExpr(l.typeExpr(*fn.InputType))})
		}
		if fn.OutputType != nil {
			ret := l.typeExpr(*fn.OutputType)
			method.ReturnType = &ret
		}
		method.Body = []string{"raise NotImplementedError"}
		class.Methods = append(class.Methods, *method)
	}
	return syntax.ClassItem(class)
}

// typeExpr translates a resolved TypeRef to a Python TypeExpr, resolving
// stdlib wrappers/scalars to their native Python spelling and user types
// to their Naming-resolved class/alias name.
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

func (l *lowerer) wrapperExpr(name string, args []semantic.TypeRef) syntax.TypeExpr {
	switch name {
	case "option":
		inner := syntax.Name("object")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		if l.union310 {
			return syntax.Union(inner, syntax.Name("None"))
		}
		return syntax.Optional(inner)
	case "three_state":
		// Three-valued optionality (absent/null/present): Python has no
		// built-in tri-state, so absence is spelled with the module-level
		// Unset sentinel rather than collapsing into None (SPEC_FULL.md §5
		// Open Questions).
		inner := syntax.Name("object")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		return syntax.Union(inner, syntax.Name("None"), syntax.Name("Unset"))
	case "vec", "set":
		base := "list"
		if name == "set" {
			base = "set"
		}
		inner := syntax.Name("object")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		return syntax.Subscript(syntax.Name(base), inner)
	case "map":
		key, val := syntax.Name("str"), syntax.Name("object")
		if len(args) > 0 {
			key = l.typeExpr(args[0])
		}
		if len(args) > 1 {
			val = l.typeExpr(args[1])
		}
		return syntax.Subscript(syntax.Name("dict"), key, val)
	case "box":
		if len(args) > 0 {
			return l.typeExpr(args[0])
		}
		return syntax.Name("object")
	case "tuple":
		elems := make([]syntax.TypeExpr, len(args))
		for i, a := range args {
			elems[i] = l.typeExpr(a)
		}
		return syntax.Subscript(syntax.Name("tuple"), elems...)
	default:
		return syntax.Name("object")
	}
}

func (l *lowerer) scalarName(name string) string {
	switch name {
	case "bool":
		return "bool"
	case "string":
		return "str"
	case "unit":
		return "None"
	case "i8", "i16", "i32", "i64", "i128", "u8", "u16", "u32", "u64", "u128":
		return "int"
	case "f32", "f64":
		return "float"
	case "uuid":
		return "uuid.UUID"
	case "decimal":
		return "decimal.Decimal"
	case "url":
		return "str"
	case "date":
		return "datetime.date"
	case "time":
		return "datetime.time"
	case "date_time":
		return "datetime.datetime"
	case "duration":
		return "datetime.timedelta"
	case "json_value":
		return "typing.Any"
	default:
		return "object"
	}
}

func (l *lowerer) typeName(id symbol.ID) string {
	info, _ := l.schema.Symbols.Lookup(id)
	return l.resolver.TypeName(id, info.QualifiedName)
}

func ptrTypeExpr(t syntax.TypeExpr) *syntax.TypeExpr { return &t }

func toSnake(s string) string {
	var out []rune
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			r = r - 'A' + 'a'
		}
		out = append(out, r)
	}
	return string(out)
}
