// Package typescript implements Language Semantic Lowering for the
// TypeScript target (spec.md §4.3; SPEC_FULL.md §3.6 names TypeScript the
// "structurally-typed scripting" target): structs become interfaces,
// enums become discriminated unions keyed by a literal tag property or a
// tagged-union type alias plus a factory function.
package typescript

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

// Options configures the TypeScript lowering pass.
type Options struct {
	// Version is parsed with formattoken, but no emitted construct depends
	// on it: factory function bodies never use `satisfies`.
	Version            string
	NamingOverrides    map[string]string
	PrimitiveFallbacks map[string]string
}

// Result is the lowered output.
type Result struct {
	Module      *syntax.Module
	Diagnostics *diagnostic.Bag
}

type lowerer struct {
	schema     *semantic.Schema
	resolver   *naming.Resolver
	opts       Options
	satisfies5 bool
	bag        *diagnostic.Bag
}

// Lower translates a Semantic Schema into TypeScript Syntax IR.
func Lower(schema *semantic.Schema, opts Options) (*Result, error) {
	bag := &diagnostic.Bag{}
	l := &lowerer{
		schema:   schema,
		resolver: naming.NewResolver(naming.TypeScript, opts.NamingOverrides),
		opts:     opts,
		bag:      bag,
	}
	if opts.Version != "" {
		if tok, err := formattoken.Parse("typescript@" + opts.Version); err == nil {
			l.satisfies5 = tok.Version >= "5.0"
		}
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
		return []syntax.Item{syntax.ClassItem(l.interfaceModel(name, ty.Struct))}

	case lowering.ConceptTypeAlias:
		if ty.Struct != nil {
			target := l.typeExpr(ty.Struct.Fields[ty.Struct.FieldOrder[0]].Type)
			return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: target})}
		}
		return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: l.typeExpr(ty.Alias.Target)})}

	case lowering.ConceptStringLiteralUnion:
		variants := lo.Map(ty.Enum.Variants, func(v semantic.Variant, _ int) syntax.TypeExpr {
			return syntax.Literal(fmt.Sprintf("%q", v.Name))
		})
		return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: syntax.Union(variants...)})}

	case lowering.ConceptDiscriminatedUnion:
		return l.discriminatedUnion(name, ty.Enum)

	case lowering.ConceptRootModelWrapper:
		return l.rootModelWrapper(name, ty.Enum)

	case lowering.ConceptGenericRootModel:
		return []syntax.Item{syntax.ClassItem(l.genericRootModel(name, ty))}

	case lowering.ConceptPrimitiveMapping:
		return []syntax.Item{syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: l.primitiveFallback(ty.Primitive)})}

	default:
		l.bag.Addf(diagnostic.CodeUnsupportedConstruct, &id, "", "lowering concept %q has no TypeScript construction", concept)
		return nil
	}
}

func (l *lowerer) interfaceModel(name string, s *semantic.Struct) *syntax.Class {
	c := &syntax.Class{Name: name, Docstring: s.Description}
	for _, fname := range s.FieldOrder {
		f := s.Fields[fname]
		annotation := l.typeExpr(f.Type)
		if !f.Required {
			annotation = syntax.Union(annotation, syntax.Name("undefined"))
		}
		c.Fields = append(c.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: annotation})
	}
	return c
}

// discriminatedUnion lowers Representation Internal{tag}/Adjacent to one
// interface per variant (carrying a literal-typed tag field) plus a union
// type alias keyed on that tag, the idiomatic TypeScript discriminated
// union shape.
func (l *lowerer) discriminatedUnion(name string, e *semantic.Enum) []syntax.Item {
	var items []syntax.Item
	var variantNames []syntax.TypeExpr
	for _, v := range e.Variants {
		vname := name + l.resolver.TypeName(v.ID, v.Name)
		class := &syntax.Class{Name: vname, Docstring: v.Description}
		if e.Representation.Kind == schemair.RepresentationInternal {
			class.Fields = append(class.Fields, syntax.Field{
				Name:       l.resolver.FieldName(e.Representation.Tag),
				Annotation: syntax.Literal(fmt.Sprintf("%q", v.Name)),
			})
		}
		for _, fname := range v.FieldOrder {
			f := v.ResolvedType[fname]
			annotation := l.typeExpr(f.Type)
			if !f.Required {
				annotation = syntax.Union(annotation, syntax.Name("undefined"))
			}
			class.Fields = append(class.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: annotation})
		}
		if e.Representation.Kind == schemair.RepresentationAdjacent {
			content := &syntax.Class{Name: vname + "Content"}
			for _, fname := range v.FieldOrder {
				f := v.ResolvedType[fname]
				content.Fields = append(content.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)})
			}
			items = append(items, syntax.ClassItem(content))
			class = &syntax.Class{Name: vname, Fields: []syntax.Field{
				{Name: l.resolver.FieldName(e.Representation.Tag), Annotation: syntax.Literal(fmt.Sprintf("%q", v.Name))},
				{Name: l.resolver.FieldName(e.Representation.Content), Annotation: syntax.Name(content.Name)},
			}}
		}
		items = append(items, syntax.ClassItem(class))
		variantNames = append(variantNames, syntax.Name(vname))
	}
	items = append(items, syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: syntax.Union(variantNames...)}))
	return items
}

// rootModelWrapper lowers Representation External/Untagged/None to one
// interface per fielded variant (wrapped by its variant-name key for
// External), string-literal constants for unit variants, a union type
// alias, and a factory function (spec.md §4.3, §4.6).
func (l *lowerer) rootModelWrapper(name string, e *semantic.Enum) []syntax.Item {
	var items []syntax.Item
	var variantNames []syntax.TypeExpr
	var dispatch []string
	for _, v := range e.Variants {
		if v.Fields.Kind == schemair.FieldsNone {
			variantNames = append(variantNames, syntax.Literal(fmt.Sprintf("%q", v.Name)))
			dispatch = append(dispatch, fmt.Sprintf("if (raw === %q) return raw;", v.Name))
			continue
		}
		vname := name + l.resolver.TypeName(v.ID, v.Name)
		inner := &syntax.Class{Name: vname + "Value"}
		for _, fname := range v.FieldOrder {
			f := v.ResolvedType[fname]
			inner.Fields = append(inner.Fields, syntax.Field{Name: l.resolver.FieldName(fname), Annotation: l.typeExpr(f.Type)})
		}
		items = append(items, syntax.ClassItem(inner))

		var wrapper *syntax.Class
		if e.Representation.Kind == schemair.RepresentationUntagged {
			wrapper = inner
			items = items[:len(items)-1] // untagged has no wrapper key: use the fields interface directly
			wrapper.Name = vname
		} else {
			wrapper = &syntax.Class{Name: vname, Fields: []syntax.Field{
				{Name: v.Name, Annotation: syntax.Name(inner.Name)},
			}}
			items = append(items, syntax.ClassItem(wrapper))
			dispatch = append(dispatch, fmt.Sprintf("if (typeof raw === \"object\" && raw !== null && %q in (raw as Record<string, unknown>)) return raw as %s;", v.Name, vname))
		}
		variantNames = append(variantNames, syntax.Name(wrapper.Name))
	}
	items = append(items, syntax.TypeAliasItem(&syntax.TypeAliasDecl{Name: name, Target: syntax.Union(variantNames...)}))

	dispatch = append(dispatch, fmt.Sprintf("throw new Error(`no variant of %s matches ${JSON.stringify(raw)}`);", name))
	factory := &syntax.Function{
		Name:       "parse" + name,
		Params:     []syntax.Param{{Name: "raw", Annotation: ptrTypeExpr(syntax.Name("unknown"))}},
		ReturnType: ptrTypeExpr(syntax.Name(name)),
		Body:       dispatch,
	}
	items = append(items, syntax.FunctionItem(factory))
	return items
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
	return class
}

func (l *lowerer) primitiveFallback(p *semantic.Primitive) syntax.TypeExpr {
	if override, ok := l.opts.PrimitiveFallbacks[p.Name]; ok {
		return syntax.Name(override)
	}
	if p.Fallback != nil {
		return l.typeExpr(*p.Fallback)
	}
	return syntax.Name("unknown")
}

// lowerClient emits one Client class with an async method per declared
// function; each body only throws "not implemented" (spec.md Non-goals:
// generated clients are never executed by this compiler).
func (l *lowerer) lowerClient() syntax.Item {
	class := &syntax.Class{Name: "Client"}
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
		ret := syntax.Name("void")
		if fn.OutputType != nil {
			ret = l.typeExpr(*fn.OutputType)
		}
		promise := syntax.Subscript(syntax.Name("Promise"), ret)
		method.ReturnType = &promise
		method.Body = []string{"throw new Error(\"not implemented\");"}
		class.Methods = append(class.Methods, *method)
	}
	return syntax.ClassItem(class)
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

func (l *lowerer) wrapperExpr(name string, args []semantic.TypeRef) syntax.TypeExpr {
	switch name {
	case "option":
		inner := syntax.Name("unknown")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		return syntax.Union(inner, syntax.Name("undefined"))
	case "three_state":
		// Three-valued optionality (absent/null/present): a present field
		// is `T`, an explicit null is `null`, and absence drops the key
		// entirely — so the type is exactly what an omittable, nullable
		// property already means in TypeScript's structural typing.
		inner := syntax.Name("unknown")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		return syntax.Union(inner, syntax.Name("null"), syntax.Name("undefined"))
	case "vec", "set":
		inner := syntax.Name("unknown")
		if len(args) > 0 {
			inner = l.typeExpr(args[0])
		}
		if name == "set" {
			return syntax.Subscript(syntax.Name("Set"), inner)
		}
		return syntax.Subscript(syntax.Name("Array"), inner)
	case "map":
		key, val := syntax.Name("string"), syntax.Name("unknown")
		if len(args) > 0 {
			key = l.typeExpr(args[0])
		}
		if len(args) > 1 {
			val = l.typeExpr(args[1])
		}
		return syntax.Subscript(syntax.Name("Map"), key, val)
	case "box":
		if len(args) > 0 {
			return l.typeExpr(args[0])
		}
		return syntax.Name("unknown")
	case "tuple":
		elems := make([]syntax.TypeExpr, len(args))
		for i, a := range args {
			elems[i] = l.typeExpr(a)
		}
		return syntax.Tuple(elems...)
	default:
		return syntax.Name("unknown")
	}
}

func (l *lowerer) scalarName(name string) string {
	switch name {
	case "bool":
		return "boolean"
	case "string", "uuid", "decimal", "url", "date", "time", "date_time", "duration":
		return "string"
	case "unit":
		return "null"
	case "i8", "i16", "i32", "i64", "i128", "u8", "u16", "u32", "u64", "u128", "f32", "f64":
		return "number"
	case "json_value":
		return "unknown"
	default:
		return "unknown"
	}
}

func (l *lowerer) typeName(id symbol.ID) string {
	info, _ := l.schema.Symbols.Lookup(id)
	return l.resolver.TypeName(id, info.QualifiedName)
}

func ptrTypeExpr(t syntax.TypeExpr) *syntax.TypeExpr { return &t }
