package compat

import (
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

// stdlibScalar maps a stdlib scalar's bare name (symbol.Stdlib(name)'s
// second path segment) to the JSON-Schema-profile shape CheckFunction
// projects it to. Names absent here are stdlib wrappers handled by
// wrapperNames/projector.wrapper instead.
var stdlibScalar = map[string]map[string]any{
	"bool":   {"type": "boolean"},
	"string": {"type": "string"},
	"unit":   {"type": "null"},

	"i8": {"type": "integer"}, "i16": {"type": "integer"}, "i32": {"type": "integer"},
	"i64": {"type": "integer"}, "i128": {"type": "integer"},
	"u8": {"type": "integer"}, "u16": {"type": "integer"}, "u32": {"type": "integer"},
	"u64": {"type": "integer"}, "u128": {"type": "integer"},

	"f32": {"type": "number"}, "f64": {"type": "number"},

	"uuid":    {"type": "string"},
	"decimal": {"type": "string"},
	"url":     {"type": "string"},

	"date":      {"type": "string"},
	"time":      {"type": "string"},
	"date_time": {"type": "string"},
	"duration":  {"type": "string"},

	"json_value": {},
}

// wrapperNames lists the stdlib generics projected structurally rather
// than as a scalar leaf, mirroring normalize.indirectionWrappers plus
// tuple (which normalize treats as a distinct concern but which projects
// the same way here: structurally, from its arguments).
var wrapperNames = map[string]bool{
	"option": true, "vec": true, "map": true, "set": true, "box": true, "tuple": true,
}

// isStdlib reports whether id names a pre-registered stdlib primitive
// (symbol.Stdlib's reserved "std" path, per symbol/id.go).
func isStdlib(id symbol.ID) bool {
	return id.Kind == symbol.KindPrimitive && len(id.Path) == 2 && id.Path[0] == "std"
}

func stdlibLocalName(id symbol.ID) string {
	if !isStdlib(id) {
		return ""
	}
	return id.Path[1]
}

// projector converts Semantic Schema types reachable from a function's
// input/output/error type to the restricted JSON-Schema profile this
// package's compatibility rules operate over. It never emits $ref: a
// repeated symbol on the current path is widened to Top ({}) instead of
// recursing forever, since old/new sides each come from their own
// *semantic.Schema with no shared $defs document to ref into (doc.go).
type projector struct {
	schema  *semantic.Schema
	visited map[string]bool
}

// projectFunctionIO projects a single function type reference (the
// InputType/OutputType/ErrorType of a semantic.Function) to the
// JSON-Schema profile. A nil ref (the function declares no such role)
// projects to {"type": "null"}.
func projectFunctionIO(schema *semantic.Schema, ref *semantic.TypeRef) map[string]any {
	if ref == nil {
		return map[string]any{"type": "null"}
	}
	p := &projector{schema: schema, visited: map[string]bool{}}
	return p.ref(*ref)
}

func (p *projector) ref(ref semantic.TypeRef) map[string]any {
	if ref.IsGenericParam() {
		// An unresolved generic parameter is Top for compatibility purposes:
		// the monomorphizer concretizes generics the driver exercises, but a
		// bare generic definition carries no projectable shape.
		return map[string]any{}
	}

	id := *ref.Symbol

	if isStdlib(id) {
		name := stdlibLocalName(id)
		if wrapperNames[name] {
			return p.wrapper(name, ref.Arguments)
		}
		if shape, ok := stdlibScalar[name]; ok {
			return cloneMap(shape)
		}
		return map[string]any{}
	}

	key := id.String()
	if p.visited[key] {
		return map[string]any{}
	}
	p.visited[key] = true
	defer delete(p.visited, key)

	ty, ok := p.schema.Types[id]
	if !ok {
		return map[string]any{}
	}

	switch ty.Kind {
	case semantic.TypeKindStruct:
		return p.structSchema(ty.Struct)
	case semantic.TypeKindEnum:
		return p.enumSchema(ty.Enum)
	case semantic.TypeKindAlias:
		return p.ref(ty.Alias.Target)
	case semantic.TypeKindPrimitive:
		if ty.Primitive.Fallback != nil {
			return p.ref(*ty.Primitive.Fallback)
		}
		return map[string]any{}
	default:
		return map[string]any{}
	}
}

func (p *projector) wrapper(name string, args []semantic.TypeRef) map[string]any {
	switch name {
	case "option":
		inner := map[string]any{}
		if len(args) > 0 {
			inner = p.ref(args[0])
		}
		return map[string]any{"oneOf": []any{
			map[string]any{"type": "null"},
			inner,
		}}
	case "vec", "set":
		items := map[string]any{}
		if len(args) > 0 {
			items = p.ref(args[0])
		}
		return map[string]any{"type": []any{"array"}, "items": items}
	case "map":
		value := map[string]any{}
		if len(args) > 1 {
			value = p.ref(args[1])
		}
		return map[string]any{"type": []any{"object"}, "additionalProperties": value}
	case "box":
		if len(args) > 0 {
			return p.ref(args[0])
		}
		return map[string]any{}
	case "tuple":
		// Positional item typing (prefixItems) is outside the accepted
		// keyword profile; widen to an unconstrained array (doc.go).
		return map[string]any{"type": []any{"array"}}
	default:
		return map[string]any{}
	}
}

func (p *projector) structSchema(s *semantic.Struct) map[string]any {
	if s.Transparent && len(s.FieldOrder) == 1 {
		f := s.Fields[s.FieldOrder[0]]
		return p.ref(f.Type)
	}

	props := map[string]any{}
	var required []any
	for _, name := range s.FieldOrder {
		f := s.Fields[name]
		props[name] = p.ref(f.Type)
		if f.Required {
			required = append(required, name)
		}
	}

	out := map[string]any{"type": []any{"object"}, "properties": props}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func (p *projector) variantFieldsSchema(v semantic.Variant) map[string]any {
	props := map[string]any{}
	var required []any
	for _, name := range v.FieldOrder {
		f := v.ResolvedType[name]
		props[name] = p.ref(f.Type)
		if f.Required {
			required = append(required, name)
		}
	}
	out := map[string]any{"type": []any{"object"}, "properties": props}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func (p *projector) enumSchema(e *semantic.Enum) map[string]any {
	switch e.Representation.Kind {
	case "internal":
		return p.taggedUnion(e, e.Representation.Tag)
	case "adjacent":
		return p.adjacentUnion(e, e.Representation.Tag, e.Representation.Content)
	case "untagged":
		return p.untaggedUnion(e)
	default:
		return p.externalUnion(e)
	}
}

// taggedUnion projects Representation=Internal{tag}: each variant's own
// object shape, with the discriminant injected as a required const-valued
// property.
func (p *projector) taggedUnion(e *semantic.Enum, tag string) map[string]any {
	variants := make([]any, 0, len(e.Variants))
	for _, v := range e.Variants {
		vs := p.variantFieldsSchema(v)
		props, _ := vs["properties"].(map[string]any)
		if props == nil {
			props = map[string]any{}
			vs["properties"] = props
		}
		props[tag] = map[string]any{"const": v.Name}
		req, _ := vs["required"].([]any)
		vs["required"] = append(append([]any{}, req...), tag)
		variants = append(variants, vs)
	}
	return map[string]any{"oneOf": variants}
}

// adjacentUnion projects Representation=Adjacent{tag,content}: each
// variant becomes {tag: const, content: variant-fields-object}.
func (p *projector) adjacentUnion(e *semantic.Enum, tag, content string) map[string]any {
	variants := make([]any, 0, len(e.Variants))
	for _, v := range e.Variants {
		variants = append(variants, map[string]any{
			"type": []any{"object"},
			"properties": map[string]any{
				tag:     map[string]any{"const": v.Name},
				content: p.variantFieldsSchema(v),
			},
			"required": []any{tag, content},
		})
	}
	return map[string]any{"oneOf": variants}
}

// untaggedUnion projects Representation=Untagged: a bare oneOf of each
// variant's own field shape with no discriminant, matching the OpenAPI
// Emitter's documented choice for the same representation (doc.go).
func (p *projector) untaggedUnion(e *semantic.Enum) map[string]any {
	variants := make([]any, 0, len(e.Variants))
	for _, v := range e.Variants {
		variants = append(variants, p.variantFieldsSchema(v))
	}
	return map[string]any{"oneOf": variants}
}

// externalUnion projects Representation=External (and the None fallback):
// a unit variant becomes {"const": name}; a variant carrying fields
// becomes a single-property wrapper object keyed by the variant name.
func (p *projector) externalUnion(e *semantic.Enum) map[string]any {
	variants := make([]any, 0, len(e.Variants))
	for _, v := range e.Variants {
		if len(v.FieldOrder) == 0 {
			variants = append(variants, map[string]any{"const": v.Name})
			continue
		}
		variants = append(variants, map[string]any{
			"type":       []any{"object"},
			"properties": map[string]any{v.Name: p.variantFieldsSchema(v)},
			"required":   []any{v.Name},
		})
	}
	return map[string]any{"oneOf": variants}
}
