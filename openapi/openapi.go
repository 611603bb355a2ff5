package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/openbindings/schemac/canonicaljson"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

// Options configures a single Emit call.
type Options struct {
	// Title and Version populate the document's info object.
	Title   string
	Version string

	// DottedPaths, when true, keeps the dots of a function's path as
	// literal dots ("/name.with.dots") instead of turning them into path
	// segments ("/name/with/dots"), per
	// spec.md §4.7's "left as-is per config" clause.
	DottedPaths bool
}

// Result is the outcome of one Emit call: the built document plus its
// deterministic JSON encoding.
type Result struct {
	Document *openapi3.T
	JSON     []byte
}

// Emit walks schema and produces a 3.1.0 OpenAPI document (spec.md
// §4.7): one components.schemas entry per declared type, one POST path
// per function. The returned JSON bytes are canonicalized (RFC 8785 JCS)
// so repeated Emit calls over the same Schema produce byte-identical
// output (spec.md §8, §6.4).
func Emit(schema *semantic.Schema, opts Options) (*Result, error) {
	e := &emitter{
		schema: schema,
		names:  map[symbol.ID]string{},
		used:   map[string]string{},
	}

	title := opts.Title
	if title == "" {
		title = schema.Name
	}

	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:   title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(map[string]*openapi3.SchemaRef),
		},
	}

	for _, id := range schema.OrderedTypeIDs() {
		name := e.nameFor(id)
		shape := e.typeSchema(schema.Types[id])
		doc.Components.Schemas[name] = e.schemaRefFromMap(shape)
	}

	for _, id := range schema.OrderedFunctionIDs() {
		fn := schema.Functions[id]
		path := functionPath(fn, opts.DottedPaths)
		item := &openapi3.PathItem{}
		item.SetOperation("POST", e.operationFor(fn))
		doc.Paths.Set(path, item)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal document: %w", err)
	}
	canonical, err := canonicaljson.Marshal(json.RawMessage(raw))
	if err != nil {
		return nil, fmt.Errorf("openapi: canonicalize document: %w", err)
	}
	return &Result{Document: doc, JSON: canonical}, nil
}

// functionPath converts a function's dotted qualified path to a URL
// path per spec.md §4.7 ("/name.with.dots" -> "/name/with/dots" or left
// as-is per config).
func functionPath(fn semantic.Function, dotted bool) string {
	name := fn.Path
	if name == "" {
		name = fn.Name
	}
	if dotted {
		return "/" + name
	}
	return "/" + strings.ReplaceAll(name, ".", "/")
}

// emitter builds the components.schemas map and per-function operations.
// Unlike compat's projector (doc.go), it emits $ref into
// components/schemas for every non-stdlib type instead of inlining
// structurally, since a single OpenAPI document has one shared
// components section to ref into.
type emitter struct {
	schema *semantic.Schema
	names  map[symbol.ID]string
	used   map[string]string // claimed component name -> owning symbol.ID.String(), for dedup detection
}

// nameFor derives a stable components.schemas key from id's qualified
// name, escalating with a numeric suffix on collision (mirrors the
// dedup strategy naming.Resolver.claim uses for per-target type names;
// OpenAPI component names are target-neutral so they get their own
// small instance of the same strategy rather than reusing naming.Target).
func (e *emitter) nameFor(id symbol.ID) string {
	if cached, ok := e.names[id]; ok {
		return cached
	}
	base := pascalJoin(id.QualifiedName())
	if id.Disambiguator != 0 {
		base = fmt.Sprintf("%s_%d", base, id.Disambiguator)
	}
	candidate := base
	suffix := 2
	for {
		owner, taken := e.used[candidate]
		if !taken || owner == id.String() {
			break
		}
		candidate = fmt.Sprintf("%s_%d", base, suffix)
		suffix++
	}
	e.used[candidate] = id.String()
	e.names[id] = candidate
	return candidate
}

func pascalJoin(qualifiedName string) string {
	parts := strings.FieldsFunc(qualifiedName, func(r rune) bool {
		return r == ':' || r == '.' || r == '_' || r == '-'
	})
	if len(parts) == 0 {
		return "Schema"
	}
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(strings.ToLower(p))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		b.WriteString(string(r))
	}
	return b.String()
}

func (e *emitter) schemaRefFromMap(shape map[string]any) *openapi3.SchemaRef {
	if ref, ok := shape["$ref"]; ok && len(shape) == 1 {
		return &openapi3.SchemaRef{Ref: ref.(string)}
	}
	data, err := json.Marshal(shape)
	if err != nil {
		return openapi3.NewSchemaRef("", openapi3.NewSchema())
	}
	oasSchema := openapi3.NewSchema()
	if err := oasSchema.UnmarshalJSON(data); err != nil {
		return openapi3.NewSchemaRef("", openapi3.NewSchema())
	}
	return openapi3.NewSchemaRef("", oasSchema)
}

// ref projects a resolved TypeReference: a concrete user type becomes a
// $ref into components/schemas; a stdlib wrapper/scalar is inlined
// (mirroring compat/project.go's projector.ref so the two packages agree
// on what a given reference looks like, modulo this package's use of
// $ref instead of compat's deliberate no-$ref widening).
func (e *emitter) ref(ref semantic.TypeRef) map[string]any {
	if ref.IsGenericParam() {
		return map[string]any{}
	}
	id := *ref.Symbol
	if isStdlib(id) {
		name := stdlibLocalName(id)
		if wrapperNames[name] {
			return e.wrapper(name, ref.Arguments)
		}
		if shape, ok := stdlibScalar[name]; ok {
			return cloneMap(shape)
		}
		return map[string]any{}
	}
	return map[string]any{"$ref": "#/components/schemas/" + e.nameFor(id)}
}

func (e *emitter) wrapper(name string, args []semantic.TypeRef) map[string]any {
	switch name {
	case "option":
		inner := map[string]any{}
		if len(args) > 0 {
			inner = e.ref(args[0])
		}
		return map[string]any{"oneOf": []any{map[string]any{"type": "null"}, inner}}
	case "three_state":
		// Three-valued optionality (SPEC_FULL.md §5 Open Questions): present,
		// explicit-null, and absent are all distinct states. An OpenAPI
		// document has no "absent" keyword distinct from "not required", so
		// this projects the same as option; absence is instead expressed by
		// the property being non-required on its enclosing object.
		inner := map[string]any{}
		if len(args) > 0 {
			inner = e.ref(args[0])
		}
		return map[string]any{"oneOf": []any{map[string]any{"type": "null"}, inner}}
	case "vec", "set":
		items := map[string]any{}
		if len(args) > 0 {
			items = e.ref(args[0])
		}
		return map[string]any{"type": "array", "items": items}
	case "map":
		value := map[string]any{}
		if len(args) > 1 {
			value = e.ref(args[1])
		}
		return map[string]any{"type": "object", "additionalProperties": value}
	case "box":
		if len(args) > 0 {
			return e.ref(args[0])
		}
		return map[string]any{}
	case "tuple":
		items := make([]any, 0, len(args))
		for _, a := range args {
			items = append(items, e.ref(a))
		}
		return map[string]any{"type": "array", "prefixItems": items, "minItems": len(items), "maxItems": len(items)}
	default:
		return map[string]any{}
	}
}

func (e *emitter) typeSchema(ty semantic.Type) map[string]any {
	switch ty.Kind {
	case semantic.TypeKindStruct:
		return e.structSchema(ty.Struct)
	case semantic.TypeKindEnum:
		return e.enumSchema(ty.Enum)
	case semantic.TypeKindAlias:
		return e.ref(ty.Alias.Target)
	case semantic.TypeKindPrimitive:
		if ty.Primitive.Fallback != nil {
			return e.ref(*ty.Primitive.Fallback)
		}
		return map[string]any{}
	default:
		return map[string]any{}
	}
}

func (e *emitter) structSchema(s *semantic.Struct) map[string]any {
	if s.FieldsKind == schemair.FieldsNone {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	if s.Transparent && len(s.FieldOrder) == 1 {
		f := s.Fields[s.FieldOrder[0]]
		return e.ref(f.Type)
	}

	props := map[string]any{}
	var required []any
	for _, name := range s.FieldOrder {
		f := s.Fields[name]
		props[name] = e.ref(f.Type)
		if f.Required {
			required = append(required, name)
		}
	}
	out := map[string]any{"type": "object", "properties": props}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func (e *emitter) variantFieldsSchema(v semantic.Variant) map[string]any {
	props := map[string]any{}
	var required []any
	for _, name := range v.FieldOrder {
		f := v.ResolvedType[name]
		props[name] = e.ref(f.Type)
		if f.Required {
			required = append(required, name)
		}
	}
	out := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func (e *emitter) enumSchema(en *semantic.Enum) map[string]any {
	var shape map[string]any
	switch en.Representation.Kind {
	case schemair.RepresentationInternal:
		shape = e.taggedUnion(en, en.Representation.Tag)
	case schemair.RepresentationAdjacent:
		shape = e.adjacentUnion(en, en.Representation.Tag, en.Representation.Content)
	case schemair.RepresentationUntagged:
		shape = e.untaggedUnion(en)
	default:
		shape = e.externalUnion(en)
	}
	if en.Description != "" {
		shape["description"] = en.Description
	}
	return shape
}

// taggedUnion mirrors compat/project.go's projector.taggedUnion: each
// variant's own object shape, discriminant injected as a required
// const-valued property (spec.md §4.7 "internally-tagged enums emit
// oneOf with discriminator constants").
func (e *emitter) taggedUnion(en *semantic.Enum, tag string) map[string]any {
	variants := make([]any, 0, len(en.Variants))
	for _, v := range en.Variants {
		vs := e.variantFieldsSchema(v)
		props, _ := vs["properties"].(map[string]any)
		props[tag] = map[string]any{"const": v.Name}
		req, _ := vs["required"].([]any)
		vs["required"] = append(append([]any{}, req...), tag)
		variants = append(variants, vs)
	}
	out := map[string]any{"oneOf": variants}
	out["discriminator"] = map[string]any{"propertyName": tag}
	return out
}

func (e *emitter) adjacentUnion(en *semantic.Enum, tag, content string) map[string]any {
	variants := make([]any, 0, len(en.Variants))
	for _, v := range en.Variants {
		variants = append(variants, map[string]any{
			"type": "object",
			"properties": map[string]any{
				tag:     map[string]any{"const": v.Name},
				content: e.variantFieldsSchema(v),
			},
			"required": []any{tag, content},
		})
	}
	return map[string]any{"oneOf": variants}
}

func (e *emitter) untaggedUnion(en *semantic.Enum) map[string]any {
	variants := make([]any, 0, len(en.Variants))
	for _, v := range en.Variants {
		variants = append(variants, e.variantFieldsSchema(v))
	}
	return map[string]any{"oneOf": variants}
}

// externalUnion mirrors compat's projector.externalUnion (spec.md §4.7
// "externally-tagged enums emit oneOf of single-property objects plus
// string-literal constants for unit variants").
func (e *emitter) externalUnion(en *semantic.Enum) map[string]any {
	variants := make([]any, 0, len(en.Variants))
	for _, v := range en.Variants {
		if len(v.FieldOrder) == 0 {
			variants = append(variants, map[string]any{"const": v.Name})
			continue
		}
		variants = append(variants, map[string]any{
			"type":       "object",
			"properties": map[string]any{v.Name: e.variantFieldsSchema(v)},
			"required":   []any{v.Name},
		})
	}
	return map[string]any{"oneOf": variants}
}

// operationFor builds the POST operation for fn: request body from
// InputType (InputHeaders is not emitted), a 200 response from
// OutputType, and a "default" error response from ErrorType when
// present.
func (e *emitter) operationFor(fn semantic.Function) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: fn.Name,
		Description: fn.Description,
		Deprecated:  fn.Deprecated,
		Tags:        append([]string(nil), fn.Tags...),
	}
	op.Responses = openapi3.NewResponses()

	if fn.InputType != nil {
		content := openapi3.NewContent()
		content["application/json"] = openapi3.NewMediaType().WithSchemaRef(e.schemaRefFromMap(e.ref(*fn.InputType)))
		rb := openapi3.NewRequestBody().WithContent(content)
		rb.Required = true
		op.AddRequestBody(rb)
	}

	outShape := map[string]any{"type": "null"}
	if fn.OutputType != nil {
		outShape = e.ref(*fn.OutputType)
	}
	okContent := openapi3.NewContent()
	okContent["application/json"] = openapi3.NewMediaType().WithSchemaRef(e.schemaRefFromMap(outShape))
	okResponse := openapi3.NewResponse().WithContent(okContent).WithDescription("success")
	op.AddResponse(200, okResponse)

	if fn.ErrorType != nil {
		errContent := openapi3.NewContent()
		errContent["application/json"] = openapi3.NewMediaType().WithSchemaRef(e.schemaRefFromMap(e.ref(*fn.ErrorType)))
		errResponse := openapi3.NewResponse().WithContent(errContent).WithDescription("error")
		op.AddResponse(0, errResponse) // status 0 -> "default" per kin-openapi convention
	}

	sort.Strings(op.Tags)
	return op
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
