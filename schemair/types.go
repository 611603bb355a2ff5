// Package schemair models the raw, possibly redundant Schema IR a
// server-side reflector emits as JSON: typespaces, type definitions,
// functions, and type references with generic arguments. It is read-only
// after deserialization — the Normalizer is the only consumer that turns
// it into a canonical Semantic Schema.
package schemair

import (
	"encoding/json"
	"fmt"
)

// TypeReference names a type and its generic arguments, e.g. "vec" applied
// to "option" applied to "std::string".
type TypeReference struct {
	Name      string          `json:"name"`
	Arguments []TypeReference `json:"arguments,omitempty"`
}

// FieldsKind distinguishes the three shapes a struct or variant's fields
// can take.
type FieldsKind string

const (
	FieldsNone    FieldsKind = "none"
	FieldsNamed   FieldsKind = "named"
	FieldsUnnamed FieldsKind = "unnamed"
)

// Fields is the tagged union "none | named[Field] | unnamed[Field]" shared
// by struct and variant definitions.
type Fields struct {
	Kind  FieldsKind
	Items []Field
}

func (f *Fields) UnmarshalJSON(b []byte) error {
	var asString string
	if err := json.Unmarshal(b, &asString); err == nil {
		if asString != string(FieldsNone) {
			return fmt.Errorf("schemair: unrecognized fields literal %q", asString)
		}
		*f = Fields{Kind: FieldsNone}
		return nil
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(b, &asObject); err != nil {
		return fmt.Errorf("schemair: fields must be \"none\" or a named/unnamed object: %w", err)
	}
	if raw, ok := asObject["named"]; ok {
		var items []Field
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		*f = Fields{Kind: FieldsNamed, Items: items}
		return nil
	}
	if raw, ok := asObject["unnamed"]; ok {
		var items []Field
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		*f = Fields{Kind: FieldsUnnamed, Items: items}
		return nil
	}
	return fmt.Errorf("schemair: fields object has neither \"named\" nor \"unnamed\" key")
}

func (f Fields) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case "", FieldsNone:
		return json.Marshal(string(FieldsNone))
	case FieldsNamed:
		return json.Marshal(map[string][]Field{"named": f.Items})
	case FieldsUnnamed:
		return json.Marshal(map[string][]Field{"unnamed": f.Items})
	default:
		return nil, fmt.Errorf("schemair: unknown fields kind %q", f.Kind)
	}
}

var knownFieldSet = knownSet(
	"id", "name", "type", "required", "flattened", "transformCallback", "description",
)

// Field is a single struct or variant field.
type Field struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Type              TypeReference `json:"type"`
	Required          bool          `json:"required"`
	Flattened         bool          `json:"flattened,omitempty"`
	TransformCallback string        `json:"transformCallback,omitempty"`
	Description       string        `json:"description,omitempty"`

	LosslessFields
}

type fieldWire struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Type              TypeReference `json:"type"`
	Required          bool          `json:"required"`
	Flattened         bool          `json:"flattened,omitempty"`
	TransformCallback string        `json:"transformCallback,omitempty"`
	Description       string        `json:"description,omitempty"`
}

func (f *Field) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w fieldWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*f = Field{
		ID:                w.ID,
		Name:              w.Name,
		Type:              w.Type,
		Required:          w.Required,
		Flattened:         w.Flattened,
		TransformCallback: w.TransformCallback,
		Description:       w.Description,
	}
	f.Extensions, f.Unknown = splitLossless(raw, knownFieldSet)
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	w := fieldWire{
		ID:                f.ID,
		Name:              f.Name,
		Type:              f.Type,
		Required:          f.Required,
		Flattened:         f.Flattened,
		TransformCallback: f.TransformCallback,
		Description:       f.Description,
	}
	return marshalLossless(f.Unknown, f.Extensions, w)
}

var knownVariantSet = knownSet(
	"id", "name", "description", "discriminant", "fields",
)

// Variant is a single enum variant; its Fields share the same shape as a
// struct's fields (none/named/unnamed).
type Variant struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Discriminant *int64  `json:"discriminant,omitempty"`
	Fields       Fields  `json:"fields"`

	LosslessFields
}

type variantWire struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Discriminant *int64 `json:"discriminant,omitempty"`
	Fields       Fields `json:"fields"`
}

func (v *Variant) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w variantWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*v = Variant{
		ID:           w.ID,
		Name:         w.Name,
		Description:  w.Description,
		Discriminant: w.Discriminant,
		Fields:       w.Fields,
	}
	v.Extensions, v.Unknown = splitLossless(raw, knownVariantSet)
	return nil
}

func (v Variant) MarshalJSON() ([]byte, error) {
	w := variantWire{
		ID:           v.ID,
		Name:         v.Name,
		Description:  v.Description,
		Discriminant: v.Discriminant,
		Fields:       v.Fields,
	}
	return marshalLossless(v.Unknown, v.Extensions, w)
}

// RepresentationKind is the on-wire shape of an enum (spec glossary:
// "Representation"). External and None both describe the externally
// tagged wire form (a unit variant as its bare name, any other variant as
// a single-key object); they are kept distinct here (rather than collapsed
// into one Go value) so a Schema IR that explicitly wrote "none"
// round-trips byte-identically instead of silently becoming an absent
// field on re-marshal. Downstream, lowering.ClassifyType treats them
// identically.
type RepresentationKind string

const (
	RepresentationExternal RepresentationKind = "external"
	RepresentationInternal RepresentationKind = "internal"
	RepresentationAdjacent RepresentationKind = "adjacent"
	RepresentationUntagged RepresentationKind = "untagged"
	RepresentationNone     RepresentationKind = "none"
)

// Representation is the tagged union External | Internal{tag} |
// Adjacent{tag,content} | Untagged | None.
type Representation struct {
	Kind    RepresentationKind
	Tag     string // Internal, Adjacent
	Content string // Adjacent only
}

func (r *Representation) UnmarshalJSON(b []byte) error {
	var asString string
	if err := json.Unmarshal(b, &asString); err == nil {
		switch asString {
		case string(RepresentationNone):
			*r = Representation{Kind: RepresentationNone}
		case string(RepresentationUntagged):
			*r = Representation{Kind: RepresentationUntagged}
		default:
			return fmt.Errorf("schemair: unrecognized representation literal %q", asString)
		}
		return nil
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(b, &asObject); err != nil {
		return fmt.Errorf("schemair: representation must be a string or internal/adjacent object: %w", err)
	}
	if raw, ok := asObject["internal"]; ok {
		var inner struct {
			Tag string `json:"tag"`
		}
		if err := json.Unmarshal(raw, &inner); err != nil {
			return err
		}
		*r = Representation{Kind: RepresentationInternal, Tag: inner.Tag}
		return nil
	}
	if raw, ok := asObject["adjacent"]; ok {
		var inner struct {
			Tag     string `json:"tag"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(raw, &inner); err != nil {
			return err
		}
		*r = Representation{Kind: RepresentationAdjacent, Tag: inner.Tag, Content: inner.Content}
		return nil
	}
	return fmt.Errorf("schemair: representation object has neither \"internal\" nor \"adjacent\" key")
}

func (r Representation) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case "", RepresentationExternal:
		// Absent field is the canonical wire form for External: this returns
		// null, and EnumDef.MarshalJSON omits the field altogether.
		return json.Marshal(nil)
	case RepresentationNone:
		return json.Marshal(string(RepresentationNone))
	case RepresentationUntagged:
		return json.Marshal(string(RepresentationUntagged))
	case RepresentationInternal:
		return json.Marshal(map[string]any{"internal": map[string]string{"tag": r.Tag}})
	case RepresentationAdjacent:
		return json.Marshal(map[string]any{"adjacent": map[string]string{"tag": r.Tag, "content": r.Content}})
	default:
		return nil, fmt.Errorf("schemair: unknown representation kind %q", r.Kind)
	}
}

var knownPrimitiveSet = knownSet("id", "name", "description", "parameters", "fallback")

// PrimitiveDef is an atomic type; Fallback declares "if a target lacks this
// primitive, render as ...".
type PrimitiveDef struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  []string       `json:"parameters,omitempty"`
	Fallback    *TypeReference `json:"fallback,omitempty"`

	LosslessFields
}

type primitiveDefWire struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  []string       `json:"parameters,omitempty"`
	Fallback    *TypeReference `json:"fallback,omitempty"`
}

func (p *PrimitiveDef) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w primitiveDefWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = PrimitiveDef{ID: w.ID, Name: w.Name, Description: w.Description, Parameters: w.Parameters, Fallback: w.Fallback}
	p.Extensions, p.Unknown = splitLossless(raw, knownPrimitiveSet)
	return nil
}

func (p PrimitiveDef) MarshalJSON() ([]byte, error) {
	w := primitiveDefWire{ID: p.ID, Name: p.Name, Description: p.Description, Parameters: p.Parameters, Fallback: p.Fallback}
	return marshalLossless(p.Unknown, p.Extensions, w)
}

var knownStructSet = knownSet(
	"id", "name", "description", "parameters", "fields", "transparent", "serdeFlattenSupport",
)

// StructDef is a product type; Transparent marks a single-field struct
// whose serialization is its inner value.
type StructDef struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	Parameters          []string `json:"parameters,omitempty"`
	Fields              Fields   `json:"fields"`
	Transparent         bool     `json:"transparent,omitempty"`
	SerdeFlattenSupport bool     `json:"serdeFlattenSupport"`

	LosslessFields
}

type structDefWire struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	Parameters          []string `json:"parameters,omitempty"`
	Fields              Fields   `json:"fields"`
	Transparent         bool     `json:"transparent,omitempty"`
	SerdeFlattenSupport bool     `json:"serdeFlattenSupport"`
}

func (s *StructDef) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w structDefWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = StructDef{
		ID:                  w.ID,
		Name:                w.Name,
		Description:         w.Description,
		Parameters:          w.Parameters,
		Fields:              w.Fields,
		Transparent:         w.Transparent,
		SerdeFlattenSupport: w.SerdeFlattenSupport,
	}
	s.Extensions, s.Unknown = splitLossless(raw, knownStructSet)
	return nil
}

func (s StructDef) MarshalJSON() ([]byte, error) {
	w := structDefWire{
		ID:                  s.ID,
		Name:                s.Name,
		Description:         s.Description,
		Parameters:          s.Parameters,
		Fields:              s.Fields,
		Transparent:         s.Transparent,
		SerdeFlattenSupport: s.SerdeFlattenSupport,
	}
	return marshalLossless(s.Unknown, s.Extensions, w)
}

var knownEnumSet = knownSet(
	"id", "name", "description", "parameters", "representation", "variants",
)

// EnumDef is a sum type; Representation governs how variants are
// distinguished on the wire.
type EnumDef struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Parameters     []string        `json:"parameters,omitempty"`
	Representation Representation  `json:"representation,omitempty"`
	Variants       []Variant       `json:"variants"`

	LosslessFields
}

type enumDefWire struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Parameters     []string       `json:"parameters,omitempty"`
	Representation *Representation `json:"representation,omitempty"`
	Variants       []Variant      `json:"variants"`
}

func (e *EnumDef) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w enumDefWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	rep := Representation{Kind: RepresentationExternal}
	if w.Representation != nil {
		rep = *w.Representation
	}
	*e = EnumDef{
		ID:             w.ID,
		Name:           w.Name,
		Description:    w.Description,
		Parameters:     w.Parameters,
		Representation: rep,
		Variants:       w.Variants,
	}
	e.Extensions, e.Unknown = splitLossless(raw, knownEnumSet)
	return nil
}

func (e EnumDef) MarshalJSON() ([]byte, error) {
	w := enumDefWire{
		ID:             e.ID,
		Name:           e.Name,
		Description:    e.Description,
		Parameters:     e.Parameters,
		Representation: &e.Representation,
		Variants:       e.Variants,
	}
	if e.Representation.Kind == "" || e.Representation.Kind == RepresentationExternal {
		w.Representation = nil
	}
	return marshalLossless(e.Unknown, e.Extensions, w)
}

var knownAliasSet = knownSet("id", "name", "parameters", "target")

// AliasDef names another type, optionally applying generic parameters.
type AliasDef struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Parameters []string      `json:"parameters,omitempty"`
	Target     TypeReference `json:"target"`

	LosslessFields
}

type aliasDefWire struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Parameters []string      `json:"parameters,omitempty"`
	Target     TypeReference `json:"target"`
}

func (a *AliasDef) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w aliasDefWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*a = AliasDef{ID: w.ID, Name: w.Name, Parameters: w.Parameters, Target: w.Target}
	a.Extensions, a.Unknown = splitLossless(raw, knownAliasSet)
	return nil
}

func (a AliasDef) MarshalJSON() ([]byte, error) {
	w := aliasDefWire{ID: a.ID, Name: a.Name, Parameters: a.Parameters, Target: a.Target}
	return marshalLossless(a.Unknown, a.Extensions, w)
}

// TypeDefKind discriminates the four TypeDef variants.
type TypeDefKind string

const (
	TypeDefStruct    TypeDefKind = "struct"
	TypeDefEnum      TypeDefKind = "enum"
	TypeDefPrimitive TypeDefKind = "primitive"
	TypeDefAlias     TypeDefKind = "alias"
)

// TypeDef is the tagged sum Primitive | Struct | Enum | TypeAlias. Exactly
// one of the pointer fields matching Kind is non-nil.
type TypeDef struct {
	Kind      TypeDefKind
	Struct    *StructDef
	Enum      *EnumDef
	Primitive *PrimitiveDef
	Alias     *AliasDef
}

// ID returns the identifier common to every TypeDef variant.
func (t TypeDef) ID() string {
	switch t.Kind {
	case TypeDefStruct:
		return t.Struct.ID
	case TypeDefEnum:
		return t.Enum.ID
	case TypeDefPrimitive:
		return t.Primitive.ID
	case TypeDefAlias:
		return t.Alias.ID
	default:
		return ""
	}
}

// Name returns the qualified name common to every TypeDef variant.
func (t TypeDef) Name() string {
	switch t.Kind {
	case TypeDefStruct:
		return t.Struct.Name
	case TypeDefEnum:
		return t.Enum.Name
	case TypeDefPrimitive:
		return t.Primitive.Name
	case TypeDefAlias:
		return t.Alias.Name
	default:
		return ""
	}
}

type typeDefDiscriminator struct {
	Kind TypeDefKind `json:"kind"`
}

func (t *TypeDef) UnmarshalJSON(b []byte) error {
	var disc typeDefDiscriminator
	if err := json.Unmarshal(b, &disc); err != nil {
		return err
	}
	switch disc.Kind {
	case TypeDefStruct:
		var s StructDef
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = TypeDef{Kind: TypeDefStruct, Struct: &s}
	case TypeDefEnum:
		var e EnumDef
		if err := json.Unmarshal(b, &e); err != nil {
			return err
		}
		*t = TypeDef{Kind: TypeDefEnum, Enum: &e}
	case TypeDefPrimitive:
		var p PrimitiveDef
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*t = TypeDef{Kind: TypeDefPrimitive, Primitive: &p}
	case TypeDefAlias:
		var a AliasDef
		if err := json.Unmarshal(b, &a); err != nil {
			return err
		}
		*t = TypeDef{Kind: TypeDefAlias, Alias: &a}
	default:
		return fmt.Errorf("schemair: unknown TypeDef kind %q", disc.Kind)
	}
	return nil
}

func (t TypeDef) MarshalJSON() ([]byte, error) {
	var payload []byte
	var err error
	switch t.Kind {
	case TypeDefStruct:
		payload, err = json.Marshal(t.Struct)
	case TypeDefEnum:
		payload, err = json.Marshal(t.Enum)
	case TypeDefPrimitive:
		payload, err = json.Marshal(t.Primitive)
	case TypeDefAlias:
		payload, err = json.Marshal(t.Alias)
	default:
		return nil, fmt.Errorf("schemair: unknown TypeDef kind %q", t.Kind)
	}
	if err != nil {
		return nil, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(payload, &merged); err != nil {
		return nil, err
	}
	kindBytes, err := json.Marshal(t.Kind)
	if err != nil {
		return nil, err
	}
	merged["kind"] = kindBytes
	return json.Marshal(merged)
}

// Typespace is an ordered collection of TypeDef, preserving declaration
// order from the input JSON (the Normalizer's ID Assignment phase is what
// makes order irrelevant downstream; Typespace itself stays order-faithful).
type Typespace struct {
	Types []TypeDef `json:"types"`
}

var knownFunctionSet = knownSet(
	"id", "name", "path", "inputType", "inputHeaders", "outputType", "errorType",
	"serialization", "readonly", "deprecated", "tags", "description",
)

// Function describes one endpoint.
type Function struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Path          string         `json:"path"`
	InputType     *TypeReference `json:"inputType,omitempty"`
	InputHeaders  *TypeReference `json:"inputHeaders,omitempty"`
	OutputType    *TypeReference `json:"outputType,omitempty"`
	ErrorType     *TypeReference `json:"errorType,omitempty"`
	Serialization []string       `json:"serialization,omitempty"`
	Readonly      bool           `json:"readonly,omitempty"`
	Deprecated    bool           `json:"deprecated,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Description   string         `json:"description,omitempty"`

	LosslessFields
}

type functionWire struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Path          string         `json:"path"`
	InputType     *TypeReference `json:"inputType,omitempty"`
	InputHeaders  *TypeReference `json:"inputHeaders,omitempty"`
	OutputType    *TypeReference `json:"outputType,omitempty"`
	ErrorType     *TypeReference `json:"errorType,omitempty"`
	Serialization []string       `json:"serialization,omitempty"`
	Readonly      bool           `json:"readonly,omitempty"`
	Deprecated    bool           `json:"deprecated,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Description   string         `json:"description,omitempty"`
}

func (f *Function) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w functionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*f = Function{
		ID:            w.ID,
		Name:          w.Name,
		Path:          w.Path,
		InputType:     w.InputType,
		InputHeaders:  w.InputHeaders,
		OutputType:    w.OutputType,
		ErrorType:     w.ErrorType,
		Serialization: w.Serialization,
		Readonly:      w.Readonly,
		Deprecated:    w.Deprecated,
		Tags:          w.Tags,
		Description:   w.Description,
	}
	f.Extensions, f.Unknown = splitLossless(raw, knownFunctionSet)
	return nil
}

func (f Function) MarshalJSON() ([]byte, error) {
	w := functionWire{
		ID:            f.ID,
		Name:          f.Name,
		Path:          f.Path,
		InputType:     f.InputType,
		InputHeaders:  f.InputHeaders,
		OutputType:    f.OutputType,
		ErrorType:     f.ErrorType,
		Serialization: f.Serialization,
		Readonly:      f.Readonly,
		Deprecated:    f.Deprecated,
		Tags:          f.Tags,
		Description:   f.Description,
	}
	return marshalLossless(f.Unknown, f.Extensions, w)
}

var knownSchemaSet = knownSet(
	"id", "name", "description", "schemaVersion", "functions", "inputTypes", "outputTypes",
)

// Schema is the Schema IR document root (spec.md §3.1/§6.1).
type Schema struct {
	ID            string     `json:"id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	SchemaVersion string     `json:"schemaVersion,omitempty"`
	Functions     []Function `json:"functions"`
	InputTypes    Typespace  `json:"inputTypes"`
	OutputTypes   Typespace  `json:"outputTypes"`

	LosslessFields
}

type schemaWire struct {
	ID            string     `json:"id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	SchemaVersion string     `json:"schemaVersion,omitempty"`
	Functions     []Function `json:"functions"`
	InputTypes    Typespace  `json:"inputTypes"`
	OutputTypes   Typespace  `json:"outputTypes"`
}

func (s *Schema) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var w schemaWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = Schema{
		ID:            w.ID,
		Name:          w.Name,
		Description:   w.Description,
		SchemaVersion: w.SchemaVersion,
		Functions:     w.Functions,
		InputTypes:    w.InputTypes,
		OutputTypes:   w.OutputTypes,
	}
	s.Extensions, s.Unknown = splitLossless(raw, knownSchemaSet)
	return nil
}

func (s Schema) MarshalJSON() ([]byte, error) {
	w := schemaWire{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		SchemaVersion: s.SchemaVersion,
		Functions:     s.Functions,
		InputTypes:    s.InputTypes,
		OutputTypes:   s.OutputTypes,
	}
	return marshalLossless(s.Unknown, s.Extensions, w)
}

// Parse decodes a Schema IR document from JSON bytes.
func Parse(b []byte) (Schema, error) {
	var s Schema
	if err := json.Unmarshal(b, &s); err != nil {
		return Schema{}, fmt.Errorf("schemair: parse: %w", err)
	}
	return s, nil
}
