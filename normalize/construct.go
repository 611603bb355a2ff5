package normalize

import (
	"fmt"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

// construct implements phase 7: assemble the final immutable Semantic
// Schema from the working declaredType records plus every phase-4
// resolution table. It is the last phase to run, so any diagnostic it
// adds (currently only the UnusedType warning) never blocks an
// already-successful normalization.
func (n *normalizer) construct(
	schema schemair.Schema,
	fields map[symbol.ID]*fieldSet,
	variants map[symbol.ID][]semantic.Variant,
	targets map[symbol.ID]semantic.TypeRef,
	fallbacks map[symbol.ID]semantic.TypeRef,
) *semantic.Schema {
	sem := &semantic.Schema{
		ID:          schema.ID,
		Name:        schema.Name,
		Description: schema.Description,
		Types:       map[symbol.ID]semantic.Type{},
		Functions:   map[symbol.ID]semantic.Function{},
		Symbols:     n.table,
	}

	for _, id := range n.typeIDs {
		dt := n.types[id]
		info, _ := n.table.Lookup(id)
		qname := info.QualifiedName

		switch dt.def.Kind {
		case schemair.TypeDefStruct:
			s := dt.def.Struct
			fs := fields[id]
			sem.Types[id] = semantic.Type{
				ID:   id,
				Kind: semantic.TypeKindStruct,
				Struct: &semantic.Struct{
					ID:          id,
					Name:        qname,
					Description: s.Description,
					Parameters:  s.Parameters,
					Fields:      fs.byKey,
					FieldOrder:  fs.order,
					FieldsKind:  fs.kind,
					Transparent: s.Transparent,
					Direction:   dt.direction,
				},
			}

		case schemair.TypeDefEnum:
			e := dt.def.Enum
			sem.Types[id] = semantic.Type{
				ID:   id,
				Kind: semantic.TypeKindEnum,
				Enum: &semantic.Enum{
					ID:             id,
					Name:           qname,
					Description:    e.Description,
					Parameters:     e.Parameters,
					Representation: e.Representation,
					Variants:       variants[id],
					Direction:      dt.direction,
				},
			}

		case schemair.TypeDefAlias:
			a := dt.def.Alias
			target := targets[id]
			sem.Types[id] = semantic.Type{
				ID:   id,
				Kind: semantic.TypeKindAlias,
				Alias: &semantic.Alias{
					ID:         id,
					Name:       qname,
					Parameters: a.Parameters,
					Target:     target,
					Direction:  dt.direction,
				},
			}

		case schemair.TypeDefPrimitive:
			p := dt.def.Primitive
			var fb *semantic.TypeRef
			if ref, ok := fallbacks[id]; ok {
				fb = &ref
			}
			sem.Types[id] = semantic.Type{
				ID:   id,
				Kind: semantic.TypeKindPrimitive,
				Primitive: &semantic.Primitive{
					ID:          id,
					Name:        qname,
					Description: p.Description,
					Parameters:  p.Parameters,
					Fallback:    fb,
					Direction:   dt.direction,
				},
			}
		}
	}

	n.constructFunctions(schema, sem)
	n.reportUnusedTypes(sem, fields, variants, targets, fallbacks)

	return sem
}

// constructFunctions mints an Endpoint SymbolId per declared function and
// resolves its type references, preferring the Direction matching each
// reference's role (input references prefer direction=input candidates,
// output/error references prefer direction=output) when a name is
// ambiguous across typespaces.
func (n *normalizer) constructFunctions(schema schemair.Schema, sem *semantic.Schema) {
	disambig := map[string]uint32{}

	resolveRef := func(ref *schemair.TypeReference, dir semantic.Direction, origin symbol.ID) *semantic.TypeRef {
		if ref == nil {
			return nil
		}
		r, ok := n.resolveTypeReference(*ref, nil, dir, origin)
		if !ok {
			return nil
		}
		return &r
	}

	for _, fn := range schema.Functions {
		qname := sanitizeQualifiedName(fn.Name)
		d := disambig[qname]
		disambig[qname] = d + 1
		id := symbol.New(symbol.KindEndpoint, qname, d)
		n.table.Declare(symbol.Info{ID: id, QualifiedName: qname, DeclarationSite: "functions"})

		sem.Functions[id] = semantic.Function{
			ID:            id,
			Name:          qname,
			Path:          fn.Path,
			InputType:     resolveRef(fn.InputType, semantic.DirectionInput, id),
			InputHeaders:  resolveRef(fn.InputHeaders, semantic.DirectionInput, id),
			OutputType:    resolveRef(fn.OutputType, semantic.DirectionOutput, id),
			ErrorType:     resolveRef(fn.ErrorType, semantic.DirectionOutput, id),
			Serialization: fn.Serialization,
			Readonly:      fn.Readonly,
			Deprecated:    fn.Deprecated,
			Tags:          fn.Tags,
			Description:   fn.Description,
		}
	}
}

// reportUnusedTypes walks the reachability closure of every function's
// type references (through struct fields, enum variant fields, alias
// targets, and primitive fallbacks, including generic arguments) and
// emits UnusedType for every declared type the closure never reaches.
func (n *normalizer) reportUnusedTypes(
	sem *semantic.Schema,
	fields map[symbol.ID]*fieldSet,
	variants map[symbol.ID][]semantic.Variant,
	targets map[symbol.ID]semantic.TypeRef,
	fallbacks map[symbol.ID]semantic.TypeRef,
) {
	reachable := map[symbol.ID]bool{}
	var queue []symbol.ID

	var enqueue func(ref *semantic.TypeRef)
	enqueue = func(ref *semantic.TypeRef) {
		if ref == nil || ref.Symbol == nil {
			return
		}
		if !reachable[*ref.Symbol] {
			reachable[*ref.Symbol] = true
			queue = append(queue, *ref.Symbol)
		}
		for i := range ref.Arguments {
			enqueue(&ref.Arguments[i])
		}
	}

	for _, fn := range sem.Functions {
		enqueue(fn.InputType)
		enqueue(fn.InputHeaders)
		enqueue(fn.OutputType)
		enqueue(fn.ErrorType)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		dt, ok := n.types[id]
		if !ok {
			continue
		}
		switch dt.def.Kind {
		case schemair.TypeDefStruct:
			if fs, ok := fields[id]; ok {
				for _, name := range fs.order {
					f := fs.byKey[name]
					enqueue(&f.Type)
				}
			}
		case schemair.TypeDefEnum:
			for _, v := range variants[id] {
				for _, name := range v.FieldOrder {
					f := v.ResolvedType[name]
					enqueue(&f.Type)
				}
			}
		case schemair.TypeDefAlias:
			if ref, ok := targets[id]; ok {
				enqueue(&ref)
			}
		case schemair.TypeDefPrimitive:
			if ref, ok := fallbacks[id]; ok {
				enqueue(&ref)
			}
		}
	}

	for _, id := range n.typeIDs {
		if reachable[id] {
			continue
		}
		n.bag.Add(diagnostic.NewAt(diagnostic.CodeUnusedType, id,
			fmt.Sprintf("%q is never referenced by any function", n.types[id].qualifiedName)))
	}
}
