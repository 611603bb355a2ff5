package normalize

import (
	"fmt"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

// fieldSet is the phase-4 resolved counterpart of schemair.Fields: the
// same none/named/unnamed shape, but with every field's Type resolved.
type fieldSet struct {
	kind  schemair.FieldsKind
	order []string
	byKey map[string]semantic.Field
}

const aliasChainDepthCap = 32

// resolveAllReferences implements phase 4: every TypeReference in every
// declared type and every function is resolved to either a bound generic
// parameter or a concrete SymbolId.
func (n *normalizer) resolveAllReferences() (
	fields map[symbol.ID]*fieldSet,
	variants map[symbol.ID][]semantic.Variant,
	targets map[symbol.ID]semantic.TypeRef,
	fallbacks map[symbol.ID]semantic.TypeRef,
) {
	fields = map[symbol.ID]*fieldSet{}
	variants = map[symbol.ID][]semantic.Variant{}
	targets = map[symbol.ID]semantic.TypeRef{}
	fallbacks = map[symbol.ID]semantic.TypeRef{}

	for _, id := range n.typeIDs {
		dt := n.types[id]
		scope := genericScope(dt.def)

		switch dt.def.Kind {
		case schemair.TypeDefStruct:
			fields[id] = n.resolveFieldSet(dt.def.Struct.Fields, scope, dt.direction, id)
		case schemair.TypeDefEnum:
			vs := make([]semantic.Variant, len(dt.def.Enum.Variants))
			for i, v := range dt.def.Enum.Variants {
				fs := n.resolveFieldSet(v.Fields, scope, dt.direction, id)
				vs[i] = semantic.Variant{
					ID:           symbol.New(symbol.KindVariant, dt.qualifiedName+"::"+v.Name, 0),
					Name:         v.Name,
					Description:  v.Description,
					Discriminant: v.Discriminant,
					Fields:       v.Fields,
					ResolvedType: fs.byKey,
					FieldOrder:   fs.order,
				}
			}
			variants[id] = vs
		case schemair.TypeDefAlias:
			ref, ok := n.resolveTypeReference(dt.def.Alias.Target, scope, dt.direction, id)
			if ok {
				targets[id] = ref
			}
		case schemair.TypeDefPrimitive:
			if dt.def.Primitive.Fallback != nil {
				ref, ok := n.resolveTypeReference(*dt.def.Primitive.Fallback, scope, dt.direction, id)
				if ok {
					fallbacks[id] = ref
				}
			}
		}
	}

	n.detectAliasCycles(targets)

	return fields, variants, targets, fallbacks
}

func genericScope(td schemair.TypeDef) map[string]bool {
	var params []string
	switch td.Kind {
	case schemair.TypeDefStruct:
		params = td.Struct.Parameters
	case schemair.TypeDefEnum:
		params = td.Enum.Parameters
	case schemair.TypeDefAlias:
		params = td.Alias.Parameters
	case schemair.TypeDefPrimitive:
		params = td.Primitive.Parameters
	}
	scope := make(map[string]bool, len(params))
	for _, p := range params {
		scope[p] = true
	}
	return scope
}

func (n *normalizer) resolveFieldSet(raw schemair.Fields, scope map[string]bool, dir semantic.Direction, parent symbol.ID) *fieldSet {
	fs := &fieldSet{kind: raw.Kind, byKey: map[string]semantic.Field{}}
	for _, f := range raw.Items {
		ref, ok := n.resolveTypeReference(f.Type, scope, dir, parent)
		if !ok {
			continue
		}
		fs.order = append(fs.order, f.Name)
		fs.byKey[f.Name] = semantic.Field{
			ID:          symbol.New(symbol.KindField, f.Name, 0),
			Name:        f.Name,
			Type:        ref,
			Required:    f.Required,
			Flattened:   f.Flattened,
			Description: f.Description,
		}
	}
	return fs
}

// resolveTypeReference resolves one schemair.TypeReference under scope,
// recursively resolving its arguments. ok is false when resolution failed
// and a diagnostic was already recorded.
func (n *normalizer) resolveTypeReference(ref schemair.TypeReference, scope map[string]bool, dir semantic.Direction, origin symbol.ID) (semantic.TypeRef, bool) {
	if scope[ref.Name] {
		return semantic.TypeRef{GenericParam: ref.Name}, true
	}

	var symID symbol.ID
	switch {
	case n.lookupStdlib(ref.Name, &symID):
	case n.lookupUserType(ref.Name, dir, &symID):
	default:
		n.bag.Add(diagnostic.NewAt(diagnostic.CodeUnknownType, origin, fmt.Sprintf("unknown type %q", ref.Name)))
		return semantic.TypeRef{}, false
	}

	args := make([]semantic.TypeRef, 0, len(ref.Arguments))
	ok := true
	for _, a := range ref.Arguments {
		resolved, argOK := n.resolveTypeReference(a, scope, dir, origin)
		if !argOK {
			ok = false
			continue
		}
		args = append(args, resolved)
	}
	id := symID
	return semantic.TypeRef{Symbol: &id, Arguments: args}, ok
}

func (n *normalizer) lookupStdlib(name string, out *symbol.ID) bool {
	id, ok := n.stdlibByName[name]
	if ok {
		*out = id
	}
	return ok
}

// lookupUserType resolves a raw qualified name to a declared user symbol,
// preferring a candidate whose recorded direction matches dir (or is Both)
// when the name is ambiguous across input/output typespaces.
func (n *normalizer) lookupUserType(name string, dir semantic.Direction, out *symbol.ID) bool {
	candidates := n.byOriginalName[name]
	switch len(candidates) {
	case 0:
		return false
	case 1:
		*out = candidates[0]
		return true
	default:
		for _, c := range candidates {
			dt := n.types[c]
			if dt.direction == dir || dt.direction == semantic.DirectionBoth {
				*out = c
				return true
			}
		}
		*out = candidates[0]
		return true
	}
}

// detectAliasCycles walks Alias->Alias chains (a bare reference with no
// generic arguments pointing straight at another Alias symbol) and reports
// AliasCycle if the chain exceeds aliasChainDepthCap without reaching a
// non-alias type.
func (n *normalizer) detectAliasCycles(targets map[symbol.ID]semantic.TypeRef) {
	for _, id := range n.typeIDs {
		dt := n.types[id]
		if dt.def.Kind != schemair.TypeDefAlias {
			continue
		}
		visited := map[symbol.ID]bool{id: true}
		cur := id
		for depth := 0; depth < aliasChainDepthCap; depth++ {
			ref, ok := targets[cur]
			if !ok || ref.Symbol == nil || len(ref.Arguments) > 0 {
				break
			}
			next := *ref.Symbol
			nextDT, isDeclared := n.types[next]
			if !isDeclared || nextDT.def.Kind != schemair.TypeDefAlias {
				break
			}
			if visited[next] {
				n.bag.Add(diagnostic.NewAt(diagnostic.CodeAliasCycle, id, fmt.Sprintf("alias chain starting at %q cycles back to itself", dt.qualifiedName)))
				break
			}
			visited[next] = true
			cur = next
			if depth == aliasChainDepthCap-1 {
				n.bag.Add(diagnostic.NewAt(diagnostic.CodeAliasCycle, id, fmt.Sprintf("alias chain starting at %q exceeds depth cap %d", dt.qualifiedName, aliasChainDepthCap)))
			}
		}
	}
}
