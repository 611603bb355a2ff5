// Package monomorphize implements the optional Monomorphizer pass
// (spec.md §4.2): given a Semantic Schema and a usage threshold T, it
// returns a new Semantic Schema in which every generic instantiation
// occurring at least T times is replaced by a freshly-synthesized
// concrete struct/enum plus repointed references, while the original
// generic definition is left in place for any instantiation that stayed
// below the threshold.
package monomorphize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

// Options configures the pass.
type Options struct {
	// Threshold is T: an instantiation occurring at least this many times
	// is monomorphized. Threshold <= 0 disables the pass entirely (the
	// returned schema is the input schema, unchanged).
	Threshold int
}

// Result is the outcome of Monomorphize.
type Result struct {
	Schema      *semantic.Schema
	Diagnostics *diagnostic.Bag
}

// instantiation is one concrete (generic_symbol, [arg_symbols]) tuple.
// Only fully-concrete argument lists are countable: an argument that is
// itself still bound to an enclosing generic parameter cannot be
// substituted into a standalone synthesized type, so such sites are
// left for a later, more specific instantiation to trigger instead.
type instantiation struct {
	generic symbol.ID
	args    []symbol.ID
}

func (i instantiation) key() string {
	parts := make([]string, len(i.args))
	for idx, a := range i.args {
		parts[idx] = a.String()
	}
	return i.generic.String() + "<" + strings.Join(parts, ",") + ">"
}

// Monomorphize runs the pass. If opts.Threshold <= 0 it is a no-op.
func Monomorphize(schema *semantic.Schema, opts Options) Result {
	bag := &diagnostic.Bag{}
	if opts.Threshold <= 0 || schema == nil {
		return Result{Schema: schema, Diagnostics: bag}
	}

	counts := map[string]*instantiation{}
	occurrences := map[string]int{}

	var walkRef func(ref *semantic.TypeRef)
	walkRef = func(ref *semantic.TypeRef) {
		if ref == nil || ref.IsGenericParam() {
			return
		}
		for i := range ref.Arguments {
			walkRef(&ref.Arguments[i])
		}
		ty, ok := schema.Types[*ref.Symbol]
		if !ok || len(ref.Arguments) == 0 {
			return
		}
		if !hasParameters(ty) {
			return
		}
		argIDs, concrete := concreteArgIDs(ref.Arguments)
		if !concrete {
			return
		}
		inst := instantiation{generic: *ref.Symbol, args: argIDs}
		k := inst.key()
		counts[k] = &inst
		occurrences[k]++
	}

	walkType := func(ty semantic.Type) {
		switch ty.Kind {
		case semantic.TypeKindStruct:
			for _, name := range ty.Struct.FieldOrder {
				f := ty.Struct.Fields[name]
				walkRef(&f.Type)
			}
		case semantic.TypeKindEnum:
			for _, v := range ty.Enum.Variants {
				for _, name := range v.FieldOrder {
					f := v.ResolvedType[name]
					walkRef(&f.Type)
				}
			}
		case semantic.TypeKindAlias:
			walkRef(&ty.Alias.Target)
		case semantic.TypeKindPrimitive:
			walkRef(ty.Primitive.Fallback)
		}
	}

	for _, id := range schema.OrderedTypeIDs() {
		walkType(schema.Types[id])
	}
	for _, id := range schema.OrderedFunctionIDs() {
		fn := schema.Functions[id]
		walkRef(fn.InputType)
		walkRef(fn.InputHeaders)
		walkRef(fn.OutputType)
		walkRef(fn.ErrorType)
	}

	winningKeys := lo.Filter(lo.Keys(occurrences), func(k string, _ int) bool {
		return occurrences[k] >= opts.Threshold
	})
	sort.Strings(winningKeys)

	if len(winningKeys) == 0 {
		return Result{Schema: schema, Diagnostics: bag}
	}

	newTable := cloneTable(schema.Symbols)
	newTypes := make(map[symbol.ID]semantic.Type, len(schema.Types))
	for id, ty := range schema.Types {
		newTypes[id] = ty
	}
	newFunctions := make(map[symbol.ID]semantic.Function, len(schema.Functions))
	for id, fn := range schema.Functions {
		newFunctions[id] = fn
	}

	winners := map[string]symbol.ID{} // instantiation key -> synthesized SymbolId
	for _, k := range winningKeys {
		inst := counts[k]
		newID, newType := synthesize(schema, newTable, *inst, occurrences[k], bag)
		newTypes[newID] = newType
		winners[k] = newID
	}

	rewrite := func(ref *semantic.TypeRef) semantic.TypeRef {
		return rewriteRef(*ref, winners)
	}
	rewriteOpt := func(ref *semantic.TypeRef) *semantic.TypeRef {
		if ref == nil {
			return nil
		}
		r := rewrite(ref)
		return &r
	}

	for id, ty := range newTypes {
		newTypes[id] = rewriteType(ty, winners)
	}
	for id, fn := range newFunctions {
		fn.InputType = rewriteOpt(fn.InputType)
		fn.InputHeaders = rewriteOpt(fn.InputHeaders)
		fn.OutputType = rewriteOpt(fn.OutputType)
		fn.ErrorType = rewriteOpt(fn.ErrorType)
		newFunctions[id] = fn
	}

	out := &semantic.Schema{
		ID:          schema.ID,
		Name:        schema.Name,
		Description: schema.Description,
		Types:       newTypes,
		Functions:   newFunctions,
		Symbols:     newTable,
	}

	return Result{Schema: out, Diagnostics: bag}
}

func hasParameters(ty semantic.Type) bool {
	switch ty.Kind {
	case semantic.TypeKindStruct:
		return len(ty.Struct.Parameters) > 0
	case semantic.TypeKindEnum:
		return len(ty.Enum.Parameters) > 0
	default:
		return false
	}
}

func parametersOf(ty semantic.Type) []string {
	switch ty.Kind {
	case semantic.TypeKindStruct:
		return ty.Struct.Parameters
	case semantic.TypeKindEnum:
		return ty.Enum.Parameters
	default:
		return nil
	}
}

func concreteArgIDs(args []semantic.TypeRef) ([]symbol.ID, bool) {
	out := make([]symbol.ID, len(args))
	for i, a := range args {
		if a.IsGenericParam() {
			return nil, false
		}
		out[i] = *a.Symbol
	}
	return out, true
}

// synthesize builds the monomorphized concrete Type for inst by
// substituting the generic's type parameters with the concrete argument
// references throughout its field/variant shape, and mints its SymbolId
// as original_path ++ "For" ++ arg_suffix (spec.md §4.2).
func synthesize(schema *semantic.Schema, table *symbol.Table, inst instantiation, occurrences int, bag *diagnostic.Bag) (symbol.ID, semantic.Type) {
	original := schema.Types[inst.generic]
	params := parametersOf(original)

	paramIndex := make(map[string]int, len(params))
	for i, p := range params {
		paramIndex[p] = i
	}
	args := make([]semantic.TypeRef, len(inst.args))
	for i, id := range inst.args {
		id := id
		args[i] = semantic.TypeRef{Symbol: &id}
	}

	var argSuffix strings.Builder
	for _, argID := range inst.args {
		info, _ := table.Lookup(argID)
		argSuffix.WriteString("For")
		argSuffix.WriteString(lastSegment(info.QualifiedName))
	}

	originalInfo, _ := table.Lookup(inst.generic)
	baseQualifiedName := originalInfo.QualifiedName + argSuffix.String()

	newPath := append(append([]string{}, inst.generic.Path...), argSuffix.String())
	newID := symbol.ID{Kind: inst.generic.Kind, Path: newPath, Disambiguator: 0}
	qualifiedName := baseQualifiedName
	suffix := 2
	for {
		_, taken := table.LookupName(qualifiedName)
		if !taken {
			break
		}
		newID.Disambiguator++
		qualifiedName = fmt.Sprintf("%s_%d", baseQualifiedName, suffix)
		suffix++
	}

	table.Declare(symbol.Info{ID: newID, QualifiedName: qualifiedName, DeclarationSite: "monomorphize"})
	for _, dep := range table.Edges(inst.generic) {
		table.AddEdge(newID, dep)
	}

	bag.Add(diagnostic.NewAt(diagnostic.CodeMonomorphizedInstantiation, newID,
		fmt.Sprintf("%q monomorphized from %q with %d occurrences", qualifiedName, originalInfo.QualifiedName, occurrences)))

	switch original.Kind {
	case semantic.TypeKindStruct:
		s := *original.Struct
		s.ID = newID
		s.Name = qualifiedName
		s.Parameters = nil
		s.Fields = substituteFields(s.Fields, paramIndex, args)
		return newID, semantic.Type{ID: newID, Kind: semantic.TypeKindStruct, Struct: &s}
	case semantic.TypeKindEnum:
		e := *original.Enum
		e.ID = newID
		e.Name = qualifiedName
		e.Parameters = nil
		e.Variants = substituteVariants(e.Variants, paramIndex, args)
		return newID, semantic.Type{ID: newID, Kind: semantic.TypeKindEnum, Enum: &e}
	default:
		// Only Struct/Enum declare type parameters (hasParameters), so this
		// branch is unreachable in practice; fall back to the original
		// shape rather than panic.
		return newID, original
	}
}

func substituteFields(fields map[string]semantic.Field, paramIndex map[string]int, args []semantic.TypeRef) map[string]semantic.Field {
	out := make(map[string]semantic.Field, len(fields))
	for name, f := range fields {
		f.Type = substitute(f.Type, paramIndex, args)
		out[name] = f
	}
	return out
}

func substituteVariants(variants []semantic.Variant, paramIndex map[string]int, args []semantic.TypeRef) []semantic.Variant {
	out := make([]semantic.Variant, len(variants))
	for i, v := range variants {
		v.ResolvedType = substituteFields(v.ResolvedType, paramIndex, args)
		out[i] = v
	}
	return out
}

func substitute(ref semantic.TypeRef, paramIndex map[string]int, args []semantic.TypeRef) semantic.TypeRef {
	if ref.IsGenericParam() {
		if idx, ok := paramIndex[ref.GenericParam]; ok {
			return args[idx]
		}
		return ref
	}
	if len(ref.Arguments) == 0 {
		return ref
	}
	newArgs := make([]semantic.TypeRef, len(ref.Arguments))
	for i, a := range ref.Arguments {
		newArgs[i] = substitute(a, paramIndex, args)
	}
	return semantic.TypeRef{Symbol: ref.Symbol, Arguments: newArgs}
}

// rewriteRef repoints ref at its monomorphized concrete symbol if ref's
// own (symbol, args) tuple is a winning instantiation; otherwise it
// recurses into ref's arguments so a winning instantiation nested inside
// a non-winning one is still repointed.
func rewriteRef(ref semantic.TypeRef, winners map[string]symbol.ID) semantic.TypeRef {
	if ref.IsGenericParam() {
		return ref
	}
	if len(ref.Arguments) > 0 {
		if argIDs, ok := concreteArgIDs(ref.Arguments); ok {
			inst := instantiation{generic: *ref.Symbol, args: argIDs}
			if newID, ok := winners[inst.key()]; ok {
				return semantic.TypeRef{Symbol: &newID}
			}
		}
	}
	if len(ref.Arguments) == 0 {
		return ref
	}
	newArgs := make([]semantic.TypeRef, len(ref.Arguments))
	for i, a := range ref.Arguments {
		newArgs[i] = rewriteRef(a, winners)
	}
	return semantic.TypeRef{Symbol: ref.Symbol, Arguments: newArgs}
}

func rewriteType(ty semantic.Type, winners map[string]symbol.ID) semantic.Type {
	switch ty.Kind {
	case semantic.TypeKindStruct:
		s := *ty.Struct
		s.Fields = rewriteFields(s.Fields, winners)
		ty.Struct = &s
	case semantic.TypeKindEnum:
		e := *ty.Enum
		e.Variants = rewriteVariants(e.Variants, winners)
		ty.Enum = &e
	case semantic.TypeKindAlias:
		a := *ty.Alias
		a.Target = rewriteRef(a.Target, winners)
		ty.Alias = &a
	case semantic.TypeKindPrimitive:
		if ty.Primitive.Fallback != nil {
			p := *ty.Primitive
			fb := rewriteRef(*p.Fallback, winners)
			p.Fallback = &fb
			ty.Primitive = &p
		}
	}
	return ty
}

func rewriteFields(fields map[string]semantic.Field, winners map[string]symbol.ID) map[string]semantic.Field {
	out := make(map[string]semantic.Field, len(fields))
	for name, f := range fields {
		f.Type = rewriteRef(f.Type, winners)
		out[name] = f
	}
	return out
}

func rewriteVariants(variants []semantic.Variant, winners map[string]symbol.ID) []semantic.Variant {
	out := make([]semantic.Variant, len(variants))
	for i, v := range variants {
		v.ResolvedType = rewriteFields(v.ResolvedType, winners)
		out[i] = v
	}
	return out
}

func lastSegment(qualifiedName string) string {
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		return qualifiedName[i+1:]
	}
	return qualifiedName
}

// cloneTable copies every declared symbol and dependency edge of src into
// a fresh, independently-mutable Table: the Monomorphizer mints new
// symbols and must not mutate the Normalizer's table in place (spec.md
// §3.4: "Semantic Schema is constructed once and not mutated; optional
// passes produce a new Semantic Schema").
func cloneTable(src *symbol.Table) *symbol.Table {
	dst := symbol.NewTable()
	if src == nil {
		return dst
	}
	ids := src.Ordered()
	for _, id := range ids {
		info, _ := src.Lookup(id)
		dst.Declare(info)
	}
	for _, id := range ids {
		for _, dep := range src.Edges(id) {
			dst.AddEdge(id, dep)
		}
	}
	return dst
}
