// Package normalize implements the Normalizer: the multi-phase pipeline
// that turns a raw Schema IR into a canonical, validated Semantic Schema
// (spec.md §4.1). Phases run in order; each consumes the previous phase's
// output. The pipeline short-circuits after a phase that produced a fatal
// diagnostic.
package normalize

import (
	"fmt"
	"sort"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

// Options configures the Normalizer.
type Options struct {
	// RequireSchemaVersion makes a missing schemaVersion fatal. By default
	// an empty schemaVersion is tolerated (forward compatibility with
	// reflectors that predate the field).
	RequireSchemaVersion bool
}

// Result is the outcome of Normalize: a Semantic Schema (nil on fatal
// failure) plus every diagnostic collected across every phase that ran.
type Result struct {
	Schema      *semantic.Schema
	Diagnostics *diagnostic.Bag
}

// declaredType is the Normalizer's working record for one Struct, Enum,
// Alias, or Primitive between ID assignment and IR construction.
type declaredType struct {
	id            symbol.ID
	def           schemair.TypeDef
	direction     semantic.Direction
	qualifiedName string
}

type normalizer struct {
	opts  Options
	bag   *diagnostic.Bag
	table *symbol.Table

	stdlibByName map[string]symbol.ID
	stdlibIDs    map[symbol.ID]bool
	wrapperIDs   map[symbol.ID]bool

	types   map[symbol.ID]*declaredType
	typeIDs []symbol.ID // declaration order, for deterministic iteration before sorting is needed

	// byOriginalName maps a TypeReference's raw qualified name to every
	// declared candidate symbol sharing that name (almost always one).
	byOriginalName map[string][]symbol.ID
}

// Normalize runs every Normalizer phase over schema and returns the
// resulting Semantic Schema, or a nil Schema with fatal diagnostics set.
func Normalize(schema schemair.Schema, opts Options) Result {
	n := &normalizer{
		opts:           opts,
		bag:            &diagnostic.Bag{},
		table:          symbol.NewTable(),
		types:          map[symbol.ID]*declaredType{},
		byOriginalName: map[string][]symbol.ID{},
	}

	// Phase 0: Version Gate.
	if !n.versionGate(schema) {
		return Result{Schema: nil, Diagnostics: n.bag}
	}

	n.stdlibByName = preregisterStdlib(n.table)
	n.stdlibIDs = map[symbol.ID]bool{}
	n.wrapperIDs = map[symbol.ID]bool{}
	for name, id := range n.stdlibByName {
		n.stdlibIDs[id] = true
		if indirectionWrappers[name] {
			n.wrapperIDs[id] = true
		}
	}

	// Phases 1+2: ID Assignment and Typespace Consolidation run together:
	// the same-qualified-name collision check that assigns disambiguators
	// (phase 1) is exactly the structural-equivalence check that decides
	// whether an input/output pair merges into one direction="both" symbol
	// or splits into two (phase 2).
	n.assignAndConsolidate(schema)
	if n.bag.HasFatal() {
		return Result{Schema: nil, Diagnostics: n.bag}
	}

	// Phase 3: Naming Resolution.
	n.resolveNames()
	if n.bag.HasFatal() {
		return Result{Schema: nil, Diagnostics: n.bag}
	}

	// Phase 4: Type Resolution & Generic Scoping.
	resolvedFields, resolvedVariants, resolvedTargets, resolvedFallbacks := n.resolveAllReferences()
	if n.bag.HasFatal() {
		return Result{Schema: nil, Diagnostics: n.bag}
	}

	// Phase 5: Dependency Analysis.
	n.analyzeDependencies(resolvedFields, resolvedVariants, resolvedTargets)
	if n.bag.HasFatal() {
		return Result{Schema: nil, Diagnostics: n.bag}
	}

	// Phase 6: Semantic Validation.
	n.validateSemantics(resolvedFields, resolvedVariants, resolvedFallbacks)
	if n.bag.HasFatal() {
		return Result{Schema: nil, Diagnostics: n.bag}
	}

	// Phase 7: IR Construction.
	sem := n.construct(schema, resolvedFields, resolvedVariants, resolvedTargets, resolvedFallbacks)
	return Result{Schema: sem, Diagnostics: n.bag}
}

func (n *normalizer) versionGate(schema schemair.Schema) bool {
	if schema.SchemaVersion == "" {
		if n.opts.RequireSchemaVersion {
			n.bag.Add(diagnostic.NewAtPath(diagnostic.CodeUnsupportedSchemaVersion, schema.Name, "schemaVersion is required but absent"))
			return false
		}
		return true
	}
	ok, err := schemair.IsSupportedVersion(schema.SchemaVersion)
	if err != nil {
		n.bag.Add(diagnostic.NewAtPath(diagnostic.CodeUnsupportedSchemaVersion, schema.Name, fmt.Sprintf("invalid schemaVersion %q: %v", schema.SchemaVersion, err)))
		return false
	}
	if !ok {
		min, max := schemair.SupportedRange()
		n.bag.Add(diagnostic.NewAtPath(diagnostic.CodeUnsupportedSchemaVersion, schema.Name,
			fmt.Sprintf("schemaVersion %q outside supported range %s-%s", schema.SchemaVersion, min, max)))
		return false
	}
	return true
}

func symbolKindOf(kind schemair.TypeDefKind) symbol.Kind {
	switch kind {
	case schemair.TypeDefStruct:
		return symbol.KindStruct
	case schemair.TypeDefEnum:
		return symbol.KindEnum
	case schemair.TypeDefAlias:
		return symbol.KindTypeAlias
	case schemair.TypeDefPrimitive:
		return symbol.KindPrimitive
	default:
		return symbol.KindStruct
	}
}

// assignAndConsolidate implements phases 1 and 2 together.
func (n *normalizer) assignAndConsolidate(schema schemair.Schema) {
	// representative tracks, per (kind,qualifiedName), the disambiguator-0
	// declaration seen so far, used to decide merge-vs-split when the same
	// name recurs (within a typespace, or across input/output typespaces).
	representative := map[string]*declaredType{}
	nextDisambiguator := map[string]uint32{}

	assign := func(td schemair.TypeDef, dir semantic.Direction) {
		kind := symbolKindOf(td.Kind)
		qname := td.Name()
		key := kind.String() + "|" + qname

		if existing, ok := representative[key]; ok {
			newFP, errNew := fingerprint(td)
			oldFP, errOld := fingerprint(existing.def)
			if errNew == nil && errOld == nil && newFP == oldFP {
				if existing.direction != dir {
					existing.direction = semantic.DirectionBoth
				} else {
					n.bag.Add(diagnostic.NewAt(diagnostic.CodeRedundantDefinition, existing.id,
						fmt.Sprintf("%q declared more than once with identical structure", qname)))
				}
				return
			}
		}

		disambig := nextDisambiguator[key]
		nextDisambiguator[key] = disambig + 1
		id := symbol.New(kind, qname, disambig)
		dt := &declaredType{id: id, def: td, direction: dir, qualifiedName: qname}
		n.types[id] = dt
		n.typeIDs = append(n.typeIDs, id)
		n.byOriginalName[qname] = append(n.byOriginalName[qname], id)
		if disambig == 0 {
			representative[key] = dt
		}
	}

	for _, td := range schema.InputTypes.Types {
		assign(td, semantic.DirectionInput)
	}
	for _, td := range schema.OutputTypes.Types {
		assign(td, semantic.DirectionOutput)
	}

	for _, id := range n.typeIDs {
		dt := n.types[id]
		n.table.Declare(symbol.Info{ID: id, DeclarationSite: string(dt.direction)})
	}
}

// resolveNames implements phase 3: sanitize every declared type's
// qualified name and resolve sanitized-name collisions by escalating a
// numeric suffix, in stable SymbolId order.
func (n *normalizer) resolveNames() {
	ids := make([]symbol.ID, len(n.typeIDs))
	copy(ids, n.typeIDs)
	sort.Slice(ids, func(i, j int) bool { return symbol.Less(ids[i], ids[j]) })

	used := map[string]symbol.ID{}
	for _, id := range ids {
		dt := n.types[id]
		base := sanitizeQualifiedName(dt.qualifiedName)
		name := base
		suffix := 2
		for {
			owner, taken := used[name]
			if !taken || owner == id {
				break
			}
			name = fmt.Sprintf("%s_%d", base, suffix)
			suffix++
		}
		used[name] = id
		info, _ := n.table.Lookup(id)
		info.QualifiedName = name
		n.table.Declare(info)
	}
}
