package symbol

import (
	"sort"

	"github.com/samber/lo"
)

// Info is what the table knows about a declared symbol besides its ID.
type Info struct {
	ID              ID
	QualifiedName   string // post phase-3 sanitized qualified name
	DeclarationSite string // human-readable origin, e.g. "input_types" or "output_types", for diagnostics
}

// Table is the compiler-wide symbol table: id -> info, sanitized-name ->
// id, and the direct dependency edge set used by cycle detection. A Table
// is built once during normalization and is immutable afterward; all
// reads are safe for concurrent use (spec.md §5: "only read-only access
// to the Semantic Schema by target pipelines").
type Table struct {
	symbols    map[ID]Info
	nameToID   map[string]ID
	deps       map[ID]map[ID]struct{} // direct edges only; indirected edges are tracked separately by the caller
	ordered    []ID                   // maintained sorted by Compare; rebuilt lazily
	orderDirty bool
}

// NewTable returns an empty, mutable builder. Callers finish mutating and
// then treat the Table as read-only; nothing enforces that at the type
// level, the same "not safe for concurrent use while mutating" stance
// every other builder-then-freeze type in this repo takes.
func NewTable() *Table {
	return &Table{
		symbols:  map[ID]Info{},
		nameToID: map[string]ID{},
		deps:     map[ID]map[ID]struct{}{},
	}
}

// Declare registers a new symbol. It is the caller's responsibility (the
// Normalizer's ID Assignment phase) to guarantee uniqueness; Declare
// overwrites silently so that later phases may refine Info for an ID
// minted earlier.
func (t *Table) Declare(info Info) {
	if _, exists := t.symbols[info.ID]; !exists {
		t.ordered = append(t.ordered, info.ID)
		t.orderDirty = true
	}
	t.symbols[info.ID] = info
	if info.QualifiedName != "" {
		t.nameToID[info.QualifiedName] = info.ID
	}
}

// Lookup returns the Info for an ID.
func (t *Table) Lookup(id ID) (Info, bool) {
	info, ok := t.symbols[id]
	return info, ok
}

// LookupName resolves a sanitized qualified name to its ID.
func (t *Table) LookupName(name string) (ID, bool) {
	id, ok := t.nameToID[name]
	return id, ok
}

// AddEdge records a direct dependency edge A -> B (A's field/variant
// references B without indirection).
func (t *Table) AddEdge(from, to ID) {
	m, ok := t.deps[from]
	if !ok {
		m = map[ID]struct{}{}
		t.deps[from] = m
	}
	m[to] = struct{}{}
}

// Edges returns the direct dependency set of id, in stable order.
func (t *Table) Edges(id ID) []ID {
	m := t.deps[id]
	if len(m) == 0 {
		return nil
	}
	out := lo.Keys(m)
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Ordered returns every declared ID in the total (kind, path,
// disambiguator) order — the order every map in the Semantic Schema must
// iterate in for determinism (spec.md §5).
func (t *Table) Ordered() []ID {
	if t.orderDirty {
		sort.Slice(t.ordered, func(i, j int) bool { return Less(t.ordered[i], t.ordered[j]) })
		t.orderDirty = false
	}
	out := make([]ID, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Len reports the number of declared symbols.
func (t *Table) Len() int { return len(t.symbols) }
