package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openbindings/schemac/diagnostic"
	"github.com/openbindings/schemac/schemair"
	"github.com/openbindings/schemac/semantic"
	"github.com/openbindings/schemac/symbol"
)

// analyzeDependencies implements phase 5: build the direct-edge type
// dependency graph and run Tarjan's SCC algorithm to find cycles. Edges
// reached through an indirection wrapper (Option/Vec/Map/Set/Box-like) are
// not direct and do not contribute to cycle detection (spec.md §4.1 phase
// 5, §9 "Cyclic graphs"). No example repo in the retrieval pack implements
// Tarjan's algorithm or a topological sort (searched for
// "Tarjan|topological|topoSort|SCC" across other_examples/); this is
// hand-written standard graph-algorithm code rather than adapted from a
// library, since spec.md names the algorithm explicitly and nothing in the
// corpus provides it.
func (n *normalizer) analyzeDependencies(fields map[symbol.ID]*fieldSet, variants map[symbol.ID][]semantic.Variant, targets map[symbol.ID]semantic.TypeRef) {
	for _, id := range n.typeIDs {
		dt := n.types[id]
		switch dt.def.Kind {
		case schemair.TypeDefStruct:
			if fs, ok := fields[id]; ok {
				for _, name := range fs.order {
					n.addEdgeForRef(id, fs.byKey[name].Type)
				}
			}
		case schemair.TypeDefEnum:
			for _, v := range variants[id] {
				for _, name := range v.FieldOrder {
					n.addEdgeForRef(id, v.ResolvedType[name].Type)
				}
			}
		case schemair.TypeDefAlias:
			if ref, ok := targets[id]; ok {
				n.addEdgeForRef(id, ref)
			}
		}
	}

	n.runTarjan()
}

func (n *normalizer) addEdgeForRef(from symbol.ID, ref semantic.TypeRef) {
	if ref.Symbol == nil {
		return
	}
	if n.wrapperIDs[*ref.Symbol] {
		return
	}
	to := *ref.Symbol
	if _, declared := n.types[to]; !declared {
		return
	}
	n.table.AddEdge(from, to)
}

type tarjanState struct {
	index    map[symbol.ID]int
	lowlink  map[symbol.ID]int
	onStack  map[symbol.ID]bool
	stack    []symbol.ID
	counter  int
	sccs     [][]symbol.ID
}

func (n *normalizer) runTarjan() {
	ids := make([]symbol.ID, len(n.typeIDs))
	copy(ids, n.typeIDs)
	sort.Slice(ids, func(i, j int) bool { return symbol.Less(ids[i], ids[j]) })

	st := &tarjanState{
		index:   map[symbol.ID]int{},
		lowlink: map[symbol.ID]int{},
		onStack: map[symbol.ID]bool{},
	}

	for _, id := range ids {
		if _, visited := st.index[id]; !visited {
			n.tarjanVisit(id, st)
		}
	}

	for _, scc := range st.sccs {
		sort.Slice(scc, func(i, j int) bool { return symbol.Less(scc[i], scc[j]) })
		isCycle := len(scc) >= 2
		if len(scc) == 1 {
			for _, e := range n.table.Edges(scc[0]) {
				if e == scc[0] {
					isCycle = true
					break
				}
			}
		}
		if !isCycle {
			continue
		}
		names := make([]string, len(scc))
		for i, id := range scc {
			names[i] = n.types[id].qualifiedName
		}
		n.bag.Add(diagnostic.NewAt(diagnostic.CodeCircularDependency, scc[0],
			fmt.Sprintf("circular dependency: %s", strings.Join(names, " -> "))))
	}
}

func (n *normalizer) tarjanVisit(v symbol.ID, st *tarjanState) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, w := range n.table.Edges(v) {
		if _, visited := st.index[w]; !visited {
			n.tarjanVisit(w, st)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.lowlink[v] {
				st.lowlink[v] = st.index[w]
			}
		}
	}

	if st.lowlink[v] == st.index[v] {
		var scc []symbol.ID
		for {
			top := len(st.stack) - 1
			w := st.stack[top]
			st.stack = st.stack[:top]
			st.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		st.sccs = append(st.sccs, scc)
	}
}
