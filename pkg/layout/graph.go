package layout

import (
	"slices"

	"github.com/matzehuels/famtree/pkg/family"
)

// Graph is the undirected-plus-directed adjacency view of a project used by
// the layout passes. Every adjacency list is deduplicated and ordered by
// person insertion order, so all traversals are deterministic.
type Graph struct {
	ids   []string
	index map[string]int

	children map[string][]string // parent -> children
	parents  map[string][]string // child -> parents
	spouses  map[string][]string
}

// BuildGraph indexes persons and relations. Persons keep the order of ids;
// a repeated id keeps its first position. Relations that are self-loops,
// have an unknown type or name an unknown person are ignored.
func BuildGraph(ids []string, relations []family.Relation) *Graph {
	g := &Graph{
		index:    make(map[string]int, len(ids)),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
		spouses:  make(map[string][]string),
	}
	for _, id := range ids {
		if _, dup := g.index[id]; dup {
			continue
		}
		g.index[id] = len(g.ids)
		g.ids = append(g.ids, id)
	}

	for _, r := range relations {
		if r.AID == r.BID || !g.Has(r.AID) || !g.Has(r.BID) {
			continue
		}
		switch r.Type {
		case family.ParentChild:
			g.children[r.AID] = append(g.children[r.AID], r.BID)
			g.parents[r.BID] = append(g.parents[r.BID], r.AID)
		case family.Spouse:
			g.spouses[r.AID] = append(g.spouses[r.AID], r.BID)
			g.spouses[r.BID] = append(g.spouses[r.BID], r.AID)
		}
	}

	for _, adj := range []map[string][]string{g.children, g.parents, g.spouses} {
		for id, list := range adj {
			adj[id] = g.normalize(list)
		}
	}
	return g
}

// normalize sorts by insertion order and drops duplicates.
func (g *Graph) normalize(list []string) []string {
	slices.SortFunc(list, func(a, b string) int { return g.index[a] - g.index[b] })
	return slices.Compact(list)
}

// IDs returns person ids in insertion order.
func (g *Graph) IDs() []string { return g.ids }

// Len returns the number of persons.
func (g *Graph) Len() int { return len(g.ids) }

// Has reports whether id is a known person.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Index returns the insertion position of id, or -1.
func (g *Graph) Index(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Children returns the children of id.
func (g *Graph) Children(id string) []string { return g.children[id] }

// Parents returns the parents of id.
func (g *Graph) Parents(id string) []string { return g.parents[id] }

// Spouses returns the spouses of id.
func (g *Graph) Spouses(id string) []string { return g.spouses[id] }

// Neighbors returns every person directly related to id, in insertion order.
func (g *Graph) Neighbors(id string) []string {
	out := make([]string, 0, len(g.children[id])+len(g.parents[id])+len(g.spouses[id]))
	out = append(out, g.parents[id]...)
	out = append(out, g.children[id]...)
	out = append(out, g.spouses[id]...)
	return g.normalize(out)
}

// HasRelations reports whether id takes part in any relation.
func (g *Graph) HasRelations(id string) bool {
	return len(g.children[id]) > 0 || len(g.parents[id]) > 0 || len(g.spouses[id]) > 0
}
