package layout

import "slices"

// Components partitions persons into connected components, treating every
// relation as undirected. Members of each component are in insertion order;
// components are ordered by descending size, ties by first appearance.
func (g *Graph) Components() [][]string {
	visited := make(map[string]bool, len(g.ids))
	var comps [][]string

	for _, start := range g.ids {
		if visited[start] {
			continue
		}
		visited[start] = true
		comp := []string{start}
		queue := []string{start}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, n := range g.Neighbors(id) {
				if !visited[n] {
					visited[n] = true
					comp = append(comp, n)
					queue = append(queue, n)
				}
			}
		}
		slices.SortFunc(comp, func(a, b string) int { return g.index[a] - g.index[b] })
		comps = append(comps, comp)
	}

	slices.SortStableFunc(comps, func(a, b []string) int { return len(b) - len(a) })
	return comps
}

// TrueRoots selects the persons a component's trees are grown from: persons
// with no parent in the component whose spouses also have none there. Once a
// root is chosen its spouses are not chosen again, so a couple yields a
// single root (the one appearing first).
//
// A component made only of cycles has no true root and yields nil.
func (g *Graph) TrueRoots(component []string) []string {
	in := make(map[string]bool, len(component))
	for _, id := range component {
		in[id] = true
	}
	hasParentIn := func(id string) bool {
		for _, p := range g.parents[id] {
			if in[p] {
				return true
			}
		}
		return false
	}

	seen := make(map[string]bool)
	var roots []string
	for _, id := range component {
		if seen[id] || hasParentIn(id) {
			continue
		}
		marriedIn := false
		for _, s := range g.spouses[id] {
			if in[s] && hasParentIn(s) {
				marriedIn = true
				break
			}
		}
		if marriedIn {
			continue
		}
		roots = append(roots, id)
		seen[id] = true
		for _, s := range g.spouses[id] {
			seen[s] = true
		}
	}
	return roots
}
