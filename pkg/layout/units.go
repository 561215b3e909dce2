package layout

// Unit is a family unit: a person plus the spouses drawn beside them, and
// the units of their children. Units form a tree; each person belongs to at
// most one unit per layout pass.
type Unit struct {
	Members  []string // first member is the person the unit grew from
	Width    float64
	Children []*Unit
}

// BuildUnit grows the unit tree rooted at root. Every person placed is
// recorded in claimed, which must be shared by all calls of one layout pass:
// a person already claimed is never placed again, so a person reachable
// along several paths is drawn once (first claim wins) and the recursion
// terminates even on cyclic input.
//
// Members are root followed by its unclaimed spouses. Children are the
// unclaimed children of any member, in member then insertion order.
func BuildUnit(g *Graph, root string, claimed map[string]bool, cfg Config) *Unit {
	claimed[root] = true
	members := []string{root}
	for _, s := range g.Spouses(root) {
		if !claimed[s] {
			claimed[s] = true
			members = append(members, s)
		}
	}

	u := &Unit{Members: members, Width: cfg.UnitWidth(len(members))}

	var kids []string
	queued := make(map[string]bool)
	for _, m := range members {
		for _, c := range g.Children(m) {
			if !claimed[c] && !queued[c] {
				queued[c] = true
				kids = append(kids, c)
			}
		}
	}
	for _, c := range kids {
		// An earlier sibling's subtree may have claimed c as a spouse.
		if claimed[c] {
			continue
		}
		u.Children = append(u.Children, BuildUnit(g, c, claimed, cfg))
	}
	return u
}

// Walk calls fn for u and every descendant unit in pre-order, passing each
// unit's generation depth relative to u.
func (u *Unit) Walk(fn func(u *Unit, depth int)) {
	var walk func(*Unit, int)
	walk = func(n *Unit, d int) {
		fn(n, d)
		for _, c := range n.Children {
			walk(c, d+1)
		}
	}
	walk(u, 0)
}

// People returns every member of u and its descendants in pre-order.
func (u *Unit) People() []string {
	var out []string
	u.Walk(func(n *Unit, _ int) {
		out = append(out, n.Members...)
	})
	return out
}
