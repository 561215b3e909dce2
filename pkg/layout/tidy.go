package layout

// Placement is the local position of one person produced by Position.
// X is the person's centre; Y is Depth·VGap. Coordinates are relative to the
// forest being positioned and may be negative.
type Placement struct {
	ID    string
	X, Y  float64
	Depth int
	Unit  *Unit
}

// noNode marks an absent arena link.
const noNode = -1

// treeNode is the per-unit state of the tidy-tree passes. Links to other
// nodes are arena indices so threads and ancestor pointers need no
// ownership bookkeeping.
type treeNode struct {
	unit     *Unit // nil for the virtual forest root
	parent   int
	children []int
	number   int // index among siblings
	depth    int

	prelim float64
	mod    float64
	shift  float64
	change float64
	x      float64

	thread   int
	ancestor int
}

// positioner runs Walker's algorithm in its linear-time form (Buchheim,
// Jünger and Leipert) with unit widths in place of fixed node sizes.
type positioner struct {
	nodes []treeNode
	hGap  float64
}

// Position lays out a forest of unit trees. The roots are placed side by
// side at depth 0 as if they were children of one invisible unit, so
// subtrees of different roots are packed against each other by contour just
// like siblings. Placements are returned in pre-order, members left to
// right.
func Position(roots []*Unit, cfg Config) []Placement {
	if len(roots) == 0 {
		return nil
	}
	p := &positioner{hGap: cfg.HGap}
	root := p.add(&Unit{Children: roots}, noNode, 0, -1)
	p.nodes[root].unit = nil

	p.firstWalk(root)
	p.secondWalk(root, -p.nodes[root].prelim)

	var out []Placement
	for i := range p.nodes {
		n := &p.nodes[i]
		if n.unit == nil {
			continue
		}
		left := n.x - n.unit.Width/2 + cfg.NodeWidth/2
		for j, id := range n.unit.Members {
			out = append(out, Placement{
				ID:    id,
				X:     left + float64(j)*cfg.MemberStride(),
				Y:     float64(n.depth) * cfg.VGap,
				Depth: n.depth,
				Unit:  n.unit,
			})
		}
	}
	return out
}

// add appends u and its descendants to the arena in pre-order.
func (p *positioner) add(u *Unit, parent, number, depth int) int {
	idx := len(p.nodes)
	p.nodes = append(p.nodes, treeNode{
		unit:     u,
		parent:   parent,
		number:   number,
		depth:    depth,
		thread:   noNode,
		ancestor: idx,
	})
	children := make([]int, 0, len(u.Children))
	for i, c := range u.Children {
		children = append(children, p.add(c, idx, i, depth+1))
	}
	p.nodes[idx].children = children
	return idx
}

func (p *positioner) width(v int) float64 {
	if u := p.nodes[v].unit; u != nil {
		return u.Width
	}
	return 0
}

// distance is the minimum centre-to-centre separation of two neighbouring
// units on the same level.
func (p *positioner) distance(a, b int) float64 {
	return p.width(a)/2 + p.hGap + p.width(b)/2
}

func (p *positioner) leftSibling(v int) int {
	n := &p.nodes[v]
	if n.parent == noNode || n.number == 0 {
		return noNode
	}
	return p.nodes[n.parent].children[n.number-1]
}

func (p *positioner) leftmostSibling(v int) int {
	n := &p.nodes[v]
	if n.parent == noNode {
		return noNode
	}
	return p.nodes[n.parent].children[0]
}

// nextLeft follows the left contour: first child, else thread.
func (p *positioner) nextLeft(v int) int {
	if c := p.nodes[v].children; len(c) > 0 {
		return c[0]
	}
	return p.nodes[v].thread
}

// nextRight follows the right contour: last child, else thread.
func (p *positioner) nextRight(v int) int {
	if c := p.nodes[v].children; len(c) > 0 {
		return c[len(c)-1]
	}
	return p.nodes[v].thread
}

func (p *positioner) firstWalk(v int) {
	n := &p.nodes[v]
	w := p.leftSibling(v)

	if len(n.children) == 0 {
		if w != noNode {
			n.prelim = p.nodes[w].prelim + p.distance(w, v)
		}
		return
	}

	defaultAncestor := n.children[0]
	for _, c := range n.children {
		p.firstWalk(c)
		defaultAncestor = p.apportion(c, defaultAncestor)
	}
	p.executeShifts(v)

	first, last := n.children[0], n.children[len(n.children)-1]
	mid := (p.nodes[first].prelim + p.nodes[last].prelim) / 2
	if w != noNode {
		n.prelim = p.nodes[w].prelim + p.distance(w, v)
		n.mod = n.prelim - mid
	} else {
		n.prelim = mid
	}
}

// apportion pushes the subtree of v right until its left contour clears the
// right contour of every subtree to its left, then threads the shallower
// side's contour onto the deeper one.
func (p *positioner) apportion(v, defaultAncestor int) int {
	w := p.leftSibling(v)
	if w == noNode {
		return defaultAncestor
	}
	nodes := p.nodes

	// i: inner, o: outer; p: right (plus) side, m: left (minus) side.
	vip, vop := v, v
	vim, vom := w, p.leftmostSibling(v)
	sip, sop := nodes[vip].mod, nodes[vop].mod
	sim, som := nodes[vim].mod, nodes[vom].mod

	for p.nextRight(vim) != noNode && p.nextLeft(vip) != noNode {
		vim = p.nextRight(vim)
		vip = p.nextLeft(vip)
		vom = p.nextLeft(vom)
		vop = p.nextRight(vop)
		nodes[vop].ancestor = v

		shift := (nodes[vim].prelim + sim) - (nodes[vip].prelim + sip) + p.distance(vim, vip)
		if shift > 0 {
			p.moveSubtree(p.ancestorOf(vim, v, defaultAncestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += nodes[vim].mod
		sip += nodes[vip].mod
		som += nodes[vom].mod
		sop += nodes[vop].mod
	}

	if r := p.nextRight(vim); r != noNode && p.nextRight(vop) == noNode {
		nodes[vop].thread = r
		nodes[vop].mod += sim - sop
	}
	if l := p.nextLeft(vip); l != noNode && p.nextLeft(vom) == noNode {
		nodes[vom].thread = l
		nodes[vom].mod += sip - som
		defaultAncestor = v
	}
	return defaultAncestor
}

// ancestorOf returns the sibling of v whose subtree contains vim, falling
// back to defaultAncestor when vim's recorded ancestor is stale.
func (p *positioner) ancestorOf(vim, v, defaultAncestor int) int {
	a := p.nodes[vim].ancestor
	if p.nodes[a].parent == p.nodes[v].parent {
		return a
	}
	return defaultAncestor
}

// moveSubtree shifts wp right and records the shift so executeShifts can
// spread it over the siblings between wm and wp.
func (p *positioner) moveSubtree(wm, wp int, shift float64) {
	subtrees := float64(p.nodes[wp].number - p.nodes[wm].number)
	p.nodes[wp].change -= shift / subtrees
	p.nodes[wp].shift += shift
	p.nodes[wm].change += shift / subtrees
	p.nodes[wp].prelim += shift
	p.nodes[wp].mod += shift
}

func (p *positioner) executeShifts(v int) {
	var shift, change float64
	children := p.nodes[v].children
	for i := len(children) - 1; i >= 0; i-- {
		w := &p.nodes[children[i]]
		w.prelim += shift
		w.mod += shift
		change += w.change
		shift += w.shift + change
	}
}

func (p *positioner) secondWalk(v int, m float64) {
	n := &p.nodes[v]
	n.x = n.prelim + m
	for _, c := range n.children {
		p.secondWalk(c, m+n.mod)
	}
}
