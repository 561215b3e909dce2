package svg

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/famtree/pkg/family"
)

// edge is one connector ready to draw.
type edge struct {
	ID     string // relation id; empty for routed child connectors
	Spouse bool
	D      string // SVG path data
}

func (d *drawing) edges(style EdgeStyle) []edge {
	if style == EdgeOrthogonal {
		return d.orthogonalEdges()
	}
	return d.curvedEdges()
}

func (d *drawing) curvedEdges() []edge {
	out := make([]edge, 0, len(d.relations))
	for _, r := range d.relations {
		a, b := d.byID[r.AID], d.byID[r.BID]
		if r.Type == family.Spouse {
			out = append(out, edge{ID: r.ID, Spouse: true, D: spouseCurve(a, b)})
			continue
		}
		c1 := a.Y + (b.Y-a.Y)*0.4
		c2 := a.Y + (b.Y-a.Y)*0.6
		out = append(out, edge{ID: r.ID, D: fmt.Sprintf("M %s %s C %s %s %s %s %s %s",
			num(a.X), num(a.Y), num(a.X), num(c1), num(b.X), num(c2), num(b.X), num(b.Y))})
	}
	return out
}

func spouseCurve(a, b *family.Person) string {
	offset := math.Min(30, math.Abs(b.Y-a.Y)/2)
	return fmt.Sprintf("M %s %s Q %s %s %s %s",
		num(a.X), num(a.Y), num((a.X+b.X)/2), num(math.Min(a.Y, b.Y)-offset), num(b.X), num(b.Y))
}

// orthogonalEdges draws spouses as a short bar between their cards and each
// child as a route from the midpoint of its visible parents.
func (d *drawing) orthogonalEdges() []edge {
	var out []edge
	parents := make(map[string][]*family.Person)
	for _, r := range d.relations {
		a, b := d.byID[r.AID], d.byID[r.BID]
		if r.Type == family.Spouse {
			out = append(out, edge{ID: r.ID, Spouse: true, D: d.spouseBar(a, b)})
			continue
		}
		if r.Type == family.ParentChild && !containsPerson(parents[b.ID], a) {
			parents[b.ID] = append(parents[b.ID], a)
		}
	}
	for _, child := range d.people {
		if ps := parents[child.ID]; len(ps) > 0 {
			out = append(out, edge{D: d.childRoute(ps, child)})
		}
	}
	return out
}

func (d *drawing) spouseBar(a, b *family.Person) string {
	if math.Abs(a.Y-b.Y) > sameRowEps {
		return spouseCurve(a, b)
	}
	left, right := a, b
	if left.X > right.X {
		left, right = right, left
	}
	half := d.cfg.NodeWidth / 2
	return fmt.Sprintf("M %s %s H %s", num(left.X+half), num(left.Y), num(right.X-half))
}

// childRoute leaves from the parents' spouse bar when they share a row, and
// from the bottom of the lowest parent card otherwise. A child directly below
// the start point gets a straight drop.
func (d *drawing) childRoute(ps []*family.Person, child *family.Person) string {
	var sumX, lowest float64
	sameRow := true
	lowest = math.Inf(-1)
	for _, p := range ps {
		sumX += p.X
		lowest = math.Max(lowest, p.Y)
		if math.Abs(p.Y-ps[0].Y) > sameRowEps {
			sameRow = false
		}
	}
	half := d.cfg.NodeHeight / 2
	startX := sumX / float64(len(ps))
	startY := lowest + half
	if len(ps) > 1 && sameRow {
		startY = lowest
	}
	top := child.Y - half

	if math.Abs(startX-child.X) < sameRowEps {
		return fmt.Sprintf("M %s %s V %s", num(startX), num(startY), num(top))
	}
	mid := (lowest + half + top) / 2
	return fmt.Sprintf("M %s %s V %s H %s V %s", num(startX), num(startY), num(mid), num(child.X), num(top))
}

func renderEdge(buf *bytes.Buffer, e edge, t Theme) {
	class, stroke := "edge parent-child-edge", t.Edge
	if e.Spouse {
		class, stroke = "edge spouse-edge", t.SpouseEdge
	}
	if e.ID != "" {
		fmt.Fprintf(buf, `    <path class="%s" d="%s" stroke="%s" data-relation-id="%s"/>`+"\n", class, e.D, stroke, escapeXML(e.ID))
		return
	}
	fmt.Fprintf(buf, `    <path class="%s" d="%s" stroke="%s"/>`+"\n", class, e.D, stroke)
}

func containsPerson(ps []*family.Person, p *family.Person) bool {
	for _, q := range ps {
		if q.ID == p.ID {
			return true
		}
	}
	return false
}

// num formats a coordinate to one decimal, dropping a trailing ".0".
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10+0, 'f', -1, 64)
}
