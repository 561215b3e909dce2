package layout

import (
	"fmt"
	"slices"

	"github.com/matzehuels/famtree/pkg/family"
)

// WarningCode classifies a non-fatal layout finding.
type WarningCode string

const (
	// WarnNoRoot: a component had no true root, so its members went to the
	// fallback strip. Only cyclic parent data causes this.
	WarnNoRoot WarningCode = "NO_ROOT"
	// WarnUnclaimed: a related person was reached by no tree and went to
	// the fallback strip.
	WarnUnclaimed WarningCode = "UNCLAIMED"
	// WarnDuplicatePerson: two persons share an id; the first is laid out
	// and both receive its position.
	WarnDuplicatePerson WarningCode = "DUPLICATE_PERSON"
)

// Warning is a data-integrity finding. Layout still completes.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	People  []string    `json:"people,omitempty"`
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Code, w.Message) }

// Component is one composed family forest.
type Component struct {
	Members []string `json:"members"`
	Roots   []string `json:"roots"`
	Units   []*Unit  `json:"-"`
	Bounds  Rect     `json:"bounds"`
}

// Result describes a completed layout pass. Positions hold final centres
// for every person, including the fallback strip.
type Result struct {
	Config     Config           `json:"config"`
	Positions  map[string]Point `json:"positions"`
	Components []Component      `json:"components"`
	Strip      []string         `json:"strip,omitempty"`
	Warnings   []Warning        `json:"warnings,omitempty"`
	Bounds     Rect             `json:"bounds"`
	Skipped    []string         `json:"skipped,omitempty"` // manual positions left untouched
}

// Position returns the final centre of id.
func (r *Result) Position(id string) (Point, bool) {
	pt, ok := r.Positions[id]
	return pt, ok
}

// Option configures Arrange.
type Option func(*options)

type options struct {
	preserveManual bool
}

// WithPreserveManual leaves persons with HasManualPos at their dragged
// coordinates. Their computed positions are still reported in the Result.
func WithPreserveManual() Option {
	return func(o *options) { o.preserveManual = true }
}

// Compute runs one full layout pass over people and relations without
// writing anything back.
//
// The pass is: build the relation graph, split it into components, grow
// unit trees from each component's true roots, position each forest with
// the tidy-tree algorithm, place components left to right, put every person
// no tree reached into a fallback strip, and finally shift everything so the
// smallest centre coordinate equals cfg.Padding.
func Compute(people []*family.Person, relations []family.Relation, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Config: cfg, Positions: make(map[string]Point, len(people))}

	ids := make([]string, 0, len(people))
	seen := make(map[string]bool, len(people))
	for _, p := range people {
		if seen[p.ID] {
			res.Warnings = append(res.Warnings, Warning{
				Code:    WarnDuplicatePerson,
				Message: fmt.Sprintf("person id %q appears more than once", p.ID),
				People:  []string{p.ID},
			})
			continue
		}
		seen[p.ID] = true
		ids = append(ids, p.ID)
	}

	g := BuildGraph(ids, relations)
	claimed := make(map[string]bool, g.Len())
	comp := newCompositor(cfg)

	for _, members := range g.Components() {
		if len(members) == 1 && !g.HasRelations(members[0]) {
			continue
		}
		roots := g.TrueRoots(members)
		if len(roots) == 0 {
			res.Warnings = append(res.Warnings, Warning{
				Code:    WarnNoRoot,
				Message: fmt.Sprintf("component of %d people has no root; parent relations form a cycle", len(members)),
				People:  members,
			})
			continue
		}

		var units []*Unit
		var grown []string
		for _, r := range roots {
			if claimed[r] {
				continue
			}
			units = append(units, BuildUnit(g, r, claimed, cfg))
			grown = append(grown, r)
		}
		placements := Position(units, cfg)
		if len(placements) == 0 {
			continue
		}
		bounds := comp.placeForest(placements, res.Positions)
		res.Components = append(res.Components, Component{
			Members: members,
			Roots:   grown,
			Units:   units,
			Bounds:  bounds,
		})
	}

	for _, id := range g.IDs() {
		if _, ok := res.Positions[id]; !ok {
			res.Strip = append(res.Strip, id)
		}
	}
	var unclaimed []string
	for _, id := range res.Strip {
		if g.HasRelations(id) && !inNoRootComponent(res.Warnings, id) {
			unclaimed = append(unclaimed, id)
		}
	}
	if len(unclaimed) > 0 {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnUnclaimed,
			Message: fmt.Sprintf("%d related people were not reached by any tree", len(unclaimed)),
			People:  unclaimed,
		})
	}
	comp.placeStrip(res.Strip, res.Positions)

	dx, dy := normalize(res.Positions, cfg)
	box := emptyRect()
	for i := range res.Components {
		res.Components[i].Bounds = res.Components[i].Bounds.translate(dx, dy)
	}
	for _, pt := range res.Positions {
		box = box.extend(pt, cfg)
	}
	if !box.empty() {
		res.Bounds = box
	}
	return res, nil
}

func inNoRootComponent(warnings []Warning, id string) bool {
	for _, w := range warnings {
		if w.Code == WarnNoRoot && slices.Contains(w.People, id) {
			return true
		}
	}
	return false
}

// Arrange computes a layout and writes it back onto people: X and Y are set
// and HasManualPos is cleared for every person the pass positions. With
// WithPreserveManual, persons already carrying a manual position are left
// alone and listed in Result.Skipped. Relations are never modified.
func Arrange(people []*family.Person, relations []family.Relation, cfg Config, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	res, err := Compute(people, relations, cfg)
	if err != nil {
		return nil, err
	}
	for _, p := range people {
		pt, ok := res.Positions[p.ID]
		if !ok {
			continue
		}
		if o.preserveManual && p.HasManualPos {
			res.Skipped = append(res.Skipped, p.ID)
			continue
		}
		p.X, p.Y = pt.X, pt.Y
		p.HasManualPos = false
	}
	return res, nil
}

// ArrangeProject runs Arrange over a project's people and relations.
func ArrangeProject(p *family.Project, cfg Config, opts ...Option) (*Result, error) {
	return Arrange(p.People, p.Relations, cfg, opts...)
}
