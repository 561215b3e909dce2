package family

import (
	"fmt"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

// MaxParents is the parent cap enforced by LinkParents.
const MaxParents = 2

var (
	// ErrCycle is returned when a PARENT_CHILD edge would make a person
	// their own ancestor. Nothing is recorded.
	ErrCycle = apperrors.New(apperrors.ErrCodeCycleDetected, "relation would create a parent/child cycle")

	// ErrSelfRelation is returned when both endpoints are the same person.
	ErrSelfRelation = apperrors.New(apperrors.ErrCodeSelfRelation, "cannot link a person to themselves")

	// ErrTooManyParents is returned by LinkParents when the child would end
	// up with more than MaxParents recorded parents.
	ErrTooManyParents = apperrors.New(apperrors.ErrCodeTooManyParents, "a person can have at most two parents")

	// ErrUnknownPerson is returned when an endpoint does not exist.
	ErrUnknownPerson = apperrors.New(apperrors.ErrCodePersonNotFound, "unknown person")

	// ErrUnknownRelationType is returned for relation types other than
	// PARENT_CHILD and SPOUSE.
	ErrUnknownRelationType = apperrors.New(apperrors.ErrCodeInvalidInput, "unknown relation type")

	// ErrDuplicatePerson is returned by AddPerson for an id already in use.
	ErrDuplicatePerson = apperrors.New(apperrors.ErrCodeInvalidInput, "duplicate person id")
)

// LinkKind names a relationship from the point of view of a selected person,
// the way the editor's "add parent / child / spouse" actions phrase it.
type LinkKind string

const (
	LinkParent LinkKind = "parent" // other becomes a parent of selected
	LinkChild  LinkKind = "child"  // other becomes a child of selected
	LinkSpouse LinkKind = "spouse" // other becomes a spouse of selected
)

// AddRelation records a relation of type t between aID and bID.
//
// For ParentChild, aID is the parent and bID the child. The returned flag is
// false when an identical relation already exists; in that case the existing
// relation is returned and the call is a no-op. Errors leave the project
// unchanged.
func (p *Project) AddRelation(t RelationType, aID, bID string) (Relation, bool, error) {
	candidate := Relation{Type: t, AID: aID, BID: bID}
	if err := p.checkRelation(candidate); err != nil {
		return Relation{}, false, err
	}
	if existing, ok := p.findSame(candidate); ok {
		return existing, false, nil
	}
	if t == ParentChild && p.IsAncestor(bID, aID) {
		return Relation{}, false, fmt.Errorf("%s -> %s: %w", aID, bID, ErrCycle)
	}

	candidate.ID = NewRelationID()
	p.Relations = append(p.Relations, candidate)
	p.touch()
	return candidate, true, nil
}

// Link adds the relation described by kind between the selected person and
// other, translating the selected person's point of view into a directed
// relation.
func (p *Project) Link(kind LinkKind, selected, other string) (Relation, bool, error) {
	switch kind {
	case LinkParent:
		return p.AddRelation(ParentChild, other, selected)
	case LinkChild:
		return p.AddRelation(ParentChild, selected, other)
	case LinkSpouse:
		return p.AddRelation(Spouse, selected, other)
	}
	return Relation{}, false, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown link kind %q", kind)
}

// LinkParents records parentIDs as parents of childID in one step.
//
// Unlike AddRelation, this path enforces the MaxParents cap: counting
// existing parents plus the new distinct ones, the child may not exceed two.
// Every edge is checked before any is recorded, so an error leaves the
// project unchanged. Parents that are already recorded are skipped.
func (p *Project) LinkParents(childID string, parentIDs ...string) ([]Relation, error) {
	existing := p.Parents(childID)
	seen := make(map[string]bool, len(existing)+len(parentIDs))
	for _, id := range existing {
		seen[id] = true
	}

	var pending []string
	for _, parentID := range parentIDs {
		if seen[parentID] {
			continue
		}
		candidate := Relation{Type: ParentChild, AID: parentID, BID: childID}
		if err := p.checkRelation(candidate); err != nil {
			return nil, err
		}
		if p.IsAncestor(childID, parentID) {
			return nil, fmt.Errorf("%s -> %s: %w", parentID, childID, ErrCycle)
		}
		seen[parentID] = true
		pending = append(pending, parentID)
	}

	if len(existing)+len(pending) > MaxParents {
		return nil, fmt.Errorf("%s: %w", childID, ErrTooManyParents)
	}

	added := make([]Relation, 0, len(pending))
	for _, parentID := range pending {
		r := Relation{ID: NewRelationID(), Type: ParentChild, AID: parentID, BID: childID}
		p.Relations = append(p.Relations, r)
		added = append(added, r)
	}
	if len(added) > 0 {
		p.touch()
	}
	return added, nil
}

// IsAncestor reports whether candidate is id itself or one of id's recorded
// ancestors, walking PARENT_CHILD edges upward from id.
func (p *Project) IsAncestor(candidate, id string) bool {
	if candidate == id {
		return true
	}
	parents := p.parentIndex()
	visited := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, parent := range parents[cur] {
			if parent == candidate {
				return true
			}
			if !visited[parent] {
				visited[parent] = true
				stack = append(stack, parent)
			}
		}
	}
	return false
}

// Ancestors returns every recorded ancestor of id, nearest generation first.
func (p *Project) Ancestors(id string) []string {
	parents := p.parentIndex()
	visited := map[string]bool{id: true}
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, parent := range parents[cur] {
			if visited[parent] {
				continue
			}
			visited[parent] = true
			out = append(out, parent)
			queue = append(queue, parent)
		}
	}
	return out
}

func (p *Project) checkRelation(r Relation) error {
	if !r.Type.Valid() {
		return fmt.Errorf("%q: %w", r.Type, ErrUnknownRelationType)
	}
	if r.AID == r.BID {
		return fmt.Errorf("%s: %w", r.AID, ErrSelfRelation)
	}
	if !p.Has(r.AID) {
		return fmt.Errorf("%s: %w", r.AID, ErrUnknownPerson)
	}
	if !p.Has(r.BID) {
		return fmt.Errorf("%s: %w", r.BID, ErrUnknownPerson)
	}
	return nil
}

func (p *Project) findSame(r Relation) (Relation, bool) {
	for _, existing := range p.Relations {
		if existing.Same(r) {
			return existing, true
		}
	}
	return Relation{}, false
}

// parentIndex maps child id to parent ids.
func (p *Project) parentIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, r := range p.Relations {
		if r.Type == ParentChild {
			idx[r.BID] = append(idx[r.BID], r.AID)
		}
	}
	return idx
}
