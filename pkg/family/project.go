package family

import (
	"slices"
	"time"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

// Project is the persisted family-tree document.
// The zero value is usable; NewProject fills in metadata.
type Project struct {
	Version   int        `json:"dataVersion" bson:"data_version"`
	UI        UISettings `json:"ui" bson:"ui"`
	People    []*Person  `json:"people" bson:"people"`
	Relations []Relation `json:"relations" bson:"relations"`
	Meta      Meta       `json:"meta" bson:"meta"`
}

// NewProject creates an empty project with the given display name.
func NewProject(name string) *Project {
	now := time.Now().UTC()
	return &Project{
		Version: DataVersion,
		UI:      UISettings{FilterCountry: "All", FilterCity: "All"},
		Meta:    Meta{ProjectName: name, CreatedAt: now, UpdatedAt: now},
	}
}

// Person returns the person with the given id, or nil.
func (p *Project) Person(id string) *Person {
	for _, person := range p.People {
		if person.ID == id {
			return person
		}
	}
	return nil
}

// Has reports whether a person with the given id exists.
func (p *Project) Has(id string) bool { return p.Person(id) != nil }

// PersonIDs returns person ids in insertion order.
func (p *Project) PersonIDs() []string {
	ids := make([]string, len(p.People))
	for i, person := range p.People {
		ids[i] = person.ID
	}
	return ids
}

// AddPerson appends a copy of person to the project and returns it.
// An empty ID is replaced with a generated one. Malformed ids are rejected
// with INVALID_INPUT and duplicates with ErrDuplicatePerson.
func (p *Project) AddPerson(person Person) (*Person, error) {
	if person.ID == "" {
		person.ID = NewPersonID()
	}
	if err := apperrors.ValidatePersonID(person.ID); err != nil {
		return nil, err
	}
	if p.Has(person.ID) {
		return nil, ErrDuplicatePerson
	}
	added := &person
	p.People = append(p.People, added)
	p.touch()
	return added, nil
}

// RemovePerson deletes the person and every relation that involves them.
// It reports whether the person existed.
func (p *Project) RemovePerson(id string) bool {
	n := len(p.People)
	p.People = slices.DeleteFunc(p.People, func(person *Person) bool { return person.ID == id })
	if len(p.People) == n {
		return false
	}
	p.Relations = slices.DeleteFunc(p.Relations, func(r Relation) bool { return r.Involves(id) })
	p.touch()
	return true
}

// RemoveRelation deletes the relation with the given id and reports whether
// it existed.
func (p *Project) RemoveRelation(id string) bool {
	n := len(p.Relations)
	p.Relations = slices.DeleteFunc(p.Relations, func(r Relation) bool { return r.ID == id })
	if len(p.Relations) == n {
		return false
	}
	p.touch()
	return true
}

// Parents returns the ids of the person's recorded parents in relation order.
func (p *Project) Parents(id string) []string {
	var out []string
	for _, r := range p.Relations {
		if r.Type == ParentChild && r.BID == id {
			out = append(out, r.AID)
		}
	}
	return out
}

// Children returns the ids of the person's recorded children in relation order.
func (p *Project) Children(id string) []string {
	var out []string
	for _, r := range p.Relations {
		if r.Type == ParentChild && r.AID == id {
			out = append(out, r.BID)
		}
	}
	return out
}

// Spouses returns the ids of the person's spouses in relation order.
func (p *Project) Spouses(id string) []string {
	var out []string
	for _, r := range p.Relations {
		if r.Type != Spouse {
			continue
		}
		switch id {
		case r.AID:
			out = append(out, r.BID)
		case r.BID:
			out = append(out, r.AID)
		}
	}
	return out
}

// Clone returns a deep copy of the project. People are copied so that
// positions written to the clone do not affect the original.
func (p *Project) Clone() *Project {
	c := *p
	c.People = make([]*Person, len(p.People))
	for i, person := range p.People {
		if person == nil {
			continue
		}
		cp := *person
		c.People[i] = &cp
	}
	c.Relations = slices.Clone(p.Relations)
	return &c
}

func (p *Project) touch() {
	p.Meta.UpdatedAt = time.Now().UTC()
}
