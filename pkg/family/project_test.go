package family

import (
	"strings"
	"testing"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

func TestAddPersonGeneratesID(t *testing.T) {
	p := NewProject("x")
	person, err := p.AddPerson(Person{Name: "Ada"})
	if err != nil {
		t.Fatalf("AddPerson() error = %v", err)
	}
	if !strings.HasPrefix(person.ID, "p_") {
		t.Errorf("ID = %q, want p_ prefix", person.ID)
	}
	if p.Person(person.ID) != person {
		t.Error("Person() should return the stored pointer")
	}
}

func TestAddPersonDuplicate(t *testing.T) {
	p := NewProject("x")
	if _, err := p.AddPerson(Person{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddPerson(Person{ID: "a"}); err != ErrDuplicatePerson {
		t.Errorf("AddPerson() error = %v, want %v", err, ErrDuplicatePerson)
	}
}

func TestAddPersonRejectsMalformedID(t *testing.T) {
	p := NewProject("x")
	for _, id := range []string{"has space", "tab\there", strings.Repeat("x", 300)} {
		_, err := p.AddPerson(Person{ID: id})
		if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
			t.Errorf("AddPerson(%q) error = %v, want INVALID_INPUT", id, err)
		}
	}
	if len(p.People) != 0 {
		t.Errorf("len(People) = %d, want 0", len(p.People))
	}
}

func TestRemovePersonCascades(t *testing.T) {
	p := Demo()
	if !p.RemovePerson("p3") {
		t.Fatal("RemovePerson(p3) = false")
	}
	for _, r := range p.Relations {
		if r.Involves("p3") {
			t.Errorf("relation %s still involves p3", r.ID)
		}
	}
	if len(p.Relations) != 3 {
		t.Errorf("len(Relations) = %d, want 3", len(p.Relations))
	}
	if p.RemovePerson("p3") {
		t.Error("second RemovePerson should report false")
	}
}

func TestRemoveRelation(t *testing.T) {
	p := Demo()
	if !p.RemoveRelation("r8") {
		t.Fatal("RemoveRelation(r8) = false")
	}
	if got := p.Spouses("p3"); len(got) != 0 {
		t.Errorf("Spouses(p3) = %v, want none", got)
	}
	if p.RemoveRelation("r8") {
		t.Error("second RemoveRelation should report false")
	}
}

func TestQueries(t *testing.T) {
	p := Demo()

	if got := strings.Join(p.Parents("p5"), ","); got != "p3,p4" {
		t.Errorf("Parents(p5) = %s", got)
	}
	if got := strings.Join(p.Children("p3"), ","); got != "p5,p6" {
		t.Errorf("Children(p3) = %s", got)
	}
	if got := strings.Join(p.Spouses("p2"), ","); got != "p1" {
		t.Errorf("Spouses(p2) = %s", got)
	}
}

func TestClone(t *testing.T) {
	p := Demo()
	c := p.Clone()
	c.People[0].X = 999
	c.Relations[0].AID = "changed"

	if p.People[0].X == 999 {
		t.Error("Clone should copy people")
	}
	if p.Relations[0].AID == "changed" {
		t.Error("Clone should copy relations")
	}
}

func TestRelationSame(t *testing.T) {
	tests := []struct {
		name string
		a, b Relation
		want bool
	}{
		{"same parent edge", Relation{Type: ParentChild, AID: "a", BID: "b"}, Relation{Type: ParentChild, AID: "a", BID: "b"}, true},
		{"reversed parent edge", Relation{Type: ParentChild, AID: "a", BID: "b"}, Relation{Type: ParentChild, AID: "b", BID: "a"}, false},
		{"reversed spouse edge", Relation{Type: Spouse, AID: "a", BID: "b"}, Relation{Type: Spouse, AID: "b", BID: "a"}, true},
		{"different type", Relation{Type: Spouse, AID: "a", BID: "b"}, Relation{Type: ParentChild, AID: "a", BID: "b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Same(tt.b); got != tt.want {
				t.Errorf("Same() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifespan(t *testing.T) {
	tests := []struct {
		birth, death, want string
	}{
		{"1950", "2010", "1950 – 2010"},
		{"1950", "", "b. 1950"},
		{"", "2010", "d. 2010"},
		{"", "", ""},
	}
	for _, tt := range tests {
		p := Person{BirthYear: tt.birth, DeathYear: tt.death}
		if got := p.Lifespan(); got != tt.want {
			t.Errorf("Lifespan(%q, %q) = %q, want %q", tt.birth, tt.death, got, tt.want)
		}
	}
}
