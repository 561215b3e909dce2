package family

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DataVersion is the current project document version. Older documents are
// migrated on import by the io package.
const DataVersion = 2

// RelationType distinguishes directed parent/child edges from symmetric
// spouse edges.
type RelationType string

const (
	// ParentChild is a directed relation: AID is the parent, BID the child.
	ParentChild RelationType = "PARENT_CHILD"
	// Spouse is a symmetric relation between AID and BID.
	Spouse RelationType = "SPOUSE"
)

// Valid reports whether t is a known relation type.
func (t RelationType) Valid() bool {
	return t == ParentChild || t == Spouse
}

// Person is a member of the family tree.
//
// Only ID, X, Y and HasManualPos matter to layout. The remaining fields are
// descriptive payload carried through import, export and rendering.
type Person struct {
	ID string `json:"id" bson:"id"`

	Name      string `json:"name" bson:"name"`
	Gender    string `json:"gender,omitempty" bson:"gender,omitempty"`
	BirthYear string `json:"birthYear,omitempty" bson:"birth_year,omitempty"`
	DeathYear string `json:"deathYear,omitempty" bson:"death_year,omitempty"`
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
	Tag       string `json:"tag,omitempty" bson:"tag,omitempty"`

	OriginCountry      string `json:"originCountry,omitempty" bson:"origin_country,omitempty"`
	OriginCity         string `json:"originCity,omitempty" bson:"origin_city,omitempty"`
	OriginArea         string `json:"originArea,omitempty" bson:"origin_area,omitempty"`
	OriginFamilyBranch string `json:"originFamilyBranch,omitempty" bson:"origin_family_branch,omitempty"`
	OriginNotes        string `json:"originNotes,omitempty" bson:"origin_notes,omitempty"`

	// X and Y are the centre of the person's card.
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`

	// HasManualPos is set when the user drags the person and cleared whenever
	// the layout engine positions them.
	HasManualPos bool `json:"hasManualPos,omitempty" bson:"has_manual_pos,omitempty"`
}

// DisplayName returns the name, or the id when the name is blank.
func (p *Person) DisplayName() string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.ID
}

// Lifespan formats birth and death years as "1950 – 2010", "b. 1950" or "".
func (p *Person) Lifespan() string {
	switch {
	case p.BirthYear != "" && p.DeathYear != "":
		return p.BirthYear + " – " + p.DeathYear
	case p.BirthYear != "":
		return "b. " + p.BirthYear
	case p.DeathYear != "":
		return "d. " + p.DeathYear
	}
	return ""
}

// Relation is a kinship edge between two people.
type Relation struct {
	ID   string       `json:"id" bson:"id"`
	Type RelationType `json:"type" bson:"type"`
	AID  string       `json:"aId" bson:"a_id"`
	BID  string       `json:"bId" bson:"b_id"`
}

// Same reports whether r connects the same endpoints with the same type as
// other. Endpoints are ordered for ParentChild and unordered for Spouse.
func (r Relation) Same(other Relation) bool {
	if r.Type != other.Type {
		return false
	}
	if r.AID == other.AID && r.BID == other.BID {
		return true
	}
	return r.Type == Spouse && r.AID == other.BID && r.BID == other.AID
}

// Involves reports whether id is one of the relation's endpoints.
func (r Relation) Involves(id string) bool {
	return r.AID == id || r.BID == id
}

// UISettings are viewer preferences stored alongside the tree.
type UISettings struct {
	HideOriginBadges    bool   `json:"hideOriginBadges" bson:"hide_origin_badges"`
	FilterCountry       string `json:"filterCountry" bson:"filter_country"`
	FilterCity          string `json:"filterCity" bson:"filter_city"`
	LockManualPositions bool   `json:"lockManualPositions" bson:"lock_manual_positions"`
	Preset              string `json:"preset,omitempty" bson:"preset,omitempty"`
}

// Meta describes the project document itself.
type Meta struct {
	ProjectName string    `json:"projectName" bson:"project_name"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// NewPersonID returns a fresh person identifier.
func NewPersonID() string { return "p_" + uuid.NewString() }

// NewRelationID returns a fresh relation identifier.
func NewRelationID() string { return "r_" + uuid.NewString() }
