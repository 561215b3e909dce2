package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
)

// document is the wire shape of a project. Pointer fields distinguish an
// absent section from an empty one so older files can be migrated.
type document struct {
	Version   int                `json:"dataVersion"`
	UI        *family.UISettings `json:"ui,omitempty"`
	People    []*family.Person   `json:"people"`
	Relations []family.Relation  `json:"relations"`
	Meta      *family.Meta       `json:"meta,omitempty"`
}

// Report lists the repairs made while reading a project. Repairs never fail
// an import; they are surfaced so callers can show them.
type Report struct {
	Migrated         bool     // document was older than family.DataVersion
	Warnings         []string // one line per repair
	DroppedPeople    int
	DroppedRelations int
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ReadJSON decodes a project from r, repairs it and migrates it to the
// current data version.
//
// Repairs, each reported in the returned [Report]:
//   - a person without an id gets a generated one
//   - a person with a malformed id gets a generated one, and relations
//     naming the old id follow it
//   - a person whose id was already seen is dropped
//   - a blank name becomes "Unknown"
//   - relations with a missing or unknown endpoint, an unknown type, or
//     identical endpoints are dropped
//
// ReadJSON only fails on malformed JSON or a document that is not an
// object. It does not close r.
func ReadJSON(r io.Reader) (*family.Project, *Report, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidProject, err, "decode project")
	}

	rep := &Report{}
	p := &family.Project{Version: doc.Version}

	if doc.People == nil {
		rep.warn("no people found, starting empty")
	}
	seen := make(map[string]bool, len(doc.People))
	renamed := make(map[string]string)
	for idx, person := range doc.People {
		if person == nil {
			rep.DroppedPeople++
			rep.warn("person at index %d is null, skipping", idx)
			continue
		}
		if person.ID == "" {
			person.ID = family.NewPersonID()
			rep.warn("person at index %d had no id, generated %s", idx, person.ID)
		} else if err := apperrors.ValidatePersonID(person.ID); err != nil {
			if _, dup := renamed[person.ID]; dup {
				rep.DroppedPeople++
				rep.warn("duplicate id %q found, skipping", person.ID)
				continue
			}
			old := person.ID
			person.ID = family.NewPersonID()
			renamed[old] = person.ID
			rep.warn("person at index %d had an invalid id %q, replaced with %s", idx, old, person.ID)
		}
		if seen[person.ID] {
			rep.DroppedPeople++
			rep.warn("duplicate id %s found, skipping", person.ID)
			continue
		}
		seen[person.ID] = true
		if strings.TrimSpace(person.Name) == "" {
			rep.warn("person %s has no name, using %q", person.ID, "Unknown")
			person.Name = "Unknown"
		}
		p.People = append(p.People, person)
	}

	for _, rel := range doc.Relations {
		if id, ok := renamed[rel.AID]; ok {
			rel.AID = id
		}
		if id, ok := renamed[rel.BID]; ok {
			rel.BID = id
		}
		if rel.AID == "" || rel.BID == "" || rel.AID == rel.BID ||
			!seen[rel.AID] || !seen[rel.BID] || !rel.Type.Valid() {
			rep.DroppedRelations++
			continue
		}
		if rel.ID == "" {
			rel.ID = family.NewRelationID()
		}
		p.Relations = append(p.Relations, rel)
	}
	if rep.DroppedRelations > 0 {
		rep.warn("removed %d invalid relationship(s)", rep.DroppedRelations)
	}

	if doc.UI != nil {
		p.UI = *doc.UI
	}
	if doc.Meta != nil {
		p.Meta = *doc.Meta
	}
	migrate(p, doc.UI == nil, rep)
	return p, rep, nil
}

// migrate upgrades p in place to family.DataVersion.
func migrate(p *family.Project, missingUI bool, rep *Report) {
	if p.Version >= family.DataVersion {
		return
	}
	rep.Migrated = true
	rep.warn("migrated data version %d to %d", p.Version, family.DataVersion)
	p.Version = family.DataVersion
	if missingUI {
		p.UI = family.UISettings{FilterCountry: "All", FilterCity: "All"}
	}
}

// ImportJSON reads a project file at path. See [ReadJSON] for the repairs
// applied. A project without a name takes the file's base name.
func ImportJSON(path string) (*family.Project, *Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeProjectNotFound, err, "open %s", path)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p, rep, err := ReadJSON(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Meta.ProjectName == "" {
		p.Meta.ProjectName = ProjectNameFromPath(path)
	}
	return p, rep, nil
}

// ProjectNameFromPath derives a display name from a file name by dropping
// the directory and a trailing .json extension.
func ProjectNameFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".json")
}
