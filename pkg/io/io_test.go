package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
)

func TestReadJSONRepairs(t *testing.T) {
	const doc = `{
	  "people": [
	    {"id": "a", "name": "Ada"},
	    {"id": "a", "name": "Copy"},
	    {"name": "No Id"},
	    {"id": "b", "name": "  "},
	    null
	  ],
	  "relations": [
	    {"id": "r1", "type": "PARENT_CHILD", "aId": "a", "bId": "b"},
	    {"id": "r2", "type": "COUSIN", "aId": "a", "bId": "b"},
	    {"id": "r3", "type": "SPOUSE", "aId": "a", "bId": "ghost"},
	    {"id": "r4", "type": "SPOUSE", "aId": "a", "bId": "a"},
	    {"type": "SPOUSE", "aId": "a", "bId": "b"}
	  ]
	}`

	p, rep, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	if len(p.People) != 3 {
		t.Fatalf("len(People) = %d, want 3", len(p.People))
	}
	if p.People[0].Name != "Ada" {
		t.Errorf("first duplicate should win, got %q", p.People[0].Name)
	}
	if !strings.HasPrefix(p.People[1].ID, "p_") {
		t.Errorf("generated id = %q", p.People[1].ID)
	}
	if p.Person("b").Name != "Unknown" {
		t.Errorf("blank name = %q, want Unknown", p.Person("b").Name)
	}

	if len(p.Relations) != 2 {
		t.Fatalf("len(Relations) = %d, want 2", len(p.Relations))
	}
	if !strings.HasPrefix(p.Relations[1].ID, "r_") {
		t.Errorf("relation without id should get one, got %q", p.Relations[1].ID)
	}

	if rep.DroppedPeople != 2 || rep.DroppedRelations != 3 {
		t.Errorf("report = %+v", rep)
	}
	if !rep.Migrated || p.Version != family.DataVersion {
		t.Errorf("expected migration to v%d, got v%d", family.DataVersion, p.Version)
	}
	if p.UI.FilterCountry != "All" {
		t.Errorf("migration should default UI filters, got %+v", p.UI)
	}
}

func TestReadJSONReplacesMalformedIDs(t *testing.T) {
	const doc = `{
	  "dataVersion": 2,
	  "people": [
	    {"id": "mum 1", "name": "Ada"},
	    {"id": "kid", "name": "Ben"},
	    {"id": "mum 1", "name": "Copy"}
	  ],
	  "relations": [
	    {"id": "r1", "type": "PARENT_CHILD", "aId": "mum 1", "bId": "kid"}
	  ]
	}`

	p, rep, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(p.People) != 2 {
		t.Fatalf("len(People) = %d, want 2", len(p.People))
	}
	mum := p.People[0]
	if mum.Name != "Ada" || !strings.HasPrefix(mum.ID, "p_") {
		t.Errorf("replaced person = %+v", mum)
	}
	if err := apperrors.ValidatePersonID(mum.ID); err != nil {
		t.Errorf("replacement id is invalid: %v", err)
	}
	if len(p.Relations) != 1 || p.Relations[0].AID != mum.ID || p.Relations[0].BID != "kid" {
		t.Errorf("relation should follow the new id, got %+v", p.Relations)
	}
	if rep.DroppedPeople != 1 || rep.DroppedRelations != 0 {
		t.Errorf("report = %+v", rep)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	for _, doc := range []string{`{`, `[1,2]`, `"x"`} {
		_, _, err := ReadJSON(strings.NewReader(doc))
		if !apperrors.Is(err, apperrors.ErrCodeInvalidProject) {
			t.Errorf("ReadJSON(%s) error = %v, want INVALID_PROJECT", doc, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	orig := family.Demo()
	orig.People[0].X, orig.People[0].Y = 12.5, 40
	orig.People[0].HasManualPos = true

	var buf bytes.Buffer
	if err := WriteJSON(orig, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	got, rep, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("round trip should need no repairs, got %v", rep.Warnings)
	}
	if len(got.People) != len(orig.People) || len(got.Relations) != len(orig.Relations) {
		t.Fatalf("counts changed: %d/%d people, %d/%d relations",
			len(got.People), len(orig.People), len(got.Relations), len(orig.Relations))
	}
	p1 := got.Person("p1")
	if p1.X != 12.5 || p1.Y != 40 || !p1.HasManualPos {
		t.Errorf("position not preserved: %+v", p1)
	}
	if got.Meta.ProjectName != "Demo Family" {
		t.Errorf("ProjectName = %q", got.Meta.ProjectName)
	}
}

func TestWriteJSONEmptyProject(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&family.Project{}, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"people": []`, `"relations": []`, `"dataVersion": 2`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hughes.json")
	p := family.Demo()
	p.Meta.ProjectName = ""

	if err := ExportJSON(p, path); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	got, _, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if got.Meta.ProjectName != "hughes" {
		t.Errorf("ProjectName = %q, want name from file", got.Meta.ProjectName)
	}
}

func TestImportJSONMissing(t *testing.T) {
	_, _, err := ImportJSON(filepath.Join(t.TempDir(), "none.json"))
	if !apperrors.Is(err, apperrors.ErrCodeProjectNotFound) {
		t.Errorf("error = %v, want PROJECT_NOT_FOUND", err)
	}
}

func TestProjectNameFromPath(t *testing.T) {
	tests := map[string]string{
		"a/b/family.json": "family",
		"family":          "family",
		`c:\x\tree.json`:  "tree",
	}
	for in, want := range tests {
		if got := ProjectNameFromPath(in); got != want {
			t.Errorf("ProjectNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
