package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/famtree/pkg/family"
)

// WriteJSON encodes p as indented JSON. The output can be read back with
// [ReadJSON] without repairs.
func WriteJSON(p *family.Project, w io.Writer) error {
	doc := document{
		Version:   p.Version,
		UI:        &p.UI,
		People:    p.People,
		Relations: p.Relations,
		Meta:      &p.Meta,
	}
	if doc.Version == 0 {
		doc.Version = family.DataVersion
	}
	if doc.People == nil {
		doc.People = []*family.Person{}
	}
	if doc.Relations == nil {
		doc.Relations = []family.Relation{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes p to path. The file is written to a temporary sibling
// and renamed into place, so a crash never leaves a truncated project.
func ExportJSON(p *family.Project, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".famtree-*.json")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(p, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
