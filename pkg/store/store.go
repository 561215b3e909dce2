// Package store persists family-tree projects.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per project in a directory (CLI default,
//     ~/.local/share/famtree/projects)
//   - [MongoStore]: a MongoDB collection, for the HTTP server
//
// Projects are addressed by their display name, which must pass
// errors.ValidateProjectName. [Store.List] returns the most recently
// updated project first.
package store

import (
	"context"
	"time"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
)

// ErrNotFound is returned when a project does not exist.
var ErrNotFound = apperrors.New(apperrors.ErrCodeProjectNotFound, "project not found")

// Summary describes a stored project without loading it for editing.
type Summary struct {
	Name      string    `json:"name" bson:"_id"`
	People    int       `json:"people" bson:"people"`
	Relations int       `json:"relations" bson:"relations"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Store is a project storage backend. Implementations are safe for
// concurrent use.
type Store interface {
	// Load returns the named project or ErrNotFound.
	Load(ctx context.Context, name string) (*family.Project, error)

	// Save creates or replaces the project named by p.Meta.ProjectName.
	Save(ctx context.Context, p *family.Project) error

	// Delete removes the named project or returns ErrNotFound.
	Delete(ctx context.Context, name string) error

	// List returns summaries, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	Close() error
}

func summarize(p *family.Project) Summary {
	return Summary{
		Name:      p.Meta.ProjectName,
		People:    len(p.People),
		Relations: len(p.Relations),
		UpdatedAt: p.Meta.UpdatedAt,
	}
}

func validName(name string) error {
	return apperrors.ValidateProjectName(name)
}
