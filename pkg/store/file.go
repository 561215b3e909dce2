package store

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/famtree/pkg/family"
	famio "github.com/matzehuels/famtree/pkg/io"
)

// FileStore keeps each project as <name>.json in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns $XDG_DATA_HOME/famtree/projects, falling back to
// ~/.local/share/famtree/projects.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "famtree", "projects"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "famtree", "projects"), nil
}

// NewFileStore creates a file store in baseDir, or DefaultDir when empty.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the file holding the named project.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Dir returns the base directory.
func (s *FileStore) Dir() string { return s.baseDir }

func (s *FileStore) Load(_ context.Context, name string) (*family.Project, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.Path(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	p, _, err := famio.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	p.Meta.ProjectName = name
	return p, nil
}

func (s *FileStore) Save(_ context.Context, p *family.Project) error {
	name := p.Meta.ProjectName
	if err := validName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Meta.CreatedAt.IsZero() {
		p.Meta.CreatedAt = time.Now().UTC()
	}
	p.Meta.UpdatedAt = time.Now().UTC()
	return famio.ExportJSON(p, s.Path(name))
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("remove project file: %w", err)
	}
	return nil
}

// List reads every project file. Unreadable files are skipped. Projects
// without an UpdatedAt stamp fall back to the file's modification time.
func (s *FileStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read project dir: %w", err)
	}

	var out []Summary
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".json")
		if entry.IsDir() || !ok || strings.HasPrefix(name, ".") {
			continue
		}
		p, _, err := famio.ImportJSON(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		sum := summarize(p)
		sum.Name = name
		if sum.UpdatedAt.IsZero() {
			if info, err := entry.Info(); err == nil {
				sum.UpdatedAt = info.ModTime()
			}
		}
		out = append(out, sum)
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
