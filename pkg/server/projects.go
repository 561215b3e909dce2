package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
	famio "github.com/matzehuels/famtree/pkg/io"
	"github.com/matzehuels/famtree/pkg/store"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": summaries})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := famio.WriteJSON(p, w); err != nil {
		s.logger.Error("write project", "err", err)
	}
}

// projectSaved is the body of a successful PUT.
type projectSaved struct {
	Name           string   `json:"name"`
	People         int      `json:"people"`
	Relations      int      `json:"relations"`
	ImportWarnings []string `json:"import_warnings,omitempty"`
}

func (s *Server) handlePutProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := apperrors.ValidateProjectName(name); err != nil {
		writeError(w, err)
		return
	}
	p, report, err := s.readProject(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	p.Meta.ProjectName = name
	if err := s.store.Save(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectSaved{
		Name:           name,
		People:         len(p.People),
		Relations:      len(p.Relations),
		ImportWarnings: report.Warnings,
	})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
