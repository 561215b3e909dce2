package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/famtree/pkg/buildinfo"
	apperrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
	famio "github.com/matzehuels/famtree/pkg/io"
	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/pipeline"
	"github.com/matzehuels/famtree/pkg/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	out := make([]layout.Config, 0, len(s.presets))
	for _, name := range s.presets.Names() {
		cfg, _ := s.presets.Get(name)
		out = append(out, cfg)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"default": layout.DefaultPreset,
		"presets": out,
	})
}

// layoutResponse is the body of a successful POST /v1/layout.
type layoutResponse struct {
	Project        json.RawMessage    `json:"project"`
	Preset         string             `json:"preset"`
	Components     []layout.Component `json:"components"`
	Strip          []string           `json:"strip,omitempty"`
	Warnings       []layout.Warning   `json:"warnings,omitempty"`
	Bounds         layout.Rect        `json:"bounds"`
	Skipped        []string           `json:"skipped,omitempty"`
	ImportWarnings []string           `json:"import_warnings,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	p, report, err := s.readProject(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.pipelineOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.SkipLayout = false
	if err := projectDefaults(&opts, p); err != nil {
		writeError(w, err)
		return
	}

	res, positioned, err := s.runner.Layout(r.Context(), p, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	positioned.UI.Preset = opts.Preset
	raw, err := encodeProject(positioned)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Project:        raw,
		Preset:         opts.Preset,
		Components:     res.Components,
		Strip:          res.Strip,
		Warnings:       res.Warnings,
		Bounds:         res.Bounds,
		Skipped:        res.Skipped,
		ImportWarnings: report.Warnings,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	p, _, err := s.readProject(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.pipelineOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{string(format)}
	if err := projectDefaults(&opts, p); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), p, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	cacheState := "miss"
	if result.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Famtree-Cache", cacheState)
	w.Header().Set("X-Famtree-Warnings", strconv.Itoa(result.Stats.Warnings))
	w.Header().Set("ETag", strconv.Quote(result.LayoutHash))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[string(format)])
}

// relationRequest is the body of POST /v1/relations. Kind is "parent",
// "child" or "spouse" from Selected's point of view, or "parents" to record
// Parents as Selected's parents in one step.
type relationRequest struct {
	Project  json.RawMessage `json:"project"`
	Kind     string          `json:"kind"`
	Selected string          `json:"selected"`
	Other    string          `json:"other,omitempty"`
	Parents  []string        `json:"parents,omitempty"`
}

type relationResponse struct {
	Project   json.RawMessage   `json:"project"`
	Relations []family.Relation `json:"relations"`
	Added     bool              `json:"added"`
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	var req relationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody)).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Project) == 0 {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "project is required"))
		return
	}
	p, _, err := famio.ReadJSON(bytes.NewReader(req.Project))
	if err != nil {
		writeError(w, err)
		return
	}

	var rels []family.Relation
	if req.Kind == "parents" {
		rels, err = p.LinkParents(req.Selected, req.Parents...)
	} else {
		var rel family.Relation
		var added bool
		rel, added, err = p.Link(family.LinkKind(req.Kind), req.Selected, req.Other)
		if err == nil && added {
			rels = []family.Relation{rel}
		}
	}
	if err != nil {
		observability.Edit().OnRelationRejected(r.Context(), string(apperrors.GetCode(err)))
		writeError(w, err)
		return
	}

	raw, err := encodeProject(p)
	if err != nil {
		writeError(w, err)
		return
	}
	if rels == nil {
		rels = []family.Relation{}
	}
	writeJSON(w, http.StatusOK, relationResponse{Project: raw, Relations: rels, Added: len(rels) > 0})
}

func (s *Server) readProject(w http.ResponseWriter, r *http.Request) (*family.Project, *famio.Report, error) {
	return famio.ReadJSON(http.MaxBytesReader(w, r.Body, s.maxBody))
}

// pipelineOptions reads pipeline options from query parameters.
// projectDefaults fills options the request left unset from the project's
// stored UI settings and resolves the rest, so responses name the preset
// that was actually used.
func projectDefaults(opts *pipeline.Options, p *family.Project) error {
	if opts.Preset == "" {
		opts.Preset = p.UI.Preset
	}
	opts.PreserveManual = opts.PreserveManual || p.UI.LockManualPositions
	return opts.ValidateAndSetDefaults()
}

func (s *Server) pipelineOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Preset:    q.Get("preset"),
		Style:     q.Get("style"),
		EdgeStyle: q.Get("edges"),
		Theme:     q.Get("theme"),
		Query:     q.Get("q"),
		Country:   q.Get("country"),
		City:      q.Get("city"),
		Selected:  q.Get("selected"),
		Presets:   s.presets,
		Logger:    s.logger,
	}

	var err error
	if opts.PreserveManual, err = boolParam(q.Get("preserve_manual")); err != nil {
		return opts, err
	}
	if opts.SkipLayout, err = boolParam(q.Get("skip_layout")); err != nil {
		return opts, err
	}
	if opts.NoBadges, err = boolParam(q.Get("no_badges")); err != nil {
		return opts, err
	}
	if opts.Detailed, err = boolParam(q.Get("detailed")); err != nil {
		return opts, err
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "scale")
		}
	}
	return opts, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid boolean %q", v)
	}
	return b, nil
}

func encodeProject(p *family.Project) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := famio.WriteJSON(p, &buf); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

