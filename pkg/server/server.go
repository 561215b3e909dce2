// Package server exposes the layout engine over HTTP.
//
// The API is stateless: every request carries the whole project document
// (the same JSON that [famio.ReadJSON] accepts) and the response carries the
// result. Projects are repaired on the way in exactly like a file import.
//
// # Routes
//
//	GET  /healthz        liveness and build information
//	GET  /v1/presets     available layout presets
//	POST /v1/layout      position a project; returns the project and warnings
//	POST /v1/render      position and draw a project (?format=svg|png|pdf|dot)
//	POST /v1/relations   add a relation through the relation guard
//
// With [WithStore], projects can also be kept server side:
//
//	GET    /v1/projects         list stored projects, most recent first
//	GET    /v1/projects/{name}  fetch a project
//	PUT    /v1/projects/{name}  store a project under name
//	DELETE /v1/projects/{name}  delete a project
//
// Layout and render accept query parameters mirroring [pipeline.Options]:
// preset, preserve_manual, skip_layout, style, edges, theme, q, country, city,
// no_badges, selected, scale and detailed.
//
// # Errors
//
// Errors are JSON objects {"code": "...", "message": "..."}. Input problems
// map to 400, unknown people or projects to 404, rejected relation edits to
// 409, a missing PDF/PNG converter to 501 and everything else to 500.
//
// [famio.ReadJSON]: github.com/matzehuels/famtree/pkg/io.ReadJSON
// [pipeline.Options]: github.com/matzehuels/famtree/pkg/pipeline.Options
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/pipeline"
	"github.com/matzehuels/famtree/pkg/store"
)

// DefaultMaxBodySize bounds request bodies.
const DefaultMaxBodySize = 4 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	presets layout.Presets
	logger  *log.Logger
	maxBody int64
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithPresets sets the presets offered to clients.
func WithPresets(p layout.Presets) Option { return func(s *Server) { s.presets = p } }

// WithStore enables the /v1/projects routes backed by st.
func WithStore(st store.Store) Option { return func(s *Server) { s.store = st } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithMaxBodySize overrides DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option { return func(s *Server) { s.maxBody = n } }

// New creates a server backed by runner. A nil runner gets an uncached one.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		presets: layout.DefaultPresets(),
		maxBody: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/relations", s.handleRelations)
		if s.store != nil {
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.handleListProjects)
				r.Get("/{name}", s.handleGetProject)
				r.Put("/{name}", s.handlePutProject)
				r.Delete("/{name}", s.handleDeleteProject)
			})
		}
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed")
	})
	return r
}

// observe reports every response to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
