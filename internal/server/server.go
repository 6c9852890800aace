// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz       liveness probe
//	POST /v1/layout     positions for a pipeline
//	POST /v1/sequence   execution order for a pipeline
//	POST /v1/render     rendered artifact (?format=svg|dot|json|png|pdf)
//
// Request bodies carry the pipeline document and optional options:
//
//	{"pipeline": {"steps": [...]}, "options": {"scale_x": 150}}
//
// Omitted options take the server defaults. Errors are returned as JSON with
// a stable code; dangling connections and cycles map to 422.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pipelayout/pkg/pipeline"
)

const (
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes = 10 << 20

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server handles layout requests with a shared [pipeline.Runner].
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	router   chi.Router
}

// New creates a server. defaults seeds the options of every request; it is
// validated once here so configuration errors surface at startup.
func New(runner *pipeline.Runner, logger *log.Logger, defaults pipeline.Options) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	check := defaults
	if err := check.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	s := &Server{
		runner:   runner,
		logger:   logger,
		defaults: defaults,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/sequence", s.handleSequence)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
