// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/stonemedia/internal/core/playback"
	"github.com/taibuivan/stonemedia/internal/core/project"
	"github.com/taibuivan/stonemedia/internal/core/publishing"
	"github.com/taibuivan/stonemedia/internal/core/taxonomy"
	"github.com/taibuivan/stonemedia/internal/platform/config"
	"github.com/taibuivan/stonemedia/internal/platform/constants"
	"github.com/taibuivan/stonemedia/internal/platform/middleware"
	"github.com/taibuivan/stonemedia/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles admin sign-in and the allowlist.
	Auth *auth.Handler

	// Taxonomy serves the service catalogue.
	Taxonomy *taxonomy.Handler

	// Project manages portfolio records and the public work listing.
	Project *project.Handler

	// Publishing handles uploads, build triggers, callbacks and build events.
	Publishing *publishing.Handler

	// Playback describes how to play a published project.
	Playback *playback.Handler

	// Media serves locally stored files; nil when storage is hosted.
	Media http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, "/health", "/ready", "/api/internal/"))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	if h.Media != nil {
		r.Handle("/media/*", http.StripPrefix("/media/", h.Media))
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/services", h.Taxonomy.Routes())

		work := h.Project.PublicRoutes()
		h.Playback.Register(work)
		api.Mount("/work", work)

		projects := h.Project.AdminRoutes()
		h.Publishing.Register(projects)
		api.Mount("/admin/projects", projects)
		api.Mount("/admin/allowlist", h.Auth.AllowlistRoutes())

		api.Mount("/events", h.Publishing.EventRoutes())
	})

	// Build service contract, kept at its historical paths
	r.Mount("/api/admin", h.Publishing.TriggerRoutes())
	r.Mount("/api/internal/build", h.Publishing.CallbackRoutes(cfg.BuildSecret))

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
