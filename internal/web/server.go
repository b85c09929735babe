// Package web exposes the import pipeline over a small JSON API.
// It is an invocation surface only; all row-level behavior lives in core.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcre/estate-import/internal/config"
	"github.com/bcre/estate-import/internal/core"
)

// Server is the HTTP server for the import API.
type Server struct {
	service *core.Service
	pool    *pgxpool.Pool
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, pool *pgxpool.Pool, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		pool:    pool,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/entities", s.handleListEntities)
		r.Post("/import/{entityKey}", s.handleImport)
	})
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.cfg.Server.Addr(),
		Handler:     s.router,
		ReadTimeout: s.cfg.Server.ReadTimeout,
		IdleTimeout: 60 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
