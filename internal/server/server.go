// Package server provides the HTTP session surface for the OnBoard assistant.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/umbrellahq/onboard/internal/config"
	"github.com/umbrellahq/onboard/internal/session"
)

// Server is the HTTP server for the OnBoard API.
type Server struct {
	manager *session.Manager
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(manager *session.Manager, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		manager: manager,
		config:  cfg,
		logger:  logger,
	}
}

// routes builds the API router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	// No router-level timeout: the chat stream stays open for the duration
	// of the model call, which carries its own wall-clock timeout.

	r.Post("/api/v1/sessions", s.handleCreateSession)
	r.Get("/api/v1/sessions/{id}/profile", s.handleProfile)
	r.Get("/api/v1/sessions/{id}/history", s.handleHistory)
	r.Post("/api/v1/sessions/{id}/chat", s.handleChat)
	r.Delete("/api/v1/sessions/{id}", s.handleCloseSession)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
