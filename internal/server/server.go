// Package server provides the HTTP API for lindenview.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/lindenview/internal/config"
	"github.com/hyperjump/lindenview/internal/schema"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; search responses with large sources can be big.
const maxBodyBytes = 32 << 20

// Server is the HTTP server for the lindenview API.
type Server struct {
	schema     *schema.Store
	config     *config.ServerConfig
	depthCap   int
	logger     *zap.Logger
	server     *http.Server
	configPath string
	fullConfig *config.Config
	configMu   sync.Mutex
}

// NewServer creates a server. configPath and fullConfig are optional; when both
// are set, schema changes made through the API are persisted to the file.
func NewServer(
	store *schema.Store,
	cfg *config.ServerConfig,
	depthCap int,
	logger *zap.Logger,
	configPath string,
	fullConfig *config.Config,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		schema:     store,
		config:     cfg,
		depthCap:   depthCap,
		logger:     logger,
		configPath: configPath,
		fullConfig: fullConfig,
	}
}

// Routes returns the API handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/render", s.handleRender)
	r.Post("/api/v1/explain", s.handleExplain)
	r.Get("/api/v1/schema", s.handleGetSchema)
	r.Put("/api/v1/schema", s.handlePutSchema)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
