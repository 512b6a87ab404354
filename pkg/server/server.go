// Package server provides a public API for embedding the scene availability
// HTTP service in another application.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robert-malhotra/scene-availability/internal/api"
	"github.com/robert-malhotra/scene-availability/internal/backend"
	"github.com/robert-malhotra/scene-availability/internal/config"
	"github.com/robert-malhotra/scene-availability/internal/metrics"
)

// Options configures the server.
type Options struct {
	// Config holds the service settings.
	// Default: config.Load()
	Config *config.Config

	// Collections is the collection registry.
	// Default: config.LoadRegistry(Config.Survey.CollectionsDir)
	Collections *config.CollectionRegistry

	// Catalog answers the survey queries.
	// Default: ASF and STAC backends built from Config
	Catalog backend.Catalog

	// DisableMetrics turns off request metrics and the /metrics endpoint.
	DisableMetrics bool

	// Logger is the slog logger to use.
	// Default: slog.Default()
	Logger *slog.Logger
}

// Server is a scene availability server that can be embedded in another application.
type Server struct {
	cfg     *config.Config
	router  chi.Router
	metrics *metrics.Collector
	logger  *slog.Logger
}

// New creates a new server with the given options.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		opts.Config = cfg
	}
	if opts.Collections == nil {
		collections, err := config.LoadRegistry(opts.Config.Survey.CollectionsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load collections: %w", err)
		}
		opts.Collections = collections
	}

	var m *metrics.Collector
	if !opts.DisableMetrics {
		m = metrics.NewCollector(metrics.Namespace)
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = backend.Open(opts.Config, opts.Collections, opts.Logger, m)
	}

	handlers := api.NewHandlers(opts.Config, catalog, opts.Collections, opts.Logger)
	if m != nil {
		handlers = handlers.WithMetrics(m)
	}

	opts.Logger.Info("loaded collections", "count", opts.Collections.Count())

	return &Server{
		cfg:     opts.Config,
		router:  api.NewRouter(handlers, opts.Logger),
		metrics: m,
		logger:  opts.Logger,
	}, nil
}

// Router returns the chi.Router for mounting in another application.
func (s *Server) Router() chi.Router {
	return s.router
}

// Metrics returns the server's collector, nil when metrics are disabled.
func (s *Server) Metrics() *metrics.Collector {
	return s.metrics
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Address(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
