// Package server provides the HTTP API with lifecycle management.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/jobs"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/metrics"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/search"
)

// Searcher runs a search request to completion, or lists the candidate
// calls a search would analyze.
type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error)
	Candidates(ctx context.Context, req models.SearchRequest) (*search.CandidateList, error)
}

// Server wraps the HTTP server with dependencies and lifecycle management.
type Server struct {
	searcher Searcher
	jobs     *jobs.Manager
	metrics  *metrics.Collector
	logger   *slog.Logger
	version  string

	http *http.Server
}

// New creates the API server. jobManager handles the async endpoints;
// collector backs /stats and may be nil.
func New(searcher Searcher, jobManager *jobs.Manager, collector *metrics.Collector, logger *slog.Logger, port, version string) *Server {
	s := &Server{
		searcher: searcher,
		jobs:     jobManager,
		metrics:  collector,
		logger:   logger,
		version:  version,
	}
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           LoggingMiddleware(logger)(s.routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, wrapped in logging. Exposed for
// tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /search/async", s.handleSearchAsync)
	mux.HandleFunc("POST /search/calls", s.handleListCalls)
	mux.HandleFunc("GET /search/jobs", s.handleListJobs)
	mux.HandleFunc("GET /search/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /search/jobs/{id}/watch", s.handleWatchJob)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)
	return mux
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
