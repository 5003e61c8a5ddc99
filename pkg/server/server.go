// Package server exposes the evaluation engine over HTTP: the evaluate
// endpoint, pack discovery, audit retrieval, and the operational endpoints
// for health and metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/compliance/engine"
	"convoguard/verdict/pkg/config"
	"convoguard/verdict/pkg/telemetry/health"
	"convoguard/verdict/pkg/telemetry/metrics"
)

// Server is the compliance evaluation HTTP server.
type Server struct {
	config       config.ServerConfig
	engine       *engine.Engine
	storage      audit.Storage
	checker      *health.Checker
	metrics      *metrics.Collector
	metricsPath  string
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	running      bool
}

// Options holds the optional collaborators of a server. Storage enables
// the audit retrieval endpoints; the collector enables /metrics.
type Options struct {
	Storage     audit.Storage
	Checker     *health.Checker
	Metrics     *metrics.Collector
	MetricsPath string
	Logger      *slog.Logger
}

// New creates a server around the engine.
func New(cfg config.ServerConfig, eng *engine.Engine, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	checker := opts.Checker
	if checker == nil {
		checker = health.New(0)
	}
	metricsPath := opts.MetricsPath
	if metricsPath == "" {
		metricsPath = config.DefaultMetricsPath
	}
	return &Server{
		config:      cfg,
		engine:      eng,
		storage:     opts.Storage,
		checker:     checker,
		metrics:     opts.Metrics,
		metricsPath: metricsPath,
		logger:      logger.With("component", "server"),
	}
}

// Handler returns the fully assembled HTTP handler, which the tests drive
// directly without a listening socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	auth := authMiddleware(s.config.APIKeys, s.logger)
	mux.Handle("POST /v1/evaluate", auth(http.HandlerFunc(s.handleEvaluate)))
	mux.Handle("GET /v1/packs", auth(http.HandlerFunc(s.handleListPacks)))
	mux.Handle("GET /v1/audits", auth(http.HandlerFunc(s.handleListAudits)))
	mux.Handle("GET /v1/audits/{id}", auth(http.HandlerFunc(s.handleGetAudit)))

	// Operational endpoints stay unauthenticated: probes and scrapers do
	// not carry client keys.
	mux.Handle("GET /healthz", s.checker.LivenessHandler())
	mux.Handle("GET /readyz", s.checker.ReadinessHandler())
	if s.metrics != nil {
		mux.Handle("GET "+s.metricsPath, s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)
	return handler
}

// Start runs the server and blocks until the context is cancelled, a
// termination signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			"address", s.config.ListenAddress,
			"auth_enabled", len(s.config.APIKeys) > 0,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown: %w", err)
			}
		}

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.logger.Info("server stopped")
	})
	return shutdownErr
}

// IsRunning reports whether the server has been started and not yet shut
// down.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
