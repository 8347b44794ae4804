// Package server exposes the endpoint registry over HTTP. Request bodies are
// relayed to Experian unchanged and responses are returned verbatim.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/s0up4200/experian/endpoints"
)

const shutdownTimeout = 5 * time.Second

// Config holds the relay settings
type Config struct {
	Addr    string
	Subcode string
}

// Server relays HTTP requests to the Experian endpoints of one session
type Server struct {
	registry *endpoints.Registry
	cfg      Config
	logger   zerolog.Logger
	router   *gin.Engine
}

// New creates a relay for registry
func New(registry *endpoints.Registry, cfg Config, logger zerolog.Logger) *Server {
	s := &Server{
		registry: registry,
		cfg:      cfg,
		logger:   logger.With().Str("component", "server").Logger(),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(s.logger))
	s.routes(router)
	s.router = router

	return s
}

func (s *Server) routes(router *gin.Engine) {
	router.GET("/healthz", s.handleHealth)
	router.GET("/headers/:bin", s.handleHeaders)
	router.POST("/api/:family/:endpoint", s.handleRelay)
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
