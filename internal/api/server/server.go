// Package server provides the HTTP server implementation
package server

// @title           Financial Products API
// @version         1.0
// @description     Catalog of bank financial products with revision tracking.
//
// @description.markdown
// All product endpoints are subject to rate limiting per client IP.
//
// When rate limit is exceeded:
// * Status code 429 (Too Many Requests) is returned
// * Headers:
//   - X-RateLimit-Limit: Maximum requests allowed
//   - X-RateLimit-Reset: Unix timestamp when the rate limit resets
//   - Retry-After: Seconds to wait before retrying
//
// @host            localhost:3002
// @BasePath        /bp
//
// @response 429 {object} models.ErrorResponse "Rate limit exceeded"

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"financialproducts/internal/config"

	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	srv    *http.Server
	logger *zap.Logger
}

// New creates a new server instance for handler
func New(cfg *config.Config, handler http.Handler, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	port, err := strconv.Atoi(cfg.API.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid port number: %w", err)
	}

	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start listens on the configured port and blocks until the server stops.
// A graceful Shutdown makes Start return nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server.starting",
		zap.String("addr", ln.Addr().String()),
		zap.String("base_path", s.cfg.API.BasePath),
	)
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gives outstanding requests until ctx expires to complete
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server.shutting_down")
	return s.srv.Shutdown(ctx)
}
