package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"filmoteca/backend/go/internal/config"
	"filmoteca/backend/go/pkg/circuitbreaker"
	"filmoteca/backend/go/pkg/ratelimiter"
)

// Server wraps the standard http.Server around an already configured handler
// (the gin engine) and adds graceful shutdown.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// ServerOption defines a function for configuring a Server.
type ServerOption func(*Server)

// WithAddress sets the address for the server to listen on.
func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.httpServer.Addr = addr
	}
}

// NewServer creates a Server for handler using the server section of cfg.
func NewServer(cfg *config.AppConfig, handler http.Handler, opts ...ServerOption) (*Server, error) {
	timeout, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}

	for _, opt := range opts {
		opt(srv)
	}

	if srv.httpServer.Addr == "" {
		srv.httpServer.Addr = ":8080"
	}
	return srv, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewRateLimiter initializes a rate limiter based on the configuration.
func NewRateLimiter(cfg config.RateLimiterConfig) (ratelimiter.RateLimiter, error) {
	algorithm := cfg.Algorithm
	if algorithm == "" {
		algorithm = "tokenBucket"
	}

	switch algorithm {
	case "tokenBucket":
		conf := cfg.TokenBucket
		return ratelimiter.NewTokenBucket(conf.Rate, conf.Capacity), nil
	case "fixedWindow":
		conf := cfg.FixedWindow
		window, err := time.ParseDuration(conf.Window)
		if err != nil {
			return nil, fmt.Errorf("invalid fixedWindow duration: %w", err)
		}
		return ratelimiter.NewFixedWindowCounter(conf.Limit, window), nil
	default:
		return nil, fmt.Errorf("unknown rate limiter algorithm: %s", cfg.Algorithm)
	}
}

// NewCircuitBreaker initializes a circuit breaker based on the configuration.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) (circuitbreaker.CircuitBreaker, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit breaker timeout duration: %w", err)
	}
	return circuitbreaker.New(cfg.FailureThreshold, cfg.SuccessThreshold, timeout), nil
}
