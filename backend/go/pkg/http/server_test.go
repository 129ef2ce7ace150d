package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"filmoteca/backend/go/internal/config"
	"filmoteca/backend/go/pkg/ratelimiter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper function to create a config for testing
func newTestConfig() *config.AppConfig {
	cfg := &config.AppConfig{}
	cfg.ApplyDefaults()
	return cfg
}

func TestNewServer_WithAddress(t *testing.T) {
	srv, err := NewServer(newTestConfig(), http.NotFoundHandler(), WithAddress(":9999"))
	require.NoError(t, err)
	assert.Equal(t, ":9999", srv.Addr())
}

func TestNewServer_UsesConfiguredAddress(t *testing.T) {
	cfg := newTestConfig()
	cfg.Server.Address = "127.0.0.1:7000"

	srv, err := NewServer(cfg, http.NotFoundHandler())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", srv.Addr())
}

func TestNewServer_RejectsBadTimeout(t *testing.T) {
	cfg := newTestConfig()
	cfg.Server.ShutdownTimeout = "whenever"

	_, err := NewServer(cfg, http.NotFoundHandler())
	assert.Error(t, err)
}

func TestRun_StopsWhenContextIsCancelled(t *testing.T) {
	srv, err := NewServer(newTestConfig(), http.NotFoundHandler(), WithAddress("127.0.0.1:0"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewRateLimiter(t *testing.T) {
	limiter, err := NewRateLimiter(config.RateLimiterConfig{
		TokenBucket: config.TokenBucketConfig{Rate: 1, Capacity: 1},
	})
	require.NoError(t, err)
	assert.IsType(t, &ratelimiter.TokenBucket{}, limiter)

	limiter, err = NewRateLimiter(config.RateLimiterConfig{
		Algorithm:   "fixedWindow",
		FixedWindow: config.FixedWindowConfig{Limit: 1, Window: "1m"},
	})
	require.NoError(t, err)
	assert.IsType(t, &ratelimiter.FixedWindowCounter{}, limiter)

	_, err = NewRateLimiter(config.RateLimiterConfig{Algorithm: "fixedWindow", FixedWindow: config.FixedWindowConfig{Window: "x"}})
	assert.Error(t, err)

	_, err = NewRateLimiter(config.RateLimiterConfig{Algorithm: "leakyBucket"})
	assert.Error(t, err)
}

func TestNewCircuitBreaker(t *testing.T) {
	_, err := NewCircuitBreaker(config.CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Timeout: "10s"})
	assert.NoError(t, err)

	_, err = NewCircuitBreaker(config.CircuitBreakerConfig{Timeout: "ten seconds"})
	assert.Error(t, err)
}
