package httpmiddleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"filmoteca/backend/go/internal/models"
	"filmoteca/backend/go/pkg/circuitbreaker"
	"filmoteca/backend/go/pkg/logger"
	"filmoteca/backend/go/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceHeader carries the request trace id in and out.
	TraceHeader = "X-Request-ID"
	loggerKey   = "logger"
)

// RateLimit rejects requests with 429 once the limiter says no.
func RateLimit(limiter ratelimiter.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.String(http.StatusTooManyRequests, "Too Many Requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CircuitBreak applies the circuit breaker pattern to the rest of the chain.
// Responses with status >= 500 count as failures.
func CircuitBreak(breaker circuitbreaker.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := breaker.Execute(func() error {
			c.Next()
			if status := c.Writer.Status(); status >= http.StatusInternalServerError {
				return fmt.Errorf("server error: status code %d", status)
			}
			return nil
		})
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			c.String(http.StatusServiceUnavailable, "Service Unavailable: Circuit Breaker is open")
			c.Abort()
		}
	}
}

// RequestLogger attaches a per-request logger carrying a trace id and writes
// one access log line when the request completes.
func RequestLogger(base *logger.Logger) gin.HandlerFunc {
	if base == nil {
		base = logger.New("http", "", "")
	}
	return func(c *gin.Context) {
		start := time.Now()
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Header(TraceHeader, traceID)

		reqLog := base.WithTraceID(traceID)
		c.Set(loggerKey, reqLog)

		c.Next()

		info := models.RequestInfo{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			Query:      c.Request.URL.RawQuery,
			RemoteAddr: c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     c.Writer.Status(),
			LatencyMS:  time.Since(start).Milliseconds(),
		}
		entry := reqLog.WithRequest(info)
		switch {
		case info.Status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case info.Status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// LoggerFrom returns the request logger set by RequestLogger, or fallback.
func LoggerFrom(c *gin.Context, fallback *logger.Logger) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return fallback
}
