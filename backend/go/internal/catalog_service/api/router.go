package api

import (
	"fmt"

	"filmoteca/backend/go/internal/config"
	httpserver "filmoteca/backend/go/pkg/http"
	"filmoteca/backend/go/pkg/httpmiddleware"
	"filmoteca/backend/go/pkg/logger"
	"filmoteca/backend/go/pkg/prettyjoin"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置和返回一个 Gin 引擎实例。
func SetupRouter(h *Handler, cfg *config.AppConfig, log *logger.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.RequestLogger(log))

	if cfg.Middleware.RateLimiter.Enabled {
		limiter, err := httpserver.NewRateLimiter(cfg.Middleware.RateLimiter)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		r.Use(httpmiddleware.RateLimit(limiter))
	}
	if cfg.Middleware.CircuitBreaker.Enabled {
		breaker, err := httpserver.NewCircuitBreaker(cfg.Middleware.CircuitBreaker)
		if err != nil {
			return nil, fmt.Errorf("failed to create circuit breaker: %w", err)
		}
		r.Use(httpmiddleware.CircuitBreak(breaker))
	}

	tmpl, err := LoadTemplates(prettyjoin.Parse(cfg.Catalog.Language))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.MovieList)
	r.GET("/genero/:slug/", h.MovieList)
	r.GET("/ator/:slug/", h.ActorDetail)
	r.GET("/filme/:slug/", h.MovieDetail)
	r.GET("/healthz", h.Health)
	r.NoRoute(h.NotFound)

	return r, nil
}
