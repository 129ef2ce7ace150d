package service

import (
	"fmt"
	"time"

	"filmoteca/backend/go/internal/config"
	redisdb "filmoteca/backend/go/internal/database/redis"
	"filmoteca/backend/go/pkg/circuitbreaker"
	"filmoteca/backend/go/pkg/logger"
)

// LimitsFromConfig 从 catalog 配置中读取数量上限。
func LimitsFromConfig(cfg config.CatalogConfig) Limits {
	return Limits{
		ActorMovies:   cfg.ActorMovieLimit,
		RelatedMovies: cfg.RelatedMovieLimit,
	}
}

// NewCacheFromConfig 按 cache.backend 创建相关影片缓存。
// Redis 启动时不可达只记录警告，之后由熔断器保护每次调用。
func NewCacheFromConfig(cfg *config.AppConfig, log *logger.Logger) (RelatedCache, error) {
	if log == nil {
		log = logger.New("catalog_service", "", "")
	}
	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		return nil, err
	}

	switch cfg.Cache.Backend {
	case "none":
		return NoopCache{}, nil
	case "memory":
		return NewMemoryCache(cfg.Cache.Capacity, ttl)
	case "redis":
		client, err := redisdb.GetClient(&cfg.Databases.Redis)
		if err != nil {
			log.WithPayload(map[string]interface{}{"error": err.Error()}).
				Warn("redis unavailable at startup, related movies will be computed on every request until it recovers")
			client = redisdb.NewClient(&cfg.Databases.Redis)
		}
		return NewRedisCache(client, ttl, cacheBreaker(cfg.Middleware.CircuitBreaker)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

func cacheBreaker(cfg config.CircuitBreakerConfig) circuitbreaker.CircuitBreaker {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	failures := cfg.FailureThreshold
	if failures == 0 {
		failures = 5
	}
	return circuitbreaker.New(failures, cfg.SuccessThreshold, timeout)
}
