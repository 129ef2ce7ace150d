package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"filmoteca/backend/go/pkg/circuitbreaker"
	"filmoteca/backend/go/pkg/util"

	"github.com/go-redis/redis/v8"
)

// RelatedCache 缓存每部影片排好序的相关影片 ID。
type RelatedCache interface {
	// Get 返回缓存的 ID 列表；未命中时 ok 为 false。
	Get(ctx context.Context, movieID uint) (ids []uint, ok bool, err error)
	Set(ctx context.Context, movieID uint, ids []uint) error
	// Purge 清空所有缓存（导入数据后调用）。
	Purge(ctx context.Context) error
	Ping(ctx context.Context) error
}

// --- 不缓存 ---

// NoopCache 不缓存任何内容。
type NoopCache struct{}

func (NoopCache) Get(context.Context, uint) ([]uint, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, uint, []uint) error         { return nil }
func (NoopCache) Purge(context.Context) error                     { return nil }
func (NoopCache) Ping(context.Context) error                      { return nil }

// --- 进程内缓存 ---

// MemoryCache 是基于 LRU 的进程内缓存。
type MemoryCache struct {
	lru *util.LRUCache[uint, []uint]
}

// NewMemoryCache 创建一个进程内缓存。
func NewMemoryCache(capacity int, ttl time.Duration) (*MemoryCache, error) {
	lru, err := util.NewWithConfig[uint, []uint](util.CacheConfig{Capacity: capacity, TTL: ttl})
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: lru}, nil
}

func (c *MemoryCache) Get(_ context.Context, movieID uint) ([]uint, bool, error) {
	ids, ok := c.lru.Get(movieID)
	return ids, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, movieID uint, ids []uint) error {
	c.lru.Put(movieID, append([]uint(nil), ids...))
	return nil
}

func (c *MemoryCache) Purge(context.Context) error {
	c.lru.Purge()
	return nil
}

func (c *MemoryCache) Ping(context.Context) error { return nil }

// --- Redis 缓存 ---

const redisKeyPrefix = "filmoteca:related:"

// RedisCache 将相关影片 ID 以 JSON 形式存入 Redis。
// 所有调用都经过熔断器，Redis 不可用时快速失败。
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker circuitbreaker.CircuitBreaker
}

// NewRedisCache 创建 Redis 缓存。breaker 为 nil 时使用默认熔断器（5 次失败，30 秒）。
func NewRedisCache(client *redis.Client, ttl time.Duration, breaker circuitbreaker.CircuitBreaker) *RedisCache {
	if breaker == nil {
		breaker = circuitbreaker.New(5, 1, 30*time.Second)
	}
	return &RedisCache{client: client, ttl: ttl, breaker: breaker}
}

func redisKey(movieID uint) string {
	return redisKeyPrefix + strconv.FormatUint(uint64(movieID), 10)
}

func (c *RedisCache) Get(ctx context.Context, movieID uint) ([]uint, bool, error) {
	var raw []byte
	err := c.breaker.Execute(func() error {
		var err error
		raw, err = c.client.Get(ctx, redisKey(movieID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	if raw == nil {
		return nil, false, nil
	}

	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, fmt.Errorf("decode cached ids: %w", err)
	}
	return ids, true, nil
}

func (c *RedisCache) Set(ctx context.Context, movieID uint, ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode ids: %w", err)
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, redisKey(movieID), raw, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Purge 删除所有带前缀的键。使用 SCAN 以免阻塞 Redis。
func (c *RedisCache) Purge(ctx context.Context) error {
	return c.breaker.Execute(func() error {
		iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) == 0 {
			return nil
		}
		return c.client.Del(ctx, keys...).Err()
	})
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.breaker.Execute(func() error {
		return c.client.Ping(ctx).Err()
	})
}
