// Package cache provides an optional redis-backed page cache for fetched
// source documents. A nil cache is valid and degrades to a no-op, so the
// worker keeps running when redis is unavailable.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"raceseries/internal/metrics"
)

// Config holds redis connection settings.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// PageCache caches raw fetched documents keyed by source URL.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache connects to redis and verifies the connection.
func NewPageCache(cfg Config, ttl time.Duration) (*PageCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("port", cfg.Port).Msg("Page cache connected")
	return &PageCache{client: client, ttl: ttl}, nil
}

// Get returns the cached document for a URL, or nil on a miss.
func (c *PageCache) Get(ctx context.Context, url string) []byte {
	if c == nil {
		return nil
	}
	body, err := c.client.Get(ctx, key(url)).Bytes()
	if err == redis.Nil {
		metrics.CacheMissesTotal.Inc()
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Page cache read failed")
		return nil
	}
	metrics.CacheHitsTotal.Inc()
	return body
}

// Set stores a fetched document. Failures are logged, never fatal.
func (c *PageCache) Set(ctx context.Context, url string, body []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key(url), body, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Page cache write failed")
	}
}

// Close releases the redis connection.
func (c *PageCache) Close() {
	if c != nil && c.client != nil {
		_ = c.client.Close()
	}
}

func key(url string) string {
	return "raceseries:page:" + url
}
