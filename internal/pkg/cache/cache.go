// Package cache is a small JSON cache on top of Redis. A Cache built without
// an address is disabled: reads always miss and writes are dropped.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrMiss is returned by Get when the key is not cached
var ErrMiss = errors.New("cache miss")

// Config holds Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Cache stores JSON encoded values in Redis
type Cache struct {
	rdb    redis.UniversalClient
	logger zerolog.Logger
}

// New connects to Redis. When Addr is empty, or the server does not answer a
// ping, the returned cache is disabled and the application keeps working
// without it.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) *Cache {
	if cfg.Addr == "" {
		logger.Warn().Msg("REDIS_ADDR not set, caching disabled")
		return &Cache{logger: logger}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error().Err(err).Str("addr", cfg.Addr).Msg("Failed to connect to Redis, caching disabled")
		_ = rdb.Close()
		return &Cache{logger: logger}
	}

	logger.Info().Str("addr", cfg.Addr).Msg("Connected to Redis")
	return &Cache{rdb: rdb, logger: logger}
}

// NewWithClient wraps an existing client
func NewWithClient(rdb redis.UniversalClient, logger zerolog.Logger) *Cache {
	return &Cache{rdb: rdb, logger: logger}
}

// Enabled reports whether a Redis client is attached
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get decodes the cached value for key into dst
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) error {
	if !c.Enabled() {
		return ErrMiss
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("Redis GET command failed")
		return fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached value")
		return ErrMiss
	}
	return nil
}

// Set stores value under key for ttl
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("Redis SET command failed")
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error().Err(err).Strs("keys", keys).Msg("Redis DEL command failed")
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
