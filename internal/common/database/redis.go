// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"fantasy-research/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis returns nil without error when no address is configured; the
// insight store then reads the current week straight from Postgres.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb}, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Cmdable exposes the client to cache consumers; a nil receiver yields nil.
func (c *RedisClient) Cmdable() redis.Cmdable {
	if c == nil {
		return nil
	}
	return c.Client
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c != nil && c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
