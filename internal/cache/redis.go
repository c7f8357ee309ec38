// Package cache provides the Redis access layer: session revocation and
// rate limiting.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options tunes the Redis client.
type Options struct {
	PoolSize     int
	MinIdleConns int
	// KeyPrefix namespaces every key this process writes.
	KeyPrefix string
}

// DefaultOptions returns the pool settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "fintrack:",
	}
}

// Cache wraps a Redis client with the application's key layout.
type Cache struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// New connects to redisURL and verifies the connection with a PING.
func New(ctx context.Context, redisURL string, opts Options) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if opts.PoolSize > 0 {
		opt.PoolSize = opts.PoolSize
	}
	opt.MinIdleConns = opts.MinIdleConns
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Cache{client: client, prefix: opts.KeyPrefix, now: time.Now}, nil
}

// key joins parts under the configured prefix: "<prefix>a:b:c".
func (c *Cache) key(parts ...string) string {
	return c.prefix + strings.Join(parts, ":")
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the underlying client for integration tests.
func (c *Cache) Client() *redis.Client {
	return c.client
}
