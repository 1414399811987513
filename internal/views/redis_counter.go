// Package views provides Redis-backed page view counters for content pages.
package views

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter counts page views per (category, slug) page.
type Counter struct {
	client *redis.Client
	prefix string
}

// NewCounter creates a Redis-backed view counter.
func NewCounter(redisURL string) (*Counter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Counter{
		client: client,
		prefix: "views:",
	}, nil
}

// NewCounterWithClient creates a counter from an existing Redis client.
func NewCounterWithClient(client *redis.Client) *Counter {
	return &Counter{
		client: client,
		prefix: "views:",
	}
}

func (c *Counter) key(category, slug string) string {
	return c.prefix + category + "/" + slug
}

// Increment records one view and returns the new total.
func (c *Counter) Increment(ctx context.Context, category, slug string) (int64, error) {
	total, err := c.client.Incr(ctx, c.key(category, slug)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment views for %s/%s: %w", category, slug, err)
	}
	return total, nil
}

// Count returns the current total. Pages never viewed report zero.
func (c *Counter) Count(ctx context.Context, category, slug string) (int64, error) {
	total, err := c.client.Get(ctx, c.key(category, slug)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read views for %s/%s: %w", category, slug, err)
	}
	return total, nil
}

// Close closes the Redis connection.
func (c *Counter) Close() error {
	return c.client.Close()
}

// Ping checks if Redis is reachable.
func (c *Counter) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
