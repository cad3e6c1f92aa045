package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyCache stores finished actions as JSON under
// "action:<wallet>:<reference_id>". The first stored result for a key is
// authoritative until it expires.
type IdempotencyCache struct {
	client goredis.UniversalClient
}

func NewIdempotencyCache(client goredis.UniversalClient) *IdempotencyCache {
	return &IdempotencyCache{client: client}
}

func actionKey(key string) string { return "action:" + key }

// Get returns nil, nil on a cache miss.
func (c *IdempotencyCache) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.client.Get(ctx, actionKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis idempotency get: %w", err)
	}
	return raw, nil
}

// Set records value unless key already holds a result.
func (c *IdempotencyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.SetNX(ctx, actionKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis idempotency set: %w", err)
	}
	return nil
}
