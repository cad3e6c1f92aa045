package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func TestIdempotencyCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	key := testWallet + ":dep-001"
	value := []byte(`{"id":"abc","kind":"DEPOSIT","status":"CONFIRMED"}`)

	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result)

	require.NoError(t, cache.Set(ctx, key, value, 24*time.Hour))

	result, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, result)

	// stored under the action namespace
	assert.True(t, s.Exists("action:"+key))
	assert.Equal(t, 24*time.Hour, s.TTL("action:"+key))
}

func TestIdempotencyCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	key := testWallet + ":wd-002"
	require.NoError(t, cache.Set(ctx, key, []byte(`{"data":"test"}`), time.Second))

	s.FastForward(2 * time.Second)

	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result, "expired key should return nil")
}

func TestIdempotencyCache_FirstResultWins(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	key := testWallet + ":dep-003"
	require.NoError(t, cache.Set(ctx, key, []byte("first"), time.Hour))
	require.NoError(t, cache.Set(ctx, key, []byte("second"), time.Hour))

	result, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), result)
}

func TestIdempotencyCache_ServerDown(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr(), MaxRetries: -1})
	cache := NewIdempotencyCache(client)
	s.Close()

	_, err := cache.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis idempotency get")

	err = cache.Set(context.Background(), "k", []byte("v"), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis idempotency set")
}
