package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const noncePrefix = "nonce"

// NonceStore remembers operator request nonces until their replay window
// closes. Each key holds the unix millisecond time the nonce was first seen.
type NonceStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewNonceStore(client goredis.UniversalClient) *NonceStore {
	return &NonceStore{client: client, now: time.Now}
}

func nonceKey(accessKey, nonce string) string {
	return noncePrefix + ":" + accessKey + ":" + nonce
}

// CheckAndSet claims nonce for accessKey. It returns false when the nonce was
// already claimed inside ttl.
func (s *NonceStore) CheckAndSet(ctx context.Context, accessKey string, nonce string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, nonceKey(accessKey, nonce), s.now().UnixMilli(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis nonce claim %s: %w", accessKey, err)
	}
	return claimed, nil
}
