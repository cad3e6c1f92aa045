package redis

import (
	"context"
	"fmt"
	"time"

	"vault-dashboard/config"
	"vault-dashboard/pkg/retrier"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const clientName = "vault-dashboard"

// NewClient dials Redis and pings it, retrying cfg.ConnectRetries times so
// the dashboard can start alongside its Redis container.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(newOptions(cfg))

	r := retrier.New(
		retrier.WithInitialInterval(500*time.Millisecond),
		retrier.WithMaxInterval(5*time.Second),
		retrier.WithMaxRetries(cfg.ConnectRetries),
		retrier.WithOnRetry(func(attempt int, err error, wait time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("redis not ready, retrying")
		}),
	)
	if err := r.Do(ctx, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Msg("Redis connection established")

	return client, nil
}

func newOptions(cfg config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:       cfg.Addr(),
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: clientName,
	}
}
