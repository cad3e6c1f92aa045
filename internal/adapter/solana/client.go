package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vault-dashboard/config"
	"vault-dashboard/pkg/metrics"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const breakerName = "solana-rpc"

// Client wraps the JSON-RPC client with a circuit breaker. Every adapter in
// this package talks to the cluster through it.
type Client struct {
	rpc        *rpc.Client
	breaker    *gobreaker.CircuitBreaker[any]
	commitment rpc.CommitmentType
	log        zerolog.Logger
}

// NewClient builds a rate-limited RPC client for cfg.RPCURL.
func NewClient(cfg config.VaultConfig, m *metrics.Registry, log zerolog.Logger) *Client {
	limit := cfg.RPCRateLimit
	if limit <= 0 {
		limit = 10
	}
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}
	inner := rpc.NewWithCustomRPCClient(rpc.NewWithLimiter(cfg.RPCURL, rate.Limit(limit), burst))
	return newClient(inner, rpc.CommitmentType(cfg.Commitment), m, log)
}

func newClient(inner *rpc.Client, commitment rpc.CommitmentType, m *metrics.Registry, log zerolog.Logger) *Client {
	st := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.SetBreakerState(name, int(to))
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("RPC circuit breaker state changed")
		},
		// A missing account is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, rpc.ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	}
	m.SetBreakerState(breakerName, int(gobreaker.StateClosed))

	return &Client{
		rpc:        inner,
		breaker:    gobreaker.NewCircuitBreaker[any](st),
		commitment: commitment,
		log:        log,
	}
}

// call runs fn through the breaker.
func call[T any](c *Client, method string, fn func() (T, error)) (T, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", method, err)
		}
		return zero, err
	}
	return out.(T), nil
}

// Close releases the underlying HTTP transport.
func (c *Client) Close() error {
	return c.rpc.Close()
}

// HealthCheck implements ports.HealthChecker for the RPC node.
type HealthCheck struct {
	client *Client
}

func NewHealthCheck(client *Client) *HealthCheck {
	return &HealthCheck{client: client}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	status, err := call(h.client, "getHealth", func() (string, error) {
		return h.client.rpc.GetHealth(ctx)
	})
	if err != nil {
		return fmt.Errorf("rpc get health: %w", err)
	}
	if status != rpc.HealthOk {
		return fmt.Errorf("rpc node unhealthy: %s", status)
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return breakerName
}
