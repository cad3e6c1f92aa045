package postgres

import (
	"context"
	"errors"
	"fmt"
)

// errSchemaMissing means the database answers but migrations never ran.
var errSchemaMissing = errors.New("vault_actions table missing")

// HealthCheck reports PostgreSQL as healthy once the action journal exists.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	var migrated bool
	if err := h.pool.QueryRow(ctx, `SELECT to_regclass('vault_actions') IS NOT NULL`).Scan(&migrated); err != nil {
		return fmt.Errorf("postgres health: %w", err)
	}
	if !migrated {
		return errSchemaMissing
	}
	return nil
}

func (h *HealthCheck) Name() string { return "postgresql" }
