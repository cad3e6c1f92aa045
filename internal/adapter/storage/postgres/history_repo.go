package postgres

import (
	"context"
	"fmt"
	"time"

	"vault-dashboard/internal/core/domain"
)

// HistoryRepo implements ports.VaultHistoryRepository.
type HistoryRepo struct {
	pool Pool
}

func NewHistoryRepo(pool Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

// Record inserts one history point.
func (r *HistoryRepo) Record(ctx context.Context, p *domain.VaultHistoryPoint) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO vault_history (vault_name, batch_index, share_price, tvl, recorded_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.VaultName, p.BatchIndex, p.SharePrice, p.TVL, p.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vault history: %w", err)
	}
	return nil
}

// ListSince returns the points of vaultName recorded at or after since,
// oldest first. A nil since returns the full history.
func (r *HistoryRepo) ListSince(ctx context.Context, vaultName string, since *time.Time) ([]domain.VaultHistoryPoint, error) {
	query := `SELECT vault_name, batch_index, share_price, tvl, recorded_at
		FROM vault_history WHERE vault_name = $1`
	args := []any{vaultName}
	if since != nil {
		query += ` AND recorded_at >= $2`
		args = append(args, *since)
	}
	query += ` ORDER BY recorded_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vault history: %w", err)
	}
	defer rows.Close()

	points := []domain.VaultHistoryPoint{}
	for rows.Next() {
		var p domain.VaultHistoryPoint
		if err := rows.Scan(&p.VaultName, &p.BatchIndex, &p.SharePrice, &p.TVL, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan vault history row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
