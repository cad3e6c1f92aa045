package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const actionColumns = `id, kind, wallet, reference_id, amount, batch_index, target_index,
		signature, status, error, created_at, completed_at`

// ActionRepo implements ports.ActionRepository.
type ActionRepo struct {
	pool Pool
}

// NewActionRepo creates a new ActionRepo.
func NewActionRepo(pool Pool) *ActionRepo {
	return &ActionRepo{pool: pool}
}

// Create journals a signed action.
func (r *ActionRepo) Create(ctx context.Context, a *domain.ActionRecord) error {
	query := `INSERT INTO vault_actions (` + actionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Kind, a.Wallet, a.ReferenceID,
		a.Amount, a.BatchIndex, a.TargetIndex,
		a.Signature, a.Status, a.Error,
		a.CreatedAt, a.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// GetByReference fetches an action by wallet and reference ID.
func (r *ActionRepo) GetByReference(ctx context.Context, wallet, referenceID string) (*domain.ActionRecord, error) {
	query := `SELECT ` + actionColumns + `
		FROM vault_actions WHERE wallet = $1 AND reference_id = $2`

	return r.scanAction(r.pool.QueryRow(ctx, query, wallet, referenceID))
}

// UpdateStatus moves an action to status.
func (r *ActionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ActionStatus, errMsg *string, completedAt time.Time) error {
	query := `UPDATE vault_actions SET status = $1, error = $2, completed_at = $3 WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, status, errMsg, completedAt, id)
	if err != nil {
		return fmt.Errorf("update action status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("action not found: %s", id)
	}
	return nil
}

// List fetches actions with filtering and pagination, newest first.
func (r *ActionRepo) List(ctx context.Context, params ports.ActionListParams) ([]domain.ActionRecord, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Wallet != "" {
		conditions = append(conditions, fmt.Sprintf("wallet = $%d", argIdx))
		args = append(args, params.Wallet)
		argIdx++
	}
	if params.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, *params.Kind)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM vault_actions %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count actions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s
		FROM vault_actions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, actionColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	actions := []domain.ActionRecord{}
	for rows.Next() {
		a := domain.ActionRecord{}
		if err := rows.Scan(actionDest(&a)...); err != nil {
			return nil, 0, fmt.Errorf("scan action row: %w", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate action rows: %w", err)
	}
	return actions, total, nil
}

// scanAction is a helper to scan a single row into an ActionRecord.
func (r *ActionRepo) scanAction(row pgx.Row) (*domain.ActionRecord, error) {
	a := &domain.ActionRecord{}
	if err := row.Scan(actionDest(a)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan action: %w", err)
	}
	return a, nil
}

func actionDest(a *domain.ActionRecord) []any {
	return []any{
		&a.ID, &a.Kind, &a.Wallet, &a.ReferenceID,
		&a.Amount, &a.BatchIndex, &a.TargetIndex,
		&a.Signature, &a.Status, &a.Error,
		&a.CreatedAt, &a.CompletedAt,
	}
}
