package ports

import (
	"context"
	"time"

	"vault-dashboard/internal/core/domain"

	"github.com/google/uuid"
)

// ActionRepository is the journal of submitted vault actions.
type ActionRepository interface {
	Create(ctx context.Context, action *domain.ActionRecord) error
	// GetByReference returns nil, nil when no action exists for the pair.
	GetByReference(ctx context.Context, wallet, referenceID string) (*domain.ActionRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ActionStatus, errMsg *string, completedAt time.Time) error
	List(ctx context.Context, params ActionListParams) ([]domain.ActionRecord, int64, error)
}

// ActionListParams holds filter + pagination for listing actions.
type ActionListParams struct {
	Wallet   string
	Kind     *domain.ActionKind
	Status   *domain.ActionStatus
	Page     int
	PageSize int
}

// VaultHistoryRepository stores one point per successful vault refresh.
type VaultHistoryRepository interface {
	Record(ctx context.Context, point *domain.VaultHistoryPoint) error
	// ListSince returns points oldest first. A nil since returns all points.
	ListSince(ctx context.Context, vaultName string, since *time.Time) ([]domain.VaultHistoryPoint, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// NotificationRepository persists webhook delivery attempts.
type NotificationRepository interface {
	Create(ctx context.Context, delivery *domain.NotificationDelivery) error
	Update(ctx context.Context, delivery *domain.NotificationDelivery) error
}
