package postgres

import (
	"context"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"
)

type notificationRepo struct {
	pool Pool
}

// NewNotificationRepository creates a PostgreSQL-backed NotificationRepository.
func NewNotificationRepository(pool Pool) ports.NotificationRepository {
	return &notificationRepo{pool: pool}
}

func (r *notificationRepo) Create(ctx context.Context, d *domain.NotificationDelivery) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notification_deliveries
		(id, event_kind, batch_index, webhook_url, payload, http_status, attempt, status, last_error, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		d.ID, string(d.EventKind), d.BatchIndex, d.WebhookURL,
		d.Payload, d.HTTPStatus, d.Attempt, string(d.Status),
		d.LastError, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *notificationRepo) Update(ctx context.Context, d *domain.NotificationDelivery) error {
	d.UpdatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`UPDATE notification_deliveries
		 SET http_status=$1, attempt=$2, status=$3, last_error=$4, updated_at=$5
		 WHERE id=$6`,
		d.HTTPStatus, d.Attempt, string(d.Status),
		d.LastError, d.UpdatedAt, d.ID,
	)
	return err
}
