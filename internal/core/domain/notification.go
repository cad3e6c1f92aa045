package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationStatus represents the delivery state of a webhook notification.
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "PENDING"
	NotificationStatusDelivered NotificationStatus = "DELIVERED"
	NotificationStatusFailed    NotificationStatus = "FAILED"
)

// NotificationDelivery records each webhook delivery attempt of a vault event.
type NotificationDelivery struct {
	ID         uuid.UUID          `json:"id"`
	EventKind  VaultEventKind     `json:"event_kind"`
	BatchIndex uint64             `json:"batch_index"`
	WebhookURL string             `json:"webhook_url"`
	Payload    string             `json:"payload"` // JSON string
	HTTPStatus *int               `json:"http_status"`
	Attempt    int                `json:"attempt"`
	Status     NotificationStatus `json:"status"`
	LastError  *string            `json:"last_error"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
