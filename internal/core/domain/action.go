package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActionKind identifies a mutating vault action.
type ActionKind string

const (
	ActionKindDeposit         ActionKind = "DEPOSIT"
	ActionKindRequestWithdraw ActionKind = "REQUEST_WITHDRAW"
	ActionKindCancelWithdraw  ActionKind = "CANCEL_WITHDRAW"
	ActionKindProcessWithdraw ActionKind = "PROCESS_WITHDRAW"
)

// ActionStatus represents the lifecycle state of a submitted action.
type ActionStatus string

const (
	ActionStatusPending   ActionStatus = "PENDING"
	ActionStatusConfirmed ActionStatus = "CONFIRMED"
	ActionStatusFailed    ActionStatus = "FAILED"
)

// ActionRecord is the journal entry of a signed vault transaction.
type ActionRecord struct {
	ID          uuid.UUID        `json:"id"`
	Kind        ActionKind       `json:"kind"`
	Wallet      string           `json:"wallet"`
	ReferenceID string           `json:"reference_id"`
	Amount      *decimal.Decimal `json:"amount,omitempty"` // deposit amount or withdraw shares
	BatchIndex  *uint64          `json:"batch_index,omitempty"`
	TargetIndex uint64           `json:"target_index"` // deposit or withdraw index
	Signature   string           `json:"signature"`
	Status      ActionStatus     `json:"status"`
	Error       *string          `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// IsTerminal returns true once the action has been confirmed or failed.
func (a *ActionRecord) IsTerminal() bool {
	return a.Status == ActionStatusConfirmed || a.Status == ActionStatusFailed
}

// BuildIdempotencyKey constructs the standard key format "wallet:reference_id".
func BuildIdempotencyKey(wallet, referenceID string) string {
	return wallet + ":" + referenceID
}

// ShortAddress renders an address as first4...last4.
func ShortAddress(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}
