package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionDeposit          AuditAction = "DEPOSIT"
	AuditActionRequestWithdraw  AuditAction = "REQUEST_WITHDRAW"
	AuditActionCancelWithdraw   AuditAction = "CANCEL_WITHDRAW"
	AuditActionProcessWithdraw  AuditAction = "PROCESS_WITHDRAW"
	AuditActionWalletConnect    AuditAction = "WALLET_CONNECT"
	AuditActionWalletDisconnect AuditAction = "WALLET_DISCONNECT"
)

// AuditActionFor maps an action kind to its audit action.
func AuditActionFor(kind ActionKind) AuditAction {
	return AuditAction(kind)
}

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Wallet       *string     `json:"wallet,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
