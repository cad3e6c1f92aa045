package dto

import (
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/evaluator"
	"vault-dashboard/internal/core/ports"
)

// DepositRequest is the request body for POST /actions/deposit.
type DepositRequest struct {
	ReferenceID string `json:"reference_id" binding:"required,max=100,safe_id"`
	Amount      string `json:"amount" binding:"required,decimal_amount"`
}

// WithdrawRequest is the request body for POST /actions/withdrawals.
type WithdrawRequest struct {
	ReferenceID string `json:"reference_id" binding:"required,max=100,safe_id"`
	Shares      string `json:"shares" binding:"required,decimal_amount"`
}

// ActionRequest is the request body for cancel and process withdrawal.
type ActionRequest struct {
	ReferenceID string `json:"reference_id" binding:"required,max=100,safe_id"`
}

// QuoteQuery holds GET /vault/quote parameters.
type QuoteQuery struct {
	Amount string `form:"amount" binding:"required,decimal_amount"`
}

// PerformanceQuery holds GET /vault/performance parameters.
type PerformanceQuery struct {
	Period string `form:"period" binding:"omitempty,oneof=day week month all"`
}

// ActionListQuery holds GET /actions filters.
type ActionListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED FAILED"`
	Kind     string `form:"kind" binding:"omitempty,oneof=DEPOSIT REQUEST_WITHDRAW CANCEL_WITHDRAW PROCESS_WITHDRAW"`
	Wallet   string `form:"wallet" binding:"omitempty,solana_address"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ActionResponse is the response body for a journaled vault action.
type ActionResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Wallet      string  `json:"wallet"`
	ReferenceID string  `json:"reference_id"`
	Amount      *string `json:"amount,omitempty"`
	BatchIndex  *uint64 `json:"batch_index,omitempty"`
	TargetIndex uint64  `json:"target_index"`
	Signature   string  `json:"signature"`
	Status      string  `json:"status"`
	Error       *string `json:"error,omitempty"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

// NewActionResponse converts a journal record to its response form.
func NewActionResponse(a *domain.ActionRecord) ActionResponse {
	resp := ActionResponse{
		ID:          a.ID.String(),
		Kind:        string(a.Kind),
		Wallet:      a.Wallet,
		ReferenceID: a.ReferenceID,
		BatchIndex:  a.BatchIndex,
		TargetIndex: a.TargetIndex,
		Signature:   a.Signature,
		Status:      string(a.Status),
		Error:       a.Error,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.Amount != nil {
		s := a.Amount.String()
		resp.Amount = &s
	}
	if a.CompletedAt != nil {
		s := a.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

// VaultResponse is the vault overview with its refresh status.
type VaultResponse struct {
	Overview    *ports.VaultOverview `json:"overview"`
	RefreshedAt *time.Time           `json:"refreshed_at,omitempty"`
	LastError   string               `json:"last_error,omitempty"`
}

// BatchResponse is the current deposit eligibility with its refresh status.
type BatchResponse struct {
	Eligibility *evaluator.DepositEligibility `json:"eligibility"`
	RefreshedAt *time.Time                    `json:"refreshed_at,omitempty"`
	LastError   string                        `json:"last_error,omitempty"`
}

// WalletResponse is the connected wallet and its cached view.
type WalletResponse struct {
	Connected    bool            `json:"connected"`
	Address      string          `json:"address,omitempty"`
	ShortAddress string          `json:"short_address,omitempty"`
	View         *ports.UserView `json:"view,omitempty"`
	RefreshedAt  *time.Time      `json:"refreshed_at,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
}
