// Package evaluator decides deposit eligibility and derives user positions
// from vault account snapshots. Every function is pure: the same snapshots
// and clock always produce the same result.
package evaluator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vault-dashboard/internal/core/domain"
)

// Reason explains a deposit eligibility outcome.
type Reason string

const (
	ReasonNoBatch      Reason = "NO_BATCH"
	ReasonNoOpenBatch  Reason = "NO_OPEN_BATCH"
	ReasonBatchClosing Reason = "BATCH_CLOSING"
	ReasonBatchMissing Reason = "BATCH_MISSING"
	ReasonBatchClosed  Reason = "BATCH_CLOSED"
	ReasonBatchExpired Reason = "BATCH_EXPIRED"
	ReasonEligible     Reason = "ELIGIBLE"
)

// BatchDetail is the batch view surfaced alongside an eligibility decision.
type BatchDetail struct {
	BatchIndex         uint64             `json:"batch_index"`
	Status             domain.BatchStatus `json:"status"`
	OpenAt             time.Time          `json:"open_at"`
	WillCloseAt        time.Time          `json:"will_close_at"`
	RemainingMinutes   int64              `json:"remaining_minutes"`
	SharePrice         decimal.Decimal    `json:"share_price"`
	TotalDepositAmount decimal.Decimal    `json:"total_deposit_amount"`
}

// DepositEligibility is the outcome of EvaluateDepositEligibility.
type DepositEligibility struct {
	CanDeposit        bool                    `json:"can_deposit"`
	Reason            Reason                  `json:"reason"`
	Message           string                  `json:"message"`
	CurrentBatchIndex uint64                  `json:"current_batch_index"`
	VaultBatchStatus  domain.VaultBatchStatus `json:"vault_batch_status"`
	Batch             *BatchDetail            `json:"batch,omitempty"`
}

// EvaluateDepositEligibility decides whether deposits are open. batch is the
// snapshot for vault.BatchCount, or nil when that account does not exist.
//
// Rules are checked in order and the first match wins:
// no batch, vault not open, batch missing, batch closed, batch expired.
func EvaluateDepositEligibility(vault domain.VaultSnapshot, batch *domain.BatchSnapshot, now time.Time) DepositEligibility {
	out := DepositEligibility{
		CurrentBatchIndex: vault.BatchCount,
		VaultBatchStatus:  vault.VaultBatchStatus,
	}

	if vault.BatchCount == 0 {
		return out.reject(ReasonNoBatch)
	}

	if vault.VaultBatchStatus != domain.VaultBatchStatusBatchOpen {
		if vault.VaultBatchStatus == domain.VaultBatchStatusBatchClose {
			return out.reject(ReasonBatchClosing)
		}
		// Draft and anything unrecognised fail closed.
		return out.reject(ReasonNoOpenBatch)
	}

	if batch == nil {
		return out.reject(ReasonBatchMissing)
	}

	if batch.Status == domain.BatchStatusClose {
		return out.reject(ReasonBatchClosed)
	}

	detail := &BatchDetail{
		BatchIndex:         batch.BatchIndex,
		Status:             batch.Status,
		OpenAt:             batch.OpenAt,
		WillCloseAt:        batch.WillCloseAt,
		SharePrice:         batch.SharePrice,
		TotalDepositAmount: batch.TotalDepositAmount,
	}

	if now.After(batch.WillCloseAt) {
		out.Batch = detail
		return out.reject(ReasonBatchExpired)
	}

	detail.RemainingMinutes = int64(batch.WillCloseAt.Sub(now) / time.Minute)
	out.Batch = detail
	out.CanDeposit = true
	out.Reason = ReasonEligible
	out.Message = Message(ReasonEligible, vault.BatchCount, detail.RemainingMinutes)
	return out
}

func (e DepositEligibility) reject(reason Reason) DepositEligibility {
	e.CanDeposit = false
	e.Reason = reason
	e.Message = Message(reason, e.CurrentBatchIndex, 0)
	return e
}

// Message renders the human-readable text for an eligibility reason.
func Message(reason Reason, batchIndex uint64, remainingMinutes int64) string {
	switch reason {
	case ReasonNoBatch:
		return "No batch created yet"
	case ReasonNoOpenBatch:
		return "No open batch"
	case ReasonBatchClosing:
		return "Batch closing"
	case ReasonBatchMissing:
		return fmt.Sprintf("Batch #%d is not initialized yet", batchIndex)
	case ReasonBatchClosed:
		return fmt.Sprintf("Batch #%d is closed", batchIndex)
	case ReasonBatchExpired:
		return fmt.Sprintf("Batch #%d has expired", batchIndex)
	case ReasonEligible:
		return fmt.Sprintf("Batch #%d is open, closes in %d minutes", batchIndex, remainingMinutes)
	default:
		return "Deposits unavailable"
	}
}
