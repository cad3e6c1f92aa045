package evaluator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vault-dashboard/internal/core/domain"
)

// UserPosition is the derived view of a user's stake.
type UserPosition struct {
	Shares                      decimal.Decimal `json:"shares"`
	AvailableShares             decimal.Decimal `json:"available_shares"`
	LockedShares                decimal.Decimal `json:"locked_shares"`
	TotalDeposited              decimal.Decimal `json:"total_deposited"`
	Value                       decimal.Decimal `json:"value"`
	Earnings                    decimal.Decimal `json:"earnings"`
	DepositCount                uint64          `json:"deposit_count"`
	RequestedShareWithdrawCount uint64          `json:"requested_share_withdraw_count"`
}

// ComputePosition derives shares and earnings for user at sharePrice.
// A nil user has no account yet and gets the zero position.
//
// Earnings is shares*sharePrice minus total deposited. It ignores deposit fees
// and deposits still waiting for their batch to convert, so it is an estimate.
// Derived values are truncated to decimals places.
func ComputePosition(user *domain.UserSnapshot, sharePrice decimal.Decimal, decimals uint8) (UserPosition, error) {
	if user == nil {
		return UserPosition{
			Shares:          decimal.Zero,
			AvailableShares: decimal.Zero,
			LockedShares:    decimal.Zero,
			TotalDeposited:  decimal.Zero,
			Value:           decimal.Zero,
			Earnings:        decimal.Zero,
		}, nil
	}

	available := user.CurrentShares.Sub(user.InProcessShareWithdraw)
	if available.IsNegative() {
		return UserPosition{}, fmt.Errorf("%w: current %s, in process %s",
			domain.ErrInconsistentPosition, user.CurrentShares, user.InProcessShareWithdraw)
	}

	value := user.CurrentShares.Mul(sharePrice).Truncate(int32(decimals))

	return UserPosition{
		Shares:                      user.CurrentShares,
		AvailableShares:             available,
		LockedShares:                user.InProcessShareWithdraw,
		TotalDeposited:              user.TotalDepositAmount,
		Value:                       value,
		Earnings:                    value.Sub(user.TotalDepositAmount),
		DepositCount:                user.DepositCount,
		RequestedShareWithdrawCount: user.RequestedShareWithdrawCount,
	}, nil
}

// WithdrawalView is a classified withdraw request.
type WithdrawalView struct {
	WithdrawIndex uint64                `json:"withdraw_index"`
	Shares        decimal.Decimal       `json:"shares"`
	CanWithdrawAt time.Time             `json:"can_withdraw_at"`
	Status        domain.WithdrawStatus `json:"status"`
	IsReady       bool                  `json:"is_ready"`
}

// ClassifyWithdrawal reports whether a request can be claimed at now.
func ClassifyWithdrawal(record domain.WithdrawRecord, now time.Time) WithdrawalView {
	return WithdrawalView{
		WithdrawIndex: record.WithdrawIndex,
		Shares:        record.RequestedShares,
		CanWithdrawAt: record.CanWithdrawAt,
		Status:        record.Status,
		IsReady:       record.Status == domain.WithdrawStatusRequested && !now.Before(record.CanWithdrawAt),
	}
}

// PendingWithdrawals keeps only Requested records, in input order.
func PendingWithdrawals(records []domain.WithdrawRecord, now time.Time) []WithdrawalView {
	out := make([]WithdrawalView, 0, len(records))
	for _, r := range records {
		if r.Status != domain.WithdrawStatusRequested {
			continue
		}
		out = append(out, ClassifyWithdrawal(r, now))
	}
	return out
}

// DepositView is a classified deposit record.
type DepositView struct {
	DepositIndex uint64               `json:"deposit_index"`
	BatchIndex   uint64               `json:"batch_index"`
	Amount       decimal.Decimal      `json:"amount"`
	Fee          decimal.Decimal      `json:"fee"`
	Status       domain.DepositStatus `json:"status"`
	IsPending    bool                 `json:"is_pending"`
}

// ClassifyDeposit marks a deposit pending until the vault has processed it.
func ClassifyDeposit(record domain.DepositRecord) DepositView {
	return DepositView{
		DepositIndex: record.DepositIndex,
		BatchIndex:   record.BatchIndex,
		Amount:       record.Amount,
		Fee:          record.Fee,
		Status:       record.Status,
		IsPending:    record.Status != domain.DepositStatusProcessed,
	}
}

// PendingDeposits keeps deposits not yet processed, in input order.
func PendingDeposits(records []domain.DepositRecord) []DepositView {
	out := make([]DepositView, 0, len(records))
	for _, r := range records {
		v := ClassifyDeposit(r)
		if v.IsPending {
			out = append(out, v)
		}
	}
	return out
}
