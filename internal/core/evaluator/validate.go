package evaluator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MinDepositAmount is the default smallest accepted deposit in token units.
var MinDepositAmount = decimal.NewFromInt(10)

var (
	ErrBelowMinimum       = errors.New("deposit amount below minimum")
	ErrExceedsBalance     = errors.New("deposit amount exceeds balance")
	ErrNonPositiveShares  = errors.New("withdraw shares must be positive")
	ErrInsufficientShares = errors.New("withdraw shares exceed available shares")
)

// ValidateDeposit checks minimum <= amount <= balance.
func ValidateDeposit(amount, balance, minimum decimal.Decimal) error {
	if amount.LessThan(minimum) {
		return ErrBelowMinimum
	}
	if amount.GreaterThan(balance) {
		return ErrExceedsBalance
	}
	return nil
}

// ValidateWithdraw checks 0 < shares <= available.
func ValidateWithdraw(shares, available decimal.Decimal) error {
	if !shares.IsPositive() {
		return ErrNonPositiveShares
	}
	if shares.GreaterThan(available) {
		return ErrInsufficientShares
	}
	return nil
}

// SharesReceived quotes how many shares amount buys at sharePrice.
func SharesReceived(amount, sharePrice decimal.Decimal, decimals uint8) decimal.Decimal {
	if !sharePrice.IsPositive() {
		return decimal.Zero
	}
	return amount.DivRound(sharePrice, int32(decimals)+1).Truncate(int32(decimals))
}
