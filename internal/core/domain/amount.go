package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrAmountOverflow = errors.New("amount exceeds u64 range")
)

var maxU64 = decimal.NewFromUint64(math.MaxUint64)

// FromBaseUnits scales a raw on-chain integer down by 10^decimals.
func FromBaseUnits(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromUint64(raw).Shift(-int32(decimals))
}

// ToBaseUnits scales a token amount up by 10^decimals. Digits beyond the
// mint precision are truncated.
func ToBaseUnits(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, ErrNegativeAmount
	}
	scaled := amount.Shift(int32(decimals)).Truncate(0)
	if scaled.GreaterThan(maxU64) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOverflow, amount.String())
	}
	return scaled.BigInt().Uint64(), nil
}
