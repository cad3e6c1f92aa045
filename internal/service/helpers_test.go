package service

import (
	"fmt"
	"io"
	"time"

	"vault-dashboard/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	testVault  = "kommunitas-vault"
	testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixedClock() time.Time { return testNow }

func testParams() VaultParams {
	return VaultParams{
		Name:           testVault,
		MintDecimals:   6,
		MinDeposit:     decimal.NewFromInt(10),
		ConfirmTimeout: time.Second,
	}
}

func openVault(batchCount uint64) *domain.VaultSnapshot {
	return &domain.VaultSnapshot{
		Name:                 testVault,
		BatchCount:           batchCount,
		VaultBatchStatus:     domain.VaultBatchStatusBatchOpen,
		CurrentSharePrice:    dec("1.25"),
		TotalDepositAmount:   dec("125000"),
		DepositTxFee:         dec("0.5"),
		DepositTxFeeReceiver: "FeeRcv1111111111111111111111111111111111111",
	}
}

func openBatch(index uint64, closesIn time.Duration) *domain.BatchSnapshot {
	return &domain.BatchSnapshot{
		BatchIndex:         index,
		Status:             domain.BatchStatusOpen,
		OpenAt:             testNow.Add(-time.Hour),
		WillCloseAt:        testNow.Add(closesIn),
		SharePrice:         dec("1.25"),
		TotalDepositAmount: dec("5000"),
	}
}

func testUser() *domain.UserSnapshot {
	return &domain.UserSnapshot{
		Address:                     testWallet,
		CurrentShares:               dec("100"),
		InProcessShareWithdraw:      dec("30"),
		TotalDepositAmount:          dec("110"),
		DepositCount:                2,
		RequestedShareWithdrawCount: 1,
	}
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrAccountNotFound)
}
