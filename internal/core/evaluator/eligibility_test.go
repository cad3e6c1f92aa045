package evaluator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vault-dashboard/internal/core/domain"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func openVault(batchCount uint64) domain.VaultSnapshot {
	return domain.VaultSnapshot{
		Name:              "test-vault-fast",
		BatchCount:        batchCount,
		VaultBatchStatus:  domain.VaultBatchStatusBatchOpen,
		CurrentSharePrice: decimal.RequireFromString("1.05"),
	}
}

func openBatch(index uint64, closesIn time.Duration) *domain.BatchSnapshot {
	return &domain.BatchSnapshot{
		BatchIndex:         index,
		Status:             domain.BatchStatusOpen,
		OpenAt:             now.Add(-time.Hour),
		WillCloseAt:        now.Add(closesIn),
		SharePrice:         decimal.RequireFromString("1.05"),
		TotalDepositAmount: decimal.NewFromInt(5000),
	}
}

func TestEvaluateDepositEligibility_NoBatch(t *testing.T) {
	vault := domain.VaultSnapshot{BatchCount: 0, VaultBatchStatus: domain.VaultBatchStatusDraft}

	got := EvaluateDepositEligibility(vault, nil, now)

	assert.False(t, got.CanDeposit)
	assert.Equal(t, ReasonNoBatch, got.Reason)
	assert.Contains(t, got.Message, "No batch")
	assert.Nil(t, got.Batch)
}

func TestEvaluateDepositEligibility_NoBatchWinsOverEverything(t *testing.T) {
	// Even with an open-looking batch supplied, batchCount == 0 short-circuits.
	vault := openVault(0)
	got := EvaluateDepositEligibility(vault, openBatch(1, time.Hour), now)

	assert.False(t, got.CanDeposit)
	assert.Equal(t, ReasonNoBatch, got.Reason)
}

func TestEvaluateDepositEligibility_Chain(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.VaultBatchStatus
		batch      *domain.BatchSnapshot
		wantReason Reason
		wantOK     bool
		wantMsg    string
		wantDetail bool
	}{
		{
			name:       "draft vault",
			status:     domain.VaultBatchStatusDraft,
			batch:      openBatch(3, time.Hour),
			wantReason: ReasonNoOpenBatch,
			wantMsg:    "No open batch",
		},
		{
			name:       "closing vault",
			status:     domain.VaultBatchStatusBatchClose,
			batch:      openBatch(3, time.Hour),
			wantReason: ReasonBatchClosing,
			wantMsg:    "Batch closing",
		},
		{
			name:       "batch account missing",
			status:     domain.VaultBatchStatusBatchOpen,
			batch:      nil,
			wantReason: ReasonBatchMissing,
			wantMsg:    "Batch #3 is not initialized yet",
		},
		{
			name:   "batch closed",
			status: domain.VaultBatchStatusBatchOpen,
			batch: func() *domain.BatchSnapshot {
				b := openBatch(3, time.Hour)
				b.Status = domain.BatchStatusClose
				return b
			}(),
			wantReason: ReasonBatchClosed,
			wantMsg:    "Batch #3 is closed",
		},
		{
			name:       "batch expired",
			status:     domain.VaultBatchStatusBatchOpen,
			batch:      openBatch(3, -time.Second),
			wantReason: ReasonBatchExpired,
			wantMsg:    "Batch #3 has expired",
			wantDetail: true,
		},
		{
			name:       "eligible",
			status:     domain.VaultBatchStatusBatchOpen,
			batch:      openBatch(3, 90*time.Minute),
			wantReason: ReasonEligible,
			wantOK:     true,
			wantMsg:    "Batch #3 is open, closes in 90 minutes",
			wantDetail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vault := openVault(3)
			vault.VaultBatchStatus = tt.status

			got := EvaluateDepositEligibility(vault, tt.batch, now)

			assert.Equal(t, tt.wantOK, got.CanDeposit)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, uint64(3), got.CurrentBatchIndex)
			assert.Equal(t, tt.status, got.VaultBatchStatus)
			assert.Equal(t, tt.wantDetail, got.Batch != nil)
		})
	}
}

func TestEvaluateDepositEligibility_ExpiredKeepsDetail(t *testing.T) {
	batch := openBatch(4, -10*time.Minute)
	got := EvaluateDepositEligibility(openVault(4), batch, now)

	require.NotNil(t, got.Batch)
	assert.Equal(t, int64(0), got.Batch.RemainingMinutes)
	assert.Equal(t, uint64(4), got.Batch.BatchIndex)
	assert.Equal(t, batch.WillCloseAt, got.Batch.WillCloseAt)
	assert.True(t, batch.SharePrice.Equal(got.Batch.SharePrice))
}

func TestEvaluateDepositEligibility_RemainingMinutesFloors(t *testing.T) {
	tests := []struct {
		closesIn time.Duration
		want     int64
	}{
		{0, 0},
		{59 * time.Second, 0},
		{60 * time.Second, 1},
		{119 * time.Second, 1},
		{2*time.Hour + 30*time.Second, 120},
	}

	for _, tt := range tests {
		got := EvaluateDepositEligibility(openVault(1), openBatch(1, tt.closesIn), now)
		require.True(t, got.CanDeposit, "closesIn %s", tt.closesIn)
		assert.Equal(t, tt.want, got.Batch.RemainingMinutes, "closesIn %s", tt.closesIn)
	}
}

// Eligible iff batch open, now <= willCloseAt and vault open.
func TestEvaluateDepositEligibility_EligibleIff(t *testing.T) {
	vaultStatuses := []domain.VaultBatchStatus{
		domain.VaultBatchStatusDraft,
		domain.VaultBatchStatusBatchOpen,
		domain.VaultBatchStatusBatchClose,
	}
	batchStatuses := []domain.BatchStatus{domain.BatchStatusOpen, domain.BatchStatusClose}
	offsets := []time.Duration{-time.Minute, -time.Nanosecond, 0, time.Nanosecond, time.Hour}

	for _, vs := range vaultStatuses {
		for _, bs := range batchStatuses {
			for _, off := range offsets {
				vault := openVault(2)
				vault.VaultBatchStatus = vs
				batch := openBatch(2, off)
				batch.Status = bs

				got := EvaluateDepositEligibility(vault, batch, now)

				want := bs == domain.BatchStatusOpen &&
					!now.After(batch.WillCloseAt) &&
					vs == domain.VaultBatchStatusBatchOpen
				assert.Equal(t, want, got.CanDeposit, "vault=%s batch=%s offset=%s", vs, bs, off)
				assert.Equal(t, want, got.Reason == ReasonEligible)
			}
		}
	}
}

func TestEvaluateDepositEligibility_Deterministic(t *testing.T) {
	vault := openVault(5)
	batch := openBatch(5, 42*time.Minute)

	first := EvaluateDepositEligibility(vault, batch, now)
	second := EvaluateDepositEligibility(vault, batch, now)

	assert.Equal(t, first, second)
}

func TestEvaluateDepositEligibility_UnknownVaultStatusFailsClosed(t *testing.T) {
	vault := openVault(1)
	vault.VaultBatchStatus = "SOMETHING_NEW"

	got := EvaluateDepositEligibility(vault, openBatch(1, time.Hour), now)

	assert.False(t, got.CanDeposit)
	assert.Equal(t, ReasonNoOpenBatch, got.Reason)
}

func TestMessage_Unknown(t *testing.T) {
	assert.Equal(t, "Deposits unavailable", Message("BOGUS", 1, 0))
}
