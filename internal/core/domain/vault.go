package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VaultBatchStatus is the vault-level batch lifecycle state.
type VaultBatchStatus string

const (
	VaultBatchStatusDraft      VaultBatchStatus = "DRAFT"
	VaultBatchStatusBatchOpen  VaultBatchStatus = "BATCH_OPEN"
	VaultBatchStatusBatchClose VaultBatchStatus = "BATCH_CLOSE"
)

// BatchStatus is the state of a single batch account.
type BatchStatus string

const (
	BatchStatusOpen  BatchStatus = "OPEN"
	BatchStatusClose BatchStatus = "CLOSE"
)

// DepositStatus is the state of a user deposit record.
type DepositStatus string

const (
	DepositStatusDeposited DepositStatus = "DEPOSITED"
	DepositStatusProcessed DepositStatus = "PROCESSED"
)

// WithdrawStatus is the state of a user withdraw request.
type WithdrawStatus string

const (
	WithdrawStatusRequested WithdrawStatus = "REQUESTED"
	WithdrawStatusProcessed WithdrawStatus = "PROCESSED"
	WithdrawStatusCanceled  WithdrawStatus = "CANCELED"
)

// VaultSnapshot is the vault detail account, scaled to token units.
type VaultSnapshot struct {
	Name                 string           `json:"name"`
	BatchCount           uint64           `json:"batch_count"`
	VaultBatchStatus     VaultBatchStatus `json:"vault_batch_status"`
	CurrentSharePrice    decimal.Decimal  `json:"current_share_price"`
	TotalDepositAmount   decimal.Decimal  `json:"total_deposit_amount"`
	DepositTxFee         decimal.Decimal  `json:"deposit_tx_fee"`
	DepositTxFeeReceiver string           `json:"deposit_tx_fee_receiver"`
}

// BatchSnapshot is one batch detail account.
type BatchSnapshot struct {
	BatchIndex         uint64          `json:"batch_index"`
	Status             BatchStatus     `json:"status"`
	OpenAt             time.Time       `json:"open_at"`
	WillCloseAt        time.Time       `json:"will_close_at"`
	SharePrice         decimal.Decimal `json:"share_price"`
	TotalDepositAmount decimal.Decimal `json:"total_deposit_amount"`
}

// UserSnapshot is the per-user detail account of a vault.
type UserSnapshot struct {
	Address                     string          `json:"address"`
	CurrentShares               decimal.Decimal `json:"current_shares"`
	InProcessShareWithdraw      decimal.Decimal `json:"in_process_share_withdraw"`
	TotalDepositAmount          decimal.Decimal `json:"total_deposit_amount"`
	DepositCount                uint64          `json:"deposit_count"`
	RequestedShareWithdrawCount uint64          `json:"requested_share_withdraw_count"`
}

// DepositRecord is a single user deposit, 1-based by DepositIndex.
type DepositRecord struct {
	DepositIndex uint64          `json:"deposit_index"`
	BatchIndex   uint64          `json:"batch_index"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
	Status       DepositStatus   `json:"status"`
}

// WithdrawRecord is a single withdraw request, 1-based by WithdrawIndex.
type WithdrawRecord struct {
	WithdrawIndex   uint64          `json:"withdraw_index"`
	RequestedShares decimal.Decimal `json:"requested_shares"`
	CanWithdrawAt   time.Time       `json:"can_withdraw_at"`
	Status          WithdrawStatus  `json:"status"`
}

// VaultEventKind tags a VaultEvent.
type VaultEventKind string

const (
	VaultEventBatchOpened VaultEventKind = "BATCH_OPENED"
	VaultEventBatchClosed VaultEventKind = "BATCH_CLOSED"
)

// VaultEvent is a program event emitted when a batch opens or closes.
// SharePrice is only set for BatchOpened.
type VaultEvent struct {
	Kind       VaultEventKind   `json:"kind"`
	BatchIndex uint64           `json:"batch_index"`
	SharePrice *decimal.Decimal `json:"share_price,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
	Signature  string           `json:"signature,omitempty"`
}

// VaultHistoryPoint is one recorded vault refresh.
type VaultHistoryPoint struct {
	VaultName  string          `json:"vault_name"`
	BatchIndex uint64          `json:"batch_index"`
	SharePrice decimal.Decimal `json:"share_price"`
	TVL        decimal.Decimal `json:"tvl"`
	RecordedAt time.Time       `json:"recorded_at"`
}
