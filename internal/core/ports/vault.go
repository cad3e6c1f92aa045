package ports

import (
	"context"

	"vault-dashboard/internal/core/domain"

	"github.com/shopspring/decimal"
)

// VaultDataSource reads vault program accounts. Addresses are base58 strings.
// Lookups of accounts that do not exist yet return an error wrapping
// domain.ErrAccountNotFound.
type VaultDataSource interface {
	GetVaultSnapshot(ctx context.Context, vaultName string) (*domain.VaultSnapshot, error)
	GetBatchSnapshot(ctx context.Context, vaultName string, batchIndex uint64) (*domain.BatchSnapshot, error)
	GetUserSnapshot(ctx context.Context, vaultName, owner string) (*domain.UserSnapshot, error)
	GetDepositRecord(ctx context.Context, vaultName, owner string, depositIndex uint64) (*domain.DepositRecord, error)
	GetWithdrawRecord(ctx context.Context, vaultName, owner string, withdrawIndex uint64) (*domain.WithdrawRecord, error)
	GetCurrentBatchIndex(ctx context.Context, vaultName string) (uint64, error)
	GetCurrentUserDepositIndex(ctx context.Context, vaultName, owner string) (uint64, error)
	GetCurrentUserWithdrawIndex(ctx context.Context, vaultName, owner string) (uint64, error)
	// GetTokenBalance returns the owner's deposit token balance in token units.
	GetTokenBalance(ctx context.Context, owner string) (decimal.Decimal, error)
}

// UnsignedTx is a serialized transaction message waiting for the fee payer signature.
type UnsignedTx struct {
	Raw       []byte
	FeePayer  string
	Blockhash string
}

// SignedTx is a fully signed wire transaction.
type SignedTx struct {
	Raw       []byte
	Signature string
}

// WalletProvider is the connected signer.
type WalletProvider interface {
	Connect(ctx context.Context) (string, error)
	Disconnect()
	// Address returns the connected address, or false when disconnected.
	Address() (string, bool)
	// Subscribe registers fn for connection changes and returns the unsubscribe func.
	Subscribe(fn func(address string, connected bool)) (unsubscribe func())
	SignTransaction(ctx context.Context, tx *UnsignedTx) (*SignedTx, error)
}

// EventStream delivers vault program events until ctx is done or unsubscribe is called.
type EventStream interface {
	Subscribe(ctx context.Context) (<-chan domain.VaultEvent, func(), error)
}

type DepositTxParams struct {
	VaultName    string
	User         string
	BatchIndex   uint64
	DepositIndex uint64
	Amount       uint64 // base units
	FeeReceiver  string
}

type RequestWithdrawTxParams struct {
	VaultName     string
	User          string
	BatchIndex    uint64
	WithdrawIndex uint64
	Shares        uint64 // base units
}

// WithdrawTxParams addresses an existing withdraw request (cancel or process).
type WithdrawTxParams struct {
	VaultName     string
	User          string
	WithdrawIndex uint64
}

// TxBuilder assembles unsigned vault transactions with fee payer and recent blockhash set.
type TxBuilder interface {
	BuildDeposit(ctx context.Context, params DepositTxParams) (*UnsignedTx, error)
	BuildRequestWithdraw(ctx context.Context, params RequestWithdrawTxParams) (*UnsignedTx, error)
	BuildCancelWithdraw(ctx context.Context, params WithdrawTxParams) (*UnsignedTx, error)
	BuildProcessWithdraw(ctx context.Context, params WithdrawTxParams) (*UnsignedTx, error)
}

// TxBroadcaster submits signed transactions and waits for confirmation.
type TxBroadcaster interface {
	Send(ctx context.Context, tx *SignedTx) (string, error)
	// Confirm blocks until signature reaches the configured commitment,
	// fails on chain, or ctx is done.
	Confirm(ctx context.Context, signature string) error
}
