package solana

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"vault-dashboard/internal/core/domain"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Anchor account names; the discriminator is sha256("account:<Name>")[:8].
const (
	accountVaultDetail        = "VaultDetailAccount"
	accountVaultBatchDetail   = "VaultBatchDetailAccount"
	accountUserDetail         = "UserDetailAccount"
	accountUserDepositDetail  = "UserDepositDetailAccount"
	accountUserWithdrawDetail = "UserWithdrawDetailAccount"
)

var errDiscriminator = errors.New("account discriminator mismatch")

type vaultDetailAccount struct {
	Name                 string
	Authority            solana.PublicKey
	TokenMint            solana.PublicKey
	BatchCount           uint64
	VaultBatchStatus     uint8
	CurrentSharePrice    uint64
	TotalDepositAmount   uint64
	DepositTxFee         uint64
	DepositTxFeeReceiver solana.PublicKey
	Bump                 uint8
}

type vaultBatchDetailAccount struct {
	BatchIndex         uint64
	Status             uint8
	OpenAt             int64
	WillCloseAt        int64
	SharePrice         uint64
	TotalDepositAmount uint64
	Bump               uint8
}

type userDetailAccount struct {
	Owner                       solana.PublicKey
	CurrentShares               uint64
	InProcessShareWithdraw      uint64
	TotalDepositAmount          uint64
	DepositCount                uint64
	RequestedShareWithdrawCount uint64
	Bump                        uint8
}

type userDepositDetailAccount struct {
	DepositIndex  uint64
	BatchIndex    uint64
	DepositAmount uint64
	DepositFee    uint64
	Status        uint8
	Bump          uint8
}

type userWithdrawDetailAccount struct {
	WithdrawIndex           uint64
	RequestedWithdrawShares uint64
	CanWithdrawAt           int64
	Status                  uint8
	Bump                    uint8
}

// decodeAccount checks the Anchor discriminator of data and borsh-decodes the rest into out.
func decodeAccount(name string, data []byte, out any) error {
	want := bin.SighashAccount(name)
	if len(data) < bin.ACCOUNT_DISCRIMINATOR_SIZE || !bytes.Equal(data[:bin.ACCOUNT_DISCRIMINATOR_SIZE], want) {
		return fmt.Errorf("%s: %w", name, errDiscriminator)
	}
	if err := bin.NewBorshDecoder(data[bin.ACCOUNT_DISCRIMINATOR_SIZE:]).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func vaultBatchStatus(v uint8) (domain.VaultBatchStatus, error) {
	switch v {
	case 0:
		return domain.VaultBatchStatusDraft, nil
	case 1:
		return domain.VaultBatchStatusBatchOpen, nil
	case 2:
		return domain.VaultBatchStatusBatchClose, nil
	}
	return "", fmt.Errorf("unknown vault batch status %d", v)
}

func batchStatus(v uint8) (domain.BatchStatus, error) {
	switch v {
	case 0:
		return domain.BatchStatusOpen, nil
	case 1:
		return domain.BatchStatusClose, nil
	}
	return "", fmt.Errorf("unknown batch status %d", v)
}

func depositStatus(v uint8) (domain.DepositStatus, error) {
	switch v {
	case 0:
		return domain.DepositStatusDeposited, nil
	case 1:
		return domain.DepositStatusProcessed, nil
	}
	return "", fmt.Errorf("unknown deposit status %d", v)
}

func withdrawStatus(v uint8) (domain.WithdrawStatus, error) {
	switch v {
	case 0:
		return domain.WithdrawStatusRequested, nil
	case 1:
		return domain.WithdrawStatusProcessed, nil
	case 2:
		return domain.WithdrawStatusCanceled, nil
	}
	return "", fmt.Errorf("unknown withdraw status %d", v)
}

func (a vaultDetailAccount) toDomain(decimals uint8) (*domain.VaultSnapshot, error) {
	status, err := vaultBatchStatus(a.VaultBatchStatus)
	if err != nil {
		return nil, err
	}
	return &domain.VaultSnapshot{
		Name:                 a.Name,
		BatchCount:           a.BatchCount,
		VaultBatchStatus:     status,
		CurrentSharePrice:    domain.FromBaseUnits(a.CurrentSharePrice, decimals),
		TotalDepositAmount:   domain.FromBaseUnits(a.TotalDepositAmount, decimals),
		DepositTxFee:         domain.FromBaseUnits(a.DepositTxFee, decimals),
		DepositTxFeeReceiver: a.DepositTxFeeReceiver.String(),
	}, nil
}

func (a vaultBatchDetailAccount) toDomain(decimals uint8) (*domain.BatchSnapshot, error) {
	status, err := batchStatus(a.Status)
	if err != nil {
		return nil, err
	}
	return &domain.BatchSnapshot{
		BatchIndex:         a.BatchIndex,
		Status:             status,
		OpenAt:             time.Unix(a.OpenAt, 0).UTC(),
		WillCloseAt:        time.Unix(a.WillCloseAt, 0).UTC(),
		SharePrice:         domain.FromBaseUnits(a.SharePrice, decimals),
		TotalDepositAmount: domain.FromBaseUnits(a.TotalDepositAmount, decimals),
	}, nil
}

func (a userDetailAccount) toDomain(decimals uint8) *domain.UserSnapshot {
	return &domain.UserSnapshot{
		Address:                     a.Owner.String(),
		CurrentShares:               domain.FromBaseUnits(a.CurrentShares, decimals),
		InProcessShareWithdraw:      domain.FromBaseUnits(a.InProcessShareWithdraw, decimals),
		TotalDepositAmount:          domain.FromBaseUnits(a.TotalDepositAmount, decimals),
		DepositCount:                a.DepositCount,
		RequestedShareWithdrawCount: a.RequestedShareWithdrawCount,
	}
}

func (a userDepositDetailAccount) toDomain(decimals uint8) (*domain.DepositRecord, error) {
	status, err := depositStatus(a.Status)
	if err != nil {
		return nil, err
	}
	return &domain.DepositRecord{
		DepositIndex: a.DepositIndex,
		BatchIndex:   a.BatchIndex,
		Amount:       domain.FromBaseUnits(a.DepositAmount, decimals),
		Fee:          domain.FromBaseUnits(a.DepositFee, decimals),
		Status:       status,
	}, nil
}

func (a userWithdrawDetailAccount) toDomain(decimals uint8) (*domain.WithdrawRecord, error) {
	status, err := withdrawStatus(a.Status)
	if err != nil {
		return nil, err
	}
	return &domain.WithdrawRecord{
		WithdrawIndex:   a.WithdrawIndex,
		RequestedShares: domain.FromBaseUnits(a.RequestedWithdrawShares, decimals),
		CanWithdrawAt:   time.Unix(a.CanWithdrawAt, 0).UTC(),
		Status:          status,
	}, nil
}

// token account: mint(32) | owner(32) | amount(u64) | ...
const tokenAccountAmountOffset = 64

func tokenAccountAmount(data []byte) (uint64, error) {
	if len(data) < tokenAccountAmountOffset+8 {
		return 0, fmt.Errorf("token account data too short: %d bytes", len(data))
	}
	return binary.LittleEndian.Uint64(data[tokenAccountAmountOffset:]), nil
}
