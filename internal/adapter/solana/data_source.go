package solana

import (
	"context"
	"errors"
	"fmt"

	"vault-dashboard/internal/core/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
)

// DataSource implements ports.VaultDataSource over the vault program accounts.
type DataSource struct {
	client   *Client
	addrs    Addresses
	decimals uint8
}

func NewDataSource(client *Client, addrs Addresses, mintDecimals uint8) *DataSource {
	return &DataSource{client: client, addrs: addrs, decimals: mintDecimals}
}

// accountData fetches the raw data of address. A missing account maps to
// domain.ErrAccountNotFound.
func (d *DataSource) accountData(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	return fetchAccountData(ctx, d.client, address)
}

func fetchAccountData(ctx context.Context, c *Client, address solana.PublicKey) ([]byte, error) {
	res, err := call(c, "getAccountInfo", func() (*rpc.GetAccountInfoResult, error) {
		return c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: c.commitment,
		})
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", address, domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("get account %s: %w", address, err)
	}
	return res.GetBinary(), nil
}

func (d *DataSource) vaultAccount(ctx context.Context, vaultName string) (*vaultDetailAccount, error) {
	addr, err := d.addrs.VaultDetail(vaultName)
	if err != nil {
		return nil, err
	}
	data, err := d.accountData(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("vault detail: %w", err)
	}
	var acc vaultDetailAccount
	if err := decodeAccount(accountVaultDetail, data, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (d *DataSource) userAccount(ctx context.Context, vaultName, owner string) (*userDetailAccount, error) {
	ownerKey, err := parseAddress(owner)
	if err != nil {
		return nil, err
	}
	addr, err := d.addrs.UserDetail(vaultName, ownerKey)
	if err != nil {
		return nil, err
	}
	data, err := d.accountData(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("user detail: %w", err)
	}
	var acc userDetailAccount
	if err := decodeAccount(accountUserDetail, data, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (d *DataSource) GetVaultSnapshot(ctx context.Context, vaultName string) (*domain.VaultSnapshot, error) {
	acc, err := d.vaultAccount(ctx, vaultName)
	if err != nil {
		return nil, err
	}
	return acc.toDomain(d.decimals)
}

func (d *DataSource) GetBatchSnapshot(ctx context.Context, vaultName string, batchIndex uint64) (*domain.BatchSnapshot, error) {
	addr, err := d.addrs.BatchDetail(vaultName, batchIndex)
	if err != nil {
		return nil, err
	}
	data, err := d.accountData(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("batch %d: %w", batchIndex, err)
	}
	var acc vaultBatchDetailAccount
	if err := decodeAccount(accountVaultBatchDetail, data, &acc); err != nil {
		return nil, err
	}
	return acc.toDomain(d.decimals)
}

func (d *DataSource) GetUserSnapshot(ctx context.Context, vaultName, owner string) (*domain.UserSnapshot, error) {
	acc, err := d.userAccount(ctx, vaultName, owner)
	if err != nil {
		return nil, err
	}
	return acc.toDomain(d.decimals), nil
}

func (d *DataSource) GetDepositRecord(ctx context.Context, vaultName, owner string, depositIndex uint64) (*domain.DepositRecord, error) {
	ownerKey, err := parseAddress(owner)
	if err != nil {
		return nil, err
	}
	addr, err := d.addrs.UserDepositDetail(vaultName, ownerKey, depositIndex)
	if err != nil {
		return nil, err
	}
	data, err := d.accountData(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("deposit #%d: %w", depositIndex, err)
	}
	var acc userDepositDetailAccount
	if err := decodeAccount(accountUserDepositDetail, data, &acc); err != nil {
		return nil, err
	}
	return acc.toDomain(d.decimals)
}

func (d *DataSource) GetWithdrawRecord(ctx context.Context, vaultName, owner string, withdrawIndex uint64) (*domain.WithdrawRecord, error) {
	ownerKey, err := parseAddress(owner)
	if err != nil {
		return nil, err
	}
	addr, err := d.addrs.UserWithdrawDetail(vaultName, ownerKey, withdrawIndex)
	if err != nil {
		return nil, err
	}
	data, err := d.accountData(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("withdraw #%d: %w", withdrawIndex, err)
	}
	var acc userWithdrawDetailAccount
	if err := decodeAccount(accountUserWithdrawDetail, data, &acc); err != nil {
		return nil, err
	}
	return acc.toDomain(d.decimals)
}

// GetCurrentBatchIndex is the vault's batch counter; the latest batch has that index.
func (d *DataSource) GetCurrentBatchIndex(ctx context.Context, vaultName string) (uint64, error) {
	acc, err := d.vaultAccount(ctx, vaultName)
	if err != nil {
		return 0, err
	}
	return acc.BatchCount, nil
}

func (d *DataSource) GetCurrentUserDepositIndex(ctx context.Context, vaultName, owner string) (uint64, error) {
	acc, err := d.userAccount(ctx, vaultName, owner)
	if err != nil {
		return 0, err
	}
	return acc.DepositCount, nil
}

func (d *DataSource) GetCurrentUserWithdrawIndex(ctx context.Context, vaultName, owner string) (uint64, error) {
	acc, err := d.userAccount(ctx, vaultName, owner)
	if err != nil {
		return 0, err
	}
	return acc.RequestedShareWithdrawCount, nil
}

// GetTokenBalance reads the owner's Token-2022 account for the vault mint.
func (d *DataSource) GetTokenBalance(ctx context.Context, owner string) (decimal.Decimal, error) {
	ownerKey, err := parseAddress(owner)
	if err != nil {
		return decimal.Zero, err
	}
	ata, err := d.addrs.TokenAccount(ownerKey)
	if err != nil {
		return decimal.Zero, err
	}
	data, err := d.accountData(ctx, ata)
	if err != nil {
		return decimal.Zero, fmt.Errorf("token account: %w", err)
	}
	raw, err := tokenAccountAmount(data)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.FromBaseUnits(raw, d.decimals), nil
}
