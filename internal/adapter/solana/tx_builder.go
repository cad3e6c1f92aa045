package solana

import (
	"context"
	"errors"
	"fmt"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// TxBuilder implements ports.TxBuilder for the vault program. The connected
// user is fee payer and the only signer.
type TxBuilder struct {
	client *Client
	addrs  Addresses
}

func NewTxBuilder(client *Client, addrs Addresses) *TxBuilder {
	return &TxBuilder{client: client, addrs: addrs}
}

// vaultAccounts are the PDAs shared by every vault instruction of one user.
type vaultAccounts struct {
	user       solana.PublicKey
	vault      solana.PublicKey
	userDetail solana.PublicKey
}

func (b *TxBuilder) vaultAccounts(vaultName, user string) (vaultAccounts, error) {
	userKey, err := parseAddress(user)
	if err != nil {
		return vaultAccounts{}, err
	}
	vault, err := b.addrs.VaultDetail(vaultName)
	if err != nil {
		return vaultAccounts{}, err
	}
	userDetail, err := b.addrs.UserDetail(vaultName, userKey)
	if err != nil {
		return vaultAccounts{}, err
	}
	return vaultAccounts{user: userKey, vault: vault, userDetail: userDetail}, nil
}

// tokenAccount returns owner's token account and, when it does not exist yet,
// the instruction creating it with payer funding the rent.
func (b *TxBuilder) tokenAccount(ctx context.Context, payer, owner solana.PublicKey) (solana.PublicKey, []solana.Instruction, error) {
	ata, err := b.addrs.TokenAccount(owner)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	_, err = fetchAccountData(ctx, b.client, ata)
	switch {
	case err == nil:
		return ata, nil, nil
	case errors.Is(err, domain.ErrAccountNotFound):
		return ata, []solana.Instruction{createTokenAccountIx(payer, ata, owner, b.addrs.Mint())}, nil
	default:
		return solana.PublicKey{}, nil, err
	}
}

func (b *TxBuilder) BuildDeposit(ctx context.Context, p ports.DepositTxParams) (*ports.UnsignedTx, error) {
	acc, err := b.vaultAccounts(p.VaultName, p.User)
	if err != nil {
		return nil, err
	}
	feeReceiver, err := parseAddress(p.FeeReceiver)
	if err != nil {
		return nil, fmt.Errorf("fee receiver: %w", err)
	}
	batch, err := b.addrs.BatchDetail(p.VaultName, p.BatchIndex)
	if err != nil {
		return nil, err
	}
	deposit, err := b.addrs.UserDepositDetail(p.VaultName, acc.user, p.DepositIndex)
	if err != nil {
		return nil, err
	}
	vaultToken, err := b.addrs.VaultTokenAccount(p.VaultName)
	if err != nil {
		return nil, err
	}
	feeToken, err := b.addrs.TokenAccount(feeReceiver)
	if err != nil {
		return nil, err
	}
	userToken, ixs, err := b.tokenAccount(ctx, acc.user, acc.user)
	if err != nil {
		return nil, err
	}

	data, err := instructionData(ixDeposit, depositArgs{
		BatchIndex:   p.BatchIndex,
		DepositIndex: p.DepositIndex,
		Amount:       p.Amount,
	})
	if err != nil {
		return nil, err
	}
	ixs = append(ixs, solana.NewInstruction(b.addrs.ProgramID(), solana.AccountMetaSlice{
		signer(acc.user),
		writable(acc.vault),
		writable(batch),
		writable(acc.userDetail),
		writable(deposit),
		writable(userToken),
		writable(vaultToken),
		readonly(feeReceiver),
		writable(feeToken),
		readonly(b.addrs.Mint()),
		readonly(solana.Token2022ProgramID),
		readonly(solana.SPLAssociatedTokenAccountProgramID),
		readonly(solana.SystemProgramID),
		readonly(solana.SysVarRentPubkey),
	}, data))

	return b.finish(ctx, acc.user, ixs)
}

func (b *TxBuilder) BuildRequestWithdraw(ctx context.Context, p ports.RequestWithdrawTxParams) (*ports.UnsignedTx, error) {
	acc, err := b.vaultAccounts(p.VaultName, p.User)
	if err != nil {
		return nil, err
	}
	batch, err := b.addrs.BatchDetail(p.VaultName, p.BatchIndex)
	if err != nil {
		return nil, err
	}
	withdraw, err := b.addrs.UserWithdrawDetail(p.VaultName, acc.user, p.WithdrawIndex)
	if err != nil {
		return nil, err
	}

	data, err := instructionData(ixRequestWithdraw, requestWithdrawArgs{
		BatchIndex:    p.BatchIndex,
		WithdrawIndex: p.WithdrawIndex,
		Shares:        p.Shares,
	})
	if err != nil {
		return nil, err
	}
	ix := solana.NewInstruction(b.addrs.ProgramID(), solana.AccountMetaSlice{
		signer(acc.user),
		writable(acc.vault),
		writable(batch),
		writable(acc.userDetail),
		writable(withdraw),
		readonly(solana.SystemProgramID),
		readonly(solana.SysVarRentPubkey),
	}, data)

	return b.finish(ctx, acc.user, []solana.Instruction{ix})
}

func (b *TxBuilder) BuildCancelWithdraw(ctx context.Context, p ports.WithdrawTxParams) (*ports.UnsignedTx, error) {
	acc, err := b.vaultAccounts(p.VaultName, p.User)
	if err != nil {
		return nil, err
	}
	withdraw, err := b.addrs.UserWithdrawDetail(p.VaultName, acc.user, p.WithdrawIndex)
	if err != nil {
		return nil, err
	}

	data, err := instructionData(ixCancelWithdraw, withdrawIndexArgs{WithdrawIndex: p.WithdrawIndex})
	if err != nil {
		return nil, err
	}
	ix := solana.NewInstruction(b.addrs.ProgramID(), solana.AccountMetaSlice{
		signer(acc.user),
		writable(acc.vault),
		writable(acc.userDetail),
		writable(withdraw),
	}, data)

	return b.finish(ctx, acc.user, []solana.Instruction{ix})
}

func (b *TxBuilder) BuildProcessWithdraw(ctx context.Context, p ports.WithdrawTxParams) (*ports.UnsignedTx, error) {
	acc, err := b.vaultAccounts(p.VaultName, p.User)
	if err != nil {
		return nil, err
	}
	withdraw, err := b.addrs.UserWithdrawDetail(p.VaultName, acc.user, p.WithdrawIndex)
	if err != nil {
		return nil, err
	}
	vaultToken, err := b.addrs.VaultTokenAccount(p.VaultName)
	if err != nil {
		return nil, err
	}
	userToken, ixs, err := b.tokenAccount(ctx, acc.user, acc.user)
	if err != nil {
		return nil, err
	}

	data, err := instructionData(ixProcessWithdraw, withdrawIndexArgs{WithdrawIndex: p.WithdrawIndex})
	if err != nil {
		return nil, err
	}
	ixs = append(ixs, solana.NewInstruction(b.addrs.ProgramID(), solana.AccountMetaSlice{
		signer(acc.user),
		writable(acc.vault),
		writable(acc.userDetail),
		writable(withdraw),
		writable(userToken),
		writable(vaultToken),
		readonly(b.addrs.Mint()),
		readonly(solana.Token2022ProgramID),
		readonly(solana.SPLAssociatedTokenAccountProgramID),
		readonly(solana.SystemProgramID),
	}, data))

	return b.finish(ctx, acc.user, ixs)
}

// finish sets fee payer and a recent blockhash and serializes the
// transaction with empty signature slots.
func (b *TxBuilder) finish(ctx context.Context, payer solana.PublicKey, ixs []solana.Instruction) (*ports.UnsignedTx, error) {
	bh, err := call(b.client, "getLatestBlockhash", func() (*rpc.GetLatestBlockhashResult, error) {
		return b.client.rpc.GetLatestBlockhash(ctx, b.client.commitment)
	})
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}
	if bh == nil || bh.Value == nil {
		return nil, errors.New("get latest blockhash: empty result")
	}

	tx, err := solana.NewTransaction(ixs, bh.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("new transaction: %w", err)
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize transaction: %w", err)
	}
	return &ports.UnsignedTx{
		Raw:       raw,
		FeePayer:  payer.String(),
		Blockhash: bh.Value.Blockhash.String(),
	}, nil
}
