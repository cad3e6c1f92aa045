package solana

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PDA seeds of the vault program.
var (
	seedVaultDetail        = []byte("vault_detail")
	seedVaultBatchDetail   = []byte("vault_batch_detail")
	seedVaultTokenAccount  = []byte("vault_token_account")
	seedUserDetail         = []byte("user_detail")
	seedUserDepositDetail  = []byte("user_deposit_detail")
	seedUserWithdrawDetail = []byte("user_withdraw_detail")
)

// Addresses derives the program accounts of one vault.
type Addresses struct {
	programID solana.PublicKey
	mint      solana.PublicKey
}

func NewAddresses(programID, mint solana.PublicKey) Addresses {
	return Addresses{programID: programID, mint: mint}
}

func (a Addresses) ProgramID() solana.PublicKey { return a.programID }
func (a Addresses) Mint() solana.PublicKey      { return a.mint }

func (a Addresses) find(seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(seeds, a.programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("find program address: %w", err)
	}
	return addr, nil
}

func (a Addresses) VaultDetail(vaultName string) (solana.PublicKey, error) {
	return a.find(seedVaultDetail, []byte(vaultName))
}

func (a Addresses) BatchDetail(vaultName string, batchIndex uint64) (solana.PublicKey, error) {
	vault, err := a.VaultDetail(vaultName)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return a.find(seedVaultBatchDetail, vault[:], u64Seed(batchIndex))
}

// VaultTokenAccount is the vault-owned token account receiving deposits.
func (a Addresses) VaultTokenAccount(vaultName string) (solana.PublicKey, error) {
	vault, err := a.VaultDetail(vaultName)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return a.find(seedVaultTokenAccount, vault[:])
}

func (a Addresses) UserDetail(vaultName string, owner solana.PublicKey) (solana.PublicKey, error) {
	vault, err := a.VaultDetail(vaultName)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return a.find(seedUserDetail, vault[:], owner[:])
}

func (a Addresses) UserDepositDetail(vaultName string, owner solana.PublicKey, depositIndex uint64) (solana.PublicKey, error) {
	user, err := a.UserDetail(vaultName, owner)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return a.find(seedUserDepositDetail, user[:], u64Seed(depositIndex))
}

func (a Addresses) UserWithdrawDetail(vaultName string, owner solana.PublicKey, withdrawIndex uint64) (solana.PublicKey, error) {
	user, err := a.UserDetail(vaultName, owner)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return a.find(seedUserWithdrawDetail, user[:], u64Seed(withdrawIndex))
}

// TokenAccount returns the Token-2022 associated token account of owner for the vault mint.
func (a Addresses) TokenAccount(owner solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		owner[:],
		solana.Token2022ProgramID[:],
		a.mint[:],
	}, solana.SPLAssociatedTokenAccountProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("find token account: %w", err)
	}
	return addr, nil
}

func u64Seed(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// parseAddress validates a base58 address coming in through a port.
func parseAddress(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return pk, nil
}
