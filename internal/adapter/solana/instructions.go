package solana

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Vault program instruction names; data is sha256("global:<name>")[:8] + borsh args.
const (
	ixDeposit         = "deposit"
	ixRequestWithdraw = "request_withdraw"
	ixCancelWithdraw  = "cancel_withdraw"
	ixProcessWithdraw = "process_withdraw"
)

// associated token account program: 1 = CreateIdempotent
const ataCreateIdempotent = 1

type depositArgs struct {
	BatchIndex   uint64
	DepositIndex uint64
	Amount       uint64
}

type requestWithdrawArgs struct {
	BatchIndex    uint64
	WithdrawIndex uint64
	Shares        uint64
}

type withdrawIndexArgs struct {
	WithdrawIndex uint64
}

func instructionData(name string, args any) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(bin.SighashInstruction(name))
	if err := bin.NewBorshEncoder(&buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode %s args: %w", name, err)
	}
	return buf.Bytes(), nil
}

func writable(pk solana.PublicKey) *solana.AccountMeta {
	return solana.Meta(pk).WRITE()
}

func readonly(pk solana.PublicKey) *solana.AccountMeta {
	return solana.Meta(pk)
}

func signer(pk solana.PublicKey) *solana.AccountMeta {
	return solana.Meta(pk).WRITE().SIGNER()
}

// createTokenAccountIx creates owner's Token-2022 account for mint, paid by payer.
func createTokenAccountIx(payer, ata, owner, mint solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		solana.AccountMetaSlice{
			signer(payer),
			writable(ata),
			readonly(owner),
			readonly(mint),
			readonly(solana.SystemProgramID),
			readonly(solana.Token2022ProgramID),
		},
		[]byte{ataCreateIdempotent},
	)
}
