package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vault-dashboard/internal/core/ports"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

const defaultPollInterval = 2 * time.Second

// ErrTransactionFailed is returned by Confirm when the transaction landed with an error.
var ErrTransactionFailed = errors.New("transaction failed on chain")

// Broadcaster implements ports.TxBroadcaster.
type Broadcaster struct {
	client       *Client
	pollInterval time.Duration
}

func NewBroadcaster(client *Client) *Broadcaster {
	return &Broadcaster{client: client, pollInterval: defaultPollInterval}
}

// Send submits the signed transaction with preflight at the client commitment.
func (b *Broadcaster) Send(ctx context.Context, tx *ports.SignedTx) (string, error) {
	sig, err := call(b.client, "sendTransaction", func() (solana.Signature, error) {
		return b.client.rpc.SendRawTransactionWithOpts(ctx, tx.Raw, rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: b.client.commitment,
		})
	})
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return sig.String(), nil
}

// Confirm polls the signature status until it reaches the client commitment.
// A ctx deadline is returned wrapped so callers can tell a timeout from a failure.
func (b *Broadcaster) Confirm(ctx context.Context, signature string) error {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("invalid signature %q: %w", signature, err)
	}

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		done, err := b.checkStatus(ctx, sig)
		if done || err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirm %s: %w", signature, ctx.Err())
		case <-ticker.C:
		}
	}
}

// checkStatus reports whether sig has landed at the wanted commitment.
// RPC errors are treated as "not yet" and polled again.
func (b *Broadcaster) checkStatus(ctx context.Context, sig solana.Signature) (bool, error) {
	res, err := call(b.client, "getSignatureStatuses", func() (*rpc.GetSignatureStatusesResult, error) {
		return b.client.rpc.GetSignatureStatuses(ctx, false, sig)
	})
	if err != nil {
		if ctx.Err() != nil {
			return false, fmt.Errorf("confirm %s: %w", sig, ctx.Err())
		}
		b.client.log.Debug().Err(err).Str("signature", sig.String()).Msg("signature status unavailable")
		return false, nil
	}
	if len(res.Value) == 0 || res.Value[0] == nil {
		return false, nil
	}

	status := res.Value[0]
	if status.Err != nil {
		return true, fmt.Errorf("%w: %v", ErrTransactionFailed, status.Err)
	}
	return reached(status.ConfirmationStatus, b.client.commitment), nil
}

func commitmentRank(s string) int {
	switch s {
	case string(rpc.CommitmentProcessed):
		return 1
	case string(rpc.CommitmentConfirmed):
		return 2
	case string(rpc.CommitmentFinalized):
		return 3
	}
	return 0
}

func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	got := commitmentRank(string(status))
	return got > 0 && got >= commitmentRank(string(want))
}
