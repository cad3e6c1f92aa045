package solana

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"vault-dashboard/internal/core/ports"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSignature = solana.Signature{7, 7, 7}

func newTestBroadcaster(f *fakeRPC) *Broadcaster {
	b := NewBroadcaster(newTestClient(f))
	b.pollInterval = 5 * time.Millisecond
	return b
}

func signatureStatus(confirmation string, txErr any) map[string]any {
	return map[string]any{
		"context": map[string]any{"slot": 10},
		"value": []any{map[string]any{
			"slot":               10,
			"confirmations":      nil,
			"err":                txErr,
			"confirmationStatus": confirmation,
		}},
	}
}

func TestBroadcaster_Send(t *testing.T) {
	f := newFakeRPC()
	f.handle("sendTransaction", func(params []interface{}) (any, error) {
		return testSignature.String(), nil
	})

	sig, err := newTestBroadcaster(f).Send(context.Background(), &ports.SignedTx{Raw: []byte{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, testSignature.String(), sig)
	assert.Equal(t, 1, f.callCount("sendTransaction"))
}

func TestBroadcaster_SendRejected(t *testing.T) {
	f := newFakeRPC()
	f.handle("sendTransaction", func([]interface{}) (any, error) {
		return nil, errors.New("Transaction simulation failed: insufficient funds")
	})

	_, err := newTestBroadcaster(f).Send(context.Background(), &ports.SignedTx{Raw: []byte{1}})
	assert.ErrorContains(t, err, "insufficient funds")
}

func TestBroadcaster_ConfirmWaitsForCommitment(t *testing.T) {
	f := newFakeRPC()
	var polls atomic.Int32
	f.handle("getSignatureStatuses", func([]interface{}) (any, error) {
		switch polls.Add(1) {
		case 1:
			return map[string]any{"context": map[string]any{"slot": 10}, "value": []any{nil}}, nil
		case 2:
			return nil, errors.New("temporarily unavailable")
		case 3:
			return signatureStatus("processed", nil), nil
		default:
			return signatureStatus("confirmed", nil), nil
		}
	})

	err := newTestBroadcaster(f).Confirm(context.Background(), testSignature.String())
	require.NoError(t, err)
	assert.Equal(t, int32(4), polls.Load())
}

func TestBroadcaster_ConfirmFailedOnChain(t *testing.T) {
	f := newFakeRPC()
	f.handle("getSignatureStatuses", func([]interface{}) (any, error) {
		return signatureStatus("confirmed", map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 6001}}}), nil
	})

	err := newTestBroadcaster(f).Confirm(context.Background(), testSignature.String())
	assert.ErrorIs(t, err, ErrTransactionFailed)
}

func TestBroadcaster_ConfirmTimeout(t *testing.T) {
	f := newFakeRPC()
	f.handle("getSignatureStatuses", func([]interface{}) (any, error) {
		return signatureStatus("processed", nil), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := newTestBroadcaster(f).Confirm(ctx, testSignature.String())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBroadcaster_ConfirmInvalidSignature(t *testing.T) {
	err := newTestBroadcaster(newFakeRPC()).Confirm(context.Background(), "???")
	assert.ErrorContains(t, err, "invalid signature")
}

func TestReached(t *testing.T) {
	assert.True(t, reached("finalized", "confirmed"))
	assert.True(t, reached("confirmed", "confirmed"))
	assert.False(t, reached("processed", "confirmed"))
	assert.False(t, reached("", "processed"))
}
