package solana

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vault-dashboard/internal/core/ports"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
)

var (
	ErrWalletDisconnected = errors.New("wallet is not connected")
	ErrFeePayerMismatch   = errors.New("transaction fee payer is not the connected wallet")
)

// KeypairWallet implements ports.WalletProvider with a solana-keygen JSON keypair.
type KeypairWallet struct {
	path string
	load func(path string) (solana.PrivateKey, error)
	log  zerolog.Logger

	mu     sync.RWMutex
	key    solana.PrivateKey
	subs   map[int]func(address string, connected bool)
	nextID int
}

func NewKeypairWallet(path string, log zerolog.Logger) *KeypairWallet {
	return &KeypairWallet{
		path: path,
		load: solana.PrivateKeyFromSolanaKeygenFile,
		log:  log,
		subs: make(map[int]func(string, bool)),
	}
}

// Connect loads the keypair and notifies subscribers. Connecting an already
// connected wallet is a no-op.
func (w *KeypairWallet) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if w.path == "" {
		return "", errors.New("wallet keypair path is not configured")
	}

	w.mu.Lock()
	if w.key != nil {
		addr := w.key.PublicKey().String()
		w.mu.Unlock()
		return addr, nil
	}
	key, err := w.load(w.path)
	if err != nil {
		w.mu.Unlock()
		return "", fmt.Errorf("load keypair: %w", err)
	}
	w.key = key
	addr := key.PublicKey().String()
	subs := w.subscribersLocked()
	w.mu.Unlock()

	w.log.Info().Str("wallet", addr).Msg("wallet connected")
	notify(subs, addr, true)
	return addr, nil
}

func (w *KeypairWallet) Disconnect() {
	w.mu.Lock()
	if w.key == nil {
		w.mu.Unlock()
		return
	}
	addr := w.key.PublicKey().String()
	w.key = nil
	subs := w.subscribersLocked()
	w.mu.Unlock()

	w.log.Info().Str("wallet", addr).Msg("wallet disconnected")
	notify(subs, addr, false)
}

func (w *KeypairWallet) Address() (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.key == nil {
		return "", false
	}
	return w.key.PublicKey().String(), true
}

// Subscribe registers fn. Callbacks run on the goroutine that changed the
// connection, after the wallet lock is released.
func (w *KeypairWallet) Subscribe(fn func(address string, connected bool)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// SignTransaction signs tx as fee payer. The payer must be the connected key.
func (w *KeypairWallet) SignTransaction(ctx context.Context, utx *ports.UnsignedTx) (*ports.SignedTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.RLock()
	key := w.key
	w.mu.RUnlock()
	if key == nil {
		return nil, ErrWalletDisconnected
	}

	tx, err := solana.TransactionFromBytes(utx.Raw)
	if err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	pub := key.PublicKey()
	if len(tx.Message.AccountKeys) == 0 || !tx.Message.AccountKeys[0].Equals(pub) {
		return nil, ErrFeePayerMismatch
	}

	// the decoded transaction carries zeroed signature slots
	tx.Signatures = nil
	if _, err := tx.Sign(func(k solana.PublicKey) *solana.PrivateKey {
		if k.Equals(pub) {
			return &key
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize signed transaction: %w", err)
	}
	return &ports.SignedTx{Raw: raw, Signature: tx.Signatures[0].String()}, nil
}

func (w *KeypairWallet) subscribersLocked() []func(string, bool) {
	out := make([]func(string, bool), 0, len(w.subs))
	for _, fn := range w.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(string, bool), address string, connected bool) {
	for _, fn := range subs {
		fn(address, connected)
	}
}
