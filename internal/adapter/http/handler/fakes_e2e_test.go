package handler_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeChain stands in for the vault program: data source, transaction
// builder, broadcaster and wallet in one, sharing a single state.
type fakeChain struct {
	mu sync.Mutex

	vault       domain.VaultSnapshot
	batch       *domain.BatchSnapshot
	users       map[string]*domain.UserSnapshot
	withdrawals map[string]map[uint64]*domain.WithdrawRecord
	balances    map[string]decimal.Decimal

	address     string
	connected   bool
	subscribers map[int]func(string, bool)
	nextSub     int

	built   int
	sent    []string
	hold    chan struct{} // non-nil blocks Confirm until closed
	sending chan struct{} // receives once per Send
}

func newFakeChain(address string) *fakeChain {
	now := time.Now()
	return &fakeChain{
		vault: domain.VaultSnapshot{
			Name:                 "test-vault-fast",
			BatchCount:           3,
			VaultBatchStatus:     domain.VaultBatchStatusBatchOpen,
			CurrentSharePrice:    decimal.RequireFromString("1.25"),
			TotalDepositAmount:   decimal.RequireFromString("125000"),
			DepositTxFeeReceiver: "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM",
		},
		batch: &domain.BatchSnapshot{
			BatchIndex:  3,
			Status:      domain.BatchStatusOpen,
			OpenAt:      now.Add(-time.Hour),
			WillCloseAt: now.Add(time.Hour),
			SharePrice:  decimal.RequireFromString("1.25"),
		},
		users:       make(map[string]*domain.UserSnapshot),
		withdrawals: make(map[string]map[uint64]*domain.WithdrawRecord),
		balances:    map[string]decimal.Decimal{address: decimal.NewFromInt(1000)},
		address:     address,
		subscribers: make(map[int]func(string, bool)),
		sending:     make(chan struct{}, 16),
	}
}

func (f *fakeChain) closeBatch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batch.Status = domain.BatchStatusClose
}

func (f *fakeChain) seedUser(owner string, shares, inProcess decimal.Decimal, withdrawals ...domain.WithdrawRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[owner] = &domain.UserSnapshot{
		Address:                     owner,
		CurrentShares:               shares,
		InProcessShareWithdraw:      inProcess,
		TotalDepositAmount:          shares,
		DepositCount:                1,
		RequestedShareWithdrawCount: uint64(len(withdrawals)),
	}
	records := make(map[uint64]*domain.WithdrawRecord)
	for i := range withdrawals {
		w := withdrawals[i]
		records[w.WithdrawIndex] = &w
	}
	f.withdrawals[owner] = records
}

func (f *fakeChain) builtCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.built
}

// --- ports.VaultDataSource ---

func (f *fakeChain) GetVaultSnapshot(ctx context.Context, vaultName string) (*domain.VaultSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.vault
	return &v, nil
}

func (f *fakeChain) GetBatchSnapshot(ctx context.Context, vaultName string, batchIndex uint64) (*domain.BatchSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.batch == nil || f.batch.BatchIndex != batchIndex {
		return nil, domain.ErrAccountNotFound
	}
	b := *f.batch
	return &b, nil
}

func (f *fakeChain) GetUserSnapshot(ctx context.Context, vaultName, owner string) (*domain.UserSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[owner]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", owner, domain.ErrAccountNotFound)
	}
	snap := *u
	return &snap, nil
}

func (f *fakeChain) GetDepositRecord(ctx context.Context, vaultName, owner string, depositIndex uint64) (*domain.DepositRecord, error) {
	return nil, domain.ErrAccountNotFound
}

func (f *fakeChain) GetWithdrawRecord(ctx context.Context, vaultName, owner string, withdrawIndex uint64) (*domain.WithdrawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.withdrawals[owner][withdrawIndex]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	rec := *w
	return &rec, nil
}

func (f *fakeChain) GetCurrentBatchIndex(ctx context.Context, vaultName string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vault.BatchCount, nil
}

func (f *fakeChain) GetCurrentUserDepositIndex(ctx context.Context, vaultName, owner string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[owner]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	return u.DepositCount, nil
}

func (f *fakeChain) GetCurrentUserWithdrawIndex(ctx context.Context, vaultName, owner string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[owner]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	return u.RequestedShareWithdrawCount, nil
}

func (f *fakeChain) GetTokenBalance(ctx context.Context, owner string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[owner]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	return balance, nil
}

// --- ports.TxBuilder ---

func (f *fakeChain) build(user string) (*ports.UnsignedTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.built++
	return &ports.UnsignedTx{Raw: []byte{byte(f.built)}, FeePayer: user, Blockhash: "blockhash"}, nil
}

func (f *fakeChain) BuildDeposit(ctx context.Context, params ports.DepositTxParams) (*ports.UnsignedTx, error) {
	return f.build(params.User)
}

func (f *fakeChain) BuildRequestWithdraw(ctx context.Context, params ports.RequestWithdrawTxParams) (*ports.UnsignedTx, error) {
	return f.build(params.User)
}

func (f *fakeChain) BuildCancelWithdraw(ctx context.Context, params ports.WithdrawTxParams) (*ports.UnsignedTx, error) {
	return f.build(params.User)
}

func (f *fakeChain) BuildProcessWithdraw(ctx context.Context, params ports.WithdrawTxParams) (*ports.UnsignedTx, error) {
	return f.build(params.User)
}

// --- ports.TxBroadcaster ---

func (f *fakeChain) Send(ctx context.Context, tx *ports.SignedTx) (string, error) {
	f.mu.Lock()
	f.sent = append(f.sent, tx.Signature)
	f.mu.Unlock()
	f.sending <- struct{}{}
	return tx.Signature, nil
}

func (f *fakeChain) Confirm(ctx context.Context, signature string) error {
	f.mu.Lock()
	hold := f.hold
	f.mu.Unlock()
	if hold == nil {
		return nil
	}
	select {
	case <-hold:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- ports.WalletProvider ---

func (f *fakeChain) Connect(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.connected = true
	subs := f.subscriberList()
	f.mu.Unlock()
	for _, fn := range subs {
		fn(f.address, true)
	}
	return f.address, nil
}

func (f *fakeChain) Disconnect() {
	f.mu.Lock()
	f.connected = false
	subs := f.subscriberList()
	f.mu.Unlock()
	for _, fn := range subs {
		fn(f.address, false)
	}
}

func (f *fakeChain) Address() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return "", false
	}
	return f.address, true
}

func (f *fakeChain) Subscribe(fn func(address string, connected bool)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.subscribers[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subscribers, id)
	}
}

func (f *fakeChain) subscriberList() []func(string, bool) {
	out := make([]func(string, bool), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		out = append(out, fn)
	}
	return out
}

func (f *fakeChain) SignTransaction(ctx context.Context, tx *ports.UnsignedTx) (*ports.SignedTx, error) {
	if _, ok := f.Address(); !ok {
		return nil, errors.New("wallet not connected")
	}
	return &ports.SignedTx{Raw: tx.Raw, Signature: "sig-" + uuid.NewString()}, nil
}

// --- in-memory repositories ---

type inMemoryActionRepo struct {
	mu      sync.Mutex
	actions map[uuid.UUID]*domain.ActionRecord
}

func newInMemoryActionRepo() *inMemoryActionRepo {
	return &inMemoryActionRepo{actions: make(map[uuid.UUID]*domain.ActionRecord)}
}

func (r *inMemoryActionRepo) Create(ctx context.Context, action *domain.ActionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.actions {
		if a.Wallet == action.Wallet && a.ReferenceID == action.ReferenceID {
			return fmt.Errorf("duplicate reference %s", action.ReferenceID)
		}
	}
	cp := *action
	r.actions[action.ID] = &cp
	return nil
}

func (r *inMemoryActionRepo) GetByReference(ctx context.Context, wallet, referenceID string) (*domain.ActionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.actions {
		if a.Wallet == wallet && a.ReferenceID == referenceID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryActionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ActionStatus, errMsg *string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actions[id]
	if !ok {
		return fmt.Errorf("action %s not found", id)
	}
	a.Status = status
	a.Error = errMsg
	a.CompletedAt = &completedAt
	return nil
}

func (r *inMemoryActionRepo) List(ctx context.Context, params ports.ActionListParams) ([]domain.ActionRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.ActionRecord
	for _, a := range r.actions {
		if params.Wallet != "" && a.Wallet != params.Wallet {
			continue
		}
		if params.Kind != nil && a.Kind != *params.Kind {
			continue
		}
		if params.Status != nil && a.Status != *params.Status {
			continue
		}
		matched = append(matched, *a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start >= len(matched) {
		return []domain.ActionRecord{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type inMemoryAuditRepo struct {
	mu   sync.Mutex
	logs []domain.AuditLog
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *inMemoryAuditRepo) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, l.Action)
	}
	return out
}

type inMemoryHistoryRepo struct {
	mu     sync.Mutex
	points []domain.VaultHistoryPoint
}

func (r *inMemoryHistoryRepo) Record(ctx context.Context, point *domain.VaultHistoryPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, *point)
	return nil
}

func (r *inMemoryHistoryRepo) ListSince(ctx context.Context, vaultName string, since *time.Time) ([]domain.VaultHistoryPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.VaultHistoryPoint
	for _, p := range r.points {
		if p.VaultName != vaultName {
			continue
		}
		if since != nil && p.RecordedAt.Before(*since) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
