package ports

import (
	"context"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/evaluator"

	"github.com/shopspring/decimal"
)

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached action JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, accessKey string, nonce string, ttl time.Duration) (bool, error)
}

// --- Service Ports (Business Logic) ---

// VaultOverview is the vault-wide dashboard figure set.
type VaultOverview struct {
	VaultName         string                  `json:"vault_name"`
	TVL               decimal.Decimal         `json:"tvl"`
	SharePrice        decimal.Decimal         `json:"share_price"`
	CurrentBatchIndex uint64                  `json:"current_batch_index"`
	VaultBatchStatus  domain.VaultBatchStatus `json:"vault_batch_status"`
}

// UserView is everything the dashboard shows for one wallet.
type UserView struct {
	Address            string                     `json:"address"`
	ShortAddress       string                     `json:"short_address"`
	HasAccount         bool                       `json:"has_account"`
	Balance            decimal.Decimal            `json:"balance"`
	Position           evaluator.UserPosition     `json:"position"`
	PendingDeposits    []evaluator.DepositView    `json:"pending_deposits"`
	PendingWithdrawals []evaluator.WithdrawalView `json:"pending_withdrawals"`
	// Warnings name the parts of the view that failed to load and are shown
	// as zero or missing. Empty when the view is complete.
	Warnings []string `json:"warnings,omitempty"`
}

// Quote is the share estimate for a deposit amount.
type Quote struct {
	Amount         decimal.Decimal `json:"amount"`
	SharePrice     decimal.Decimal `json:"share_price"`
	SharesReceived decimal.Decimal `json:"shares_received"`
}

// VaultService reads live vault state and evaluates it.
type VaultService interface {
	GetOverview(ctx context.Context) (*VaultOverview, error)
	GetDepositEligibility(ctx context.Context) (*evaluator.DepositEligibility, error)
	GetUserView(ctx context.Context, address string) (*UserView, error)
	Quote(ctx context.Context, amount decimal.Decimal) (*Quote, error)
}

// DashboardState is the cached result of the latest refresh cycles.
type DashboardState struct {
	Overview         *VaultOverview                `json:"overview"`
	Eligibility      *evaluator.DepositEligibility `json:"eligibility"`
	User             *UserView                     `json:"user"`
	VaultRefreshedAt *time.Time                    `json:"vault_refreshed_at,omitempty"`
	BatchRefreshedAt *time.Time                    `json:"batch_refreshed_at,omitempty"`
	UserRefreshedAt  *time.Time                    `json:"user_refreshed_at,omitempty"`
	VaultError       string                        `json:"vault_error,omitempty"`
	BatchError       string                        `json:"batch_error,omitempty"`
	UserError        string                        `json:"user_error,omitempty"`
}

// DashboardReader exposes a copy of the cached dashboard state.
type DashboardReader interface {
	Snapshot() DashboardState
}

// Refresher schedules out-of-band refreshes.
type Refresher interface {
	// TriggerVault refreshes vault overview and batch eligibility.
	TriggerVault()
	// TriggerUser refreshes the connected wallet's view. No-op while disconnected.
	TriggerUser()
}

// DepositRequest holds validated input for a deposit.
type DepositRequest struct {
	ReferenceID string
	Amount      decimal.Decimal
	ClientIP    string
}

// WithdrawRequest holds validated input for a withdraw request.
type WithdrawRequest struct {
	ReferenceID string
	Shares      decimal.Decimal
	ClientIP    string
}

// WithdrawActionRequest addresses an existing withdraw request.
type WithdrawActionRequest struct {
	ReferenceID   string
	WithdrawIndex uint64
	ClientIP      string
}

// ActionService submits mutating vault actions, one at a time.
type ActionService interface {
	Deposit(ctx context.Context, req DepositRequest) (*domain.ActionRecord, error)
	RequestWithdraw(ctx context.Context, req WithdrawRequest) (*domain.ActionRecord, error)
	CancelWithdraw(ctx context.Context, req WithdrawActionRequest) (*domain.ActionRecord, error)
	ProcessWithdraw(ctx context.Context, req WithdrawActionRequest) (*domain.ActionRecord, error)
	ListActions(ctx context.Context, params ActionListParams) ([]domain.ActionRecord, int64, error)
}

// PerformancePoint is one point of the share price series.
type PerformancePoint struct {
	RecordedAt  time.Time       `json:"recorded_at"`
	BatchIndex  uint64          `json:"batch_index"`
	SharePrice  decimal.Decimal `json:"share_price"`
	TVL         decimal.Decimal `json:"tvl"`
	Performance decimal.Decimal `json:"performance"` // percent change vs first point
}

// PerformanceSeries is the recorded share price history for a period.
type PerformanceSeries struct {
	Period string             `json:"period"`
	Points []PerformancePoint `json:"points"`
}

// HistoryService records and reports vault history.
type HistoryService interface {
	Record(ctx context.Context, overview *VaultOverview) error
	GetPerformance(ctx context.Context, period string) (*PerformanceSeries, error)
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// Notifier forwards vault events to the configured webhook.
type Notifier interface {
	Notify(ctx context.Context, event domain.VaultEvent) error
}
