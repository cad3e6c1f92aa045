package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidAccessKey() *AppError {
	return New("SEC_001", "Invalid operator access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

// ---- Vault rules (VAULT) ----

func ErrBelowMinimumDeposit(minimum string) *AppError {
	return New("VAULT_001", fmt.Sprintf("Deposit amount must be at least %s", minimum), http.StatusBadRequest)
}

func ErrExceedsBalance() *AppError {
	return New("VAULT_002", "Deposit amount exceeds token balance", http.StatusUnprocessableEntity)
}

func ErrInvalidShares() *AppError {
	return New("VAULT_003", "Withdrawal amount must be greater than 0", http.StatusBadRequest)
}

func ErrInsufficientShares(available string) *AppError {
	return New("VAULT_004", fmt.Sprintf("Insufficient available shares (available: %s)", available), http.StatusUnprocessableEntity)
}

// ErrDepositNotAllowed carries the batch eligibility message verbatim.
func ErrDepositNotAllowed(message string) *AppError {
	return New("VAULT_010", message, http.StatusConflict)
}

func ErrNoDeposits() *AppError {
	return New("VAULT_020", "You have no deposits in this vault yet. Please deposit first.", http.StatusUnprocessableEntity)
}

func ErrWithdrawNotPending(index uint64) *AppError {
	return New("VAULT_021", fmt.Sprintf("Withdrawal #%d is not pending", index), http.StatusConflict)
}

func ErrWithdrawNotReady(index uint64) *AppError {
	return New("VAULT_022", fmt.Sprintf("Withdrawal #%d is still in cooldown", index), http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("VAULT_030", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Action guard (ACT) ----

func ErrActionInFlight() *AppError {
	return New("ACT_001", "Another vault action is still being processed", http.StatusConflict)
}

func ErrWalletNotConnected() *AppError {
	return New("ACT_002", "No wallet connected", http.StatusConflict)
}

func ErrWalletConnectFailed(err error) *AppError {
	return Wrap("ACT_003", "Failed to connect wallet", http.StatusServiceUnavailable, err)
}

// ---- Transaction submission (TX) ----

func ErrBuildFailed(err error) *AppError {
	return Wrap("TX_001", "Failed to build transaction", http.StatusBadGateway, err)
}

func ErrSigningFailed(err error) *AppError {
	return Wrap("TX_002", "Wallet refused to sign the transaction", http.StatusBadGateway, err)
}

func ErrBroadcastFailed(err error) *AppError {
	return Wrap("TX_003", "Transaction was rejected by the RPC node", http.StatusBadGateway, err)
}

func ErrConfirmationTimeout(err error) *AppError {
	return Wrap("TX_004", "Timed out waiting for transaction confirmation", http.StatusGatewayTimeout, err)
}

func ErrTransactionFailed(err error) *AppError {
	return Wrap("TX_005", "Transaction failed on chain", http.StatusBadGateway, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrUpstreamUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Vault data source unavailable", http.StatusServiceUnavailable, err)
}

func ErrInconsistentState(err error) *AppError {
	return Wrap("SYS_004", "Vault account data is inconsistent", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a REQ_001 request validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}

func ErrBodyTooLarge() *AppError {
	return New("REQ_002", "Request body too large", http.StatusRequestEntityTooLarge)
}
