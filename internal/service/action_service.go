package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/evaluator"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/apperror"
	"vault-dashboard/pkg/metrics"
	"vault-dashboard/pkg/safe"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const idempotencyTTL = 24 * time.Hour

// ActionServiceDeps groups the collaborators of ActionServiceImpl.
type ActionServiceDeps struct {
	Source      ports.VaultDataSource
	Wallet      ports.WalletProvider
	Builder     ports.TxBuilder
	Broadcaster ports.TxBroadcaster
	Actions     ports.ActionRepository
	Cache       ports.IdempotencyCache
	Audit       ports.AuditService
	Refresher   ports.Refresher
	Metrics     *metrics.Registry
}

// ActionServiceImpl implements ports.ActionService. Only one action runs at
// a time; a second call while one is in flight fails fast.
type ActionServiceImpl struct {
	deps     ActionServiceDeps
	params   VaultParams
	inFlight atomic.Bool
	clock    func() time.Time
	log      zerolog.Logger
}

// NewActionService creates a new ActionServiceImpl.
func NewActionService(deps ActionServiceDeps, params VaultParams, log zerolog.Logger) *ActionServiceImpl {
	return &ActionServiceImpl{
		deps:   deps,
		params: params,
		clock:  time.Now,
		log:    log,
	}
}

// prepared is a built transaction plus the journal fields describing it.
type prepared struct {
	tx          *ports.UnsignedTx
	amount      *decimal.Decimal
	batchIndex  *uint64
	targetIndex uint64
}

type prepareFunc func(ctx context.Context, wallet string) (*prepared, error)

// Deposit validates amount against balance and batch eligibility, then deposits.
func (s *ActionServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.ActionRecord, error) {
	return s.execute(ctx, domain.ActionKindDeposit, req.ReferenceID, req.ClientIP, func(ctx context.Context, wallet string) (*prepared, error) {
		minimum := s.params.MinDeposit
		if req.Amount.LessThan(minimum) {
			return nil, apperror.ErrBelowMinimumDeposit(minimum.String())
		}

		balance, err := s.deps.Source.GetTokenBalance(ctx, wallet)
		if err != nil {
			if !errors.Is(err, domain.ErrAccountNotFound) {
				return nil, apperror.ErrUpstreamUnavailable(fmt.Errorf("token balance: %w", err))
			}
			balance = decimal.Zero
		}
		if err := evaluator.ValidateDeposit(req.Amount, balance, minimum); errors.Is(err, evaluator.ErrExceedsBalance) {
			return nil, apperror.ErrExceedsBalance()
		}

		vault, eligibility, err := loadEligibility(ctx, s.deps.Source, s.params.Name, s.clock())
		if err != nil {
			return nil, err
		}
		if !eligibility.CanDeposit {
			return nil, apperror.ErrDepositNotAllowed(eligibility.Message)
		}

		depositIndex, err := s.nextIndex(ctx, s.deps.Source.GetCurrentUserDepositIndex, wallet)
		if err != nil {
			return nil, err
		}
		raw, err := domain.ToBaseUnits(req.Amount, s.params.MintDecimals)
		if err != nil {
			return nil, apperror.Validation(fmt.Sprintf("invalid deposit amount: %v", err))
		}

		tx, err := s.deps.Builder.BuildDeposit(ctx, ports.DepositTxParams{
			VaultName:    s.params.Name,
			User:         wallet,
			BatchIndex:   vault.BatchCount,
			DepositIndex: depositIndex,
			Amount:       raw,
			FeeReceiver:  vault.DepositTxFeeReceiver,
		})
		if err != nil {
			return nil, apperror.ErrBuildFailed(err)
		}

		amount := req.Amount
		batchIndex := vault.BatchCount
		return &prepared{tx: tx, amount: &amount, batchIndex: &batchIndex, targetIndex: depositIndex}, nil
	})
}

// RequestWithdraw queues shares for withdrawal in the current batch.
func (s *ActionServiceImpl) RequestWithdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.ActionRecord, error) {
	return s.execute(ctx, domain.ActionKindRequestWithdraw, req.ReferenceID, req.ClientIP, func(ctx context.Context, wallet string) (*prepared, error) {
		user, err := s.deps.Source.GetUserSnapshot(ctx, s.params.Name, wallet)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, apperror.ErrNoDeposits()
			}
			return nil, apperror.ErrUpstreamUnavailable(fmt.Errorf("user snapshot: %w", err))
		}

		vault, err := s.deps.Source.GetVaultSnapshot(ctx, s.params.Name)
		if err != nil {
			return nil, vaultFetchError(err)
		}
		position, err := evaluator.ComputePosition(user, vault.CurrentSharePrice, s.params.MintDecimals)
		if err != nil {
			s.log.Error().Err(err).
				Str("invariant", "available_shares_non_negative").
				Str("wallet", wallet).
				Msg("inconsistent user position")
			return nil, apperror.ErrInconsistentState(err)
		}
		switch err := evaluator.ValidateWithdraw(req.Shares, position.AvailableShares); {
		case errors.Is(err, evaluator.ErrNonPositiveShares):
			return nil, apperror.ErrInvalidShares()
		case errors.Is(err, evaluator.ErrInsufficientShares):
			return nil, apperror.ErrInsufficientShares(position.AvailableShares.String())
		}

		batchIndex, err := s.deps.Source.GetCurrentBatchIndex(ctx, s.params.Name)
		if err != nil {
			return nil, apperror.ErrUpstreamUnavailable(fmt.Errorf("current batch index: %w", err))
		}
		withdrawIndex, err := s.nextIndex(ctx, s.deps.Source.GetCurrentUserWithdrawIndex, wallet)
		if err != nil {
			return nil, err
		}
		raw, err := domain.ToBaseUnits(req.Shares, s.params.MintDecimals)
		if err != nil || raw == 0 {
			return nil, apperror.ErrInvalidShares()
		}

		tx, err := s.deps.Builder.BuildRequestWithdraw(ctx, ports.RequestWithdrawTxParams{
			VaultName:     s.params.Name,
			User:          wallet,
			BatchIndex:    batchIndex,
			WithdrawIndex: withdrawIndex,
			Shares:        raw,
		})
		if err != nil {
			return nil, apperror.ErrBuildFailed(err)
		}

		shares := req.Shares
		return &prepared{tx: tx, amount: &shares, batchIndex: &batchIndex, targetIndex: withdrawIndex}, nil
	})
}

// CancelWithdraw cancels a pending withdraw request.
func (s *ActionServiceImpl) CancelWithdraw(ctx context.Context, req ports.WithdrawActionRequest) (*domain.ActionRecord, error) {
	return s.execute(ctx, domain.ActionKindCancelWithdraw, req.ReferenceID, req.ClientIP, func(ctx context.Context, wallet string) (*prepared, error) {
		if _, err := s.pendingWithdrawal(ctx, wallet, req.WithdrawIndex); err != nil {
			return nil, err
		}
		tx, err := s.deps.Builder.BuildCancelWithdraw(ctx, ports.WithdrawTxParams{
			VaultName:     s.params.Name,
			User:          wallet,
			WithdrawIndex: req.WithdrawIndex,
		})
		if err != nil {
			return nil, apperror.ErrBuildFailed(err)
		}
		return &prepared{tx: tx, targetIndex: req.WithdrawIndex}, nil
	})
}

// ProcessWithdraw claims a withdraw request whose cooldown has passed.
func (s *ActionServiceImpl) ProcessWithdraw(ctx context.Context, req ports.WithdrawActionRequest) (*domain.ActionRecord, error) {
	return s.execute(ctx, domain.ActionKindProcessWithdraw, req.ReferenceID, req.ClientIP, func(ctx context.Context, wallet string) (*prepared, error) {
		view, err := s.pendingWithdrawal(ctx, wallet, req.WithdrawIndex)
		if err != nil {
			return nil, err
		}
		if !view.IsReady {
			return nil, apperror.ErrWithdrawNotReady(req.WithdrawIndex)
		}
		tx, err := s.deps.Builder.BuildProcessWithdraw(ctx, ports.WithdrawTxParams{
			VaultName:     s.params.Name,
			User:          wallet,
			WithdrawIndex: req.WithdrawIndex,
		})
		if err != nil {
			return nil, apperror.ErrBuildFailed(err)
		}
		return &prepared{tx: tx, targetIndex: req.WithdrawIndex}, nil
	})
}

// ListActions returns the journal page matching params.
func (s *ActionServiceImpl) ListActions(ctx context.Context, params ports.ActionListParams) ([]domain.ActionRecord, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	actions, total, err := s.deps.Actions.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list actions: %w", err))
	}
	return actions, total, nil
}

// execute runs the shared action pipeline around prepare.
func (s *ActionServiceImpl) execute(ctx context.Context, kind domain.ActionKind, referenceID, clientIP string, prepare prepareFunc) (*domain.ActionRecord, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, apperror.ErrActionInFlight()
	}
	defer s.inFlight.Store(false)

	wallet, ok := s.deps.Wallet.Address()
	if !ok {
		return nil, apperror.ErrWalletNotConnected()
	}

	idempKey := domain.BuildIdempotencyKey(wallet, referenceID)

	// Layer 1: Redis idempotency check
	cached, err := s.deps.Cache.Get(ctx, idempKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return s.unmarshalCachedAction(cached)
	}

	// Layer 2: journal lookup
	existing, err := s.deps.Actions.GetByReference(ctx, wallet, referenceID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("action lookup: %w", err))
	}
	if existing != nil {
		return existing, nil
	}

	p, err := prepare(ctx, wallet)
	if err != nil {
		return nil, err
	}

	signed, err := s.deps.Wallet.SignTransaction(ctx, p.tx)
	if err != nil {
		return nil, apperror.ErrSigningFailed(err)
	}

	// Once signed the transaction may land regardless of the caller, so the
	// rest of the pipeline ignores its cancellation.
	submitCtx := context.WithoutCancel(ctx)

	action := &domain.ActionRecord{
		ID:          uuid.New(),
		Kind:        kind,
		Wallet:      wallet,
		ReferenceID: referenceID,
		Amount:      p.amount,
		BatchIndex:  p.batchIndex,
		TargetIndex: p.targetIndex,
		Signature:   signed.Signature,
		Status:      domain.ActionStatusPending,
		CreatedAt:   s.clock().UTC(),
	}
	if err := s.deps.Actions.Create(submitCtx, action); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("journal action: %w", err))
	}

	submitErr := s.submit(submitCtx, signed)
	s.finish(submitCtx, action, submitErr)

	if submitErr != nil {
		s.log.Error().Err(submitErr).
			Str("action_id", action.ID.String()).
			Str("kind", string(kind)).
			Str("signature", action.Signature).
			Msg("vault action failed")
		return action, submitErr
	}

	s.log.Info().
		Str("action_id", action.ID.String()).
		Str("kind", string(kind)).
		Str("wallet", wallet).
		Str("signature", action.Signature).
		Msg("vault action confirmed")

	s.deps.Audit.Log(submitCtx, &domain.AuditLog{
		ID:           uuid.New(),
		Wallet:       &wallet,
		Action:       domain.AuditActionFor(kind),
		ResourceType: "vault_action",
		ResourceID:   action.ID.String(),
		IPAddress:    clientIP,
		CreatedAt:    s.clock().UTC(),
	})

	if s.deps.Refresher != nil {
		safe.Go(s.log, "post-action-refresh", func() {
			s.deps.Refresher.TriggerVault()
			s.deps.Refresher.TriggerUser()
		})
	}
	return action, nil
}

// submit sends the signed transaction and waits for confirmation.
func (s *ActionServiceImpl) submit(ctx context.Context, signed *ports.SignedTx) error {
	if _, err := s.deps.Broadcaster.Send(ctx, signed); err != nil {
		return apperror.ErrBroadcastFailed(err)
	}

	confirmCtx, cancel := context.WithTimeout(ctx, s.params.ConfirmTimeout)
	defer cancel()
	if err := s.deps.Broadcaster.Confirm(confirmCtx, signed.Signature); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperror.ErrConfirmationTimeout(err)
		}
		return apperror.ErrTransactionFailed(err)
	}
	return nil
}

// finish moves the journal entry to its terminal status and caches it.
func (s *ActionServiceImpl) finish(ctx context.Context, action *domain.ActionRecord, submitErr error) {
	now := s.clock().UTC()
	action.Status = domain.ActionStatusConfirmed
	action.CompletedAt = &now
	if submitErr != nil {
		msg := submitErr.Error()
		action.Status = domain.ActionStatusFailed
		action.Error = &msg
	}
	s.deps.Metrics.RecordAction(string(action.Kind), string(action.Status))

	if err := s.deps.Actions.UpdateStatus(ctx, action.ID, action.Status, action.Error, now); err != nil {
		s.log.Error().Err(err).Str("action_id", action.ID.String()).Msg("failed to update action status")
		return
	}

	respJSON, err := json.Marshal(action)
	if err != nil {
		s.log.Warn().Err(err).Str("action_id", action.ID.String()).Msg("failed to marshal action for cache")
		return
	}
	idempKey := domain.BuildIdempotencyKey(action.Wallet, action.ReferenceID)
	if err := s.deps.Cache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}
}

// pendingWithdrawal loads a withdraw record and requires it to be Requested.
func (s *ActionServiceImpl) pendingWithdrawal(ctx context.Context, wallet string, index uint64) (evaluator.WithdrawalView, error) {
	record, err := s.deps.Source.GetWithdrawRecord(ctx, s.params.Name, wallet, index)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return evaluator.WithdrawalView{}, apperror.ErrNotFound("Withdrawal")
		}
		return evaluator.WithdrawalView{}, apperror.ErrUpstreamUnavailable(fmt.Errorf("withdraw record: %w", err))
	}
	if record.Status != domain.WithdrawStatusRequested {
		return evaluator.WithdrawalView{}, apperror.ErrWithdrawNotPending(index)
	}
	return evaluator.ClassifyWithdrawal(*record, s.clock()), nil
}

// nextIndex returns the user's current counter plus one. A user without an
// account starts at 1.
func (s *ActionServiceImpl) nextIndex(ctx context.Context, current func(ctx context.Context, vaultName, owner string) (uint64, error), wallet string) (uint64, error) {
	index, err := current(ctx, s.params.Name, wallet)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return 0, apperror.ErrUpstreamUnavailable(fmt.Errorf("user index: %w", err))
		}
		index = 0
	}
	return index + 1, nil
}

func (s *ActionServiceImpl) unmarshalCachedAction(data []byte) (*domain.ActionRecord, error) {
	action := &domain.ActionRecord{}
	if err := json.Unmarshal(data, action); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached action: %w", err))
	}
	return action, nil
}
