package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/evaluator"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// recordFetchLimit bounds concurrent deposit/withdraw record lookups per user.
const recordFetchLimit = 8

// VaultParams identifies the vault and its token precision.
type VaultParams struct {
	Name           string
	MintDecimals   uint8
	MinDeposit     decimal.Decimal
	ConfirmTimeout time.Duration
}

// VaultServiceImpl implements ports.VaultService on top of a VaultDataSource.
type VaultServiceImpl struct {
	source ports.VaultDataSource
	params VaultParams
	clock  func() time.Time
	log    zerolog.Logger
}

// NewVaultService creates a new vault read service.
func NewVaultService(source ports.VaultDataSource, params VaultParams, log zerolog.Logger) *VaultServiceImpl {
	return &VaultServiceImpl{
		source: source,
		params: params,
		clock:  time.Now,
		log:    log,
	}
}

// GetOverview returns TVL, share price and the current batch index.
func (s *VaultServiceImpl) GetOverview(ctx context.Context) (*ports.VaultOverview, error) {
	vault, err := s.source.GetVaultSnapshot(ctx, s.params.Name)
	if err != nil {
		return nil, vaultFetchError(err)
	}
	return overviewOf(vault), nil
}

// GetDepositEligibility evaluates whether deposits are open right now.
func (s *VaultServiceImpl) GetDepositEligibility(ctx context.Context) (*evaluator.DepositEligibility, error) {
	_, eligibility, err := loadEligibility(ctx, s.source, s.params.Name, s.clock())
	if err != nil {
		return nil, err
	}
	return &eligibility, nil
}

// GetUserView derives the position and pending lists of address.
// An address without a vault account gets an empty view.
func (s *VaultServiceImpl) GetUserView(ctx context.Context, address string) (*ports.UserView, error) {
	var (
		vault      *domain.VaultSnapshot
		user       *domain.UserSnapshot
		balance    = decimal.Zero
		balanceErr string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.source.GetVaultSnapshot(gctx, s.params.Name)
		if err != nil {
			return vaultFetchError(err)
		}
		vault = v
		return nil
	})
	g.Go(func() error {
		u, err := s.source.GetUserSnapshot(gctx, s.params.Name, address)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil
			}
			return apperror.ErrUpstreamUnavailable(err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		balance, balanceErr = s.tokenBalance(gctx, address)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	position, err := evaluator.ComputePosition(user, vault.CurrentSharePrice, s.params.MintDecimals)
	if err != nil {
		s.log.Error().Err(err).
			Str("invariant", "available_shares_non_negative").
			Str("wallet", address).
			Msg("inconsistent user position")
		return nil, apperror.ErrInconsistentState(err)
	}

	view := &ports.UserView{
		Address:            address,
		ShortAddress:       domain.ShortAddress(address),
		HasAccount:         user != nil,
		Balance:            balance,
		Position:           position,
		PendingDeposits:    []evaluator.DepositView{},
		PendingWithdrawals: []evaluator.WithdrawalView{},
	}
	if balanceErr != "" {
		view.Warnings = append(view.Warnings, balanceErr)
	}
	if user == nil {
		return view, nil
	}

	deposits, withdrawals, warnings, err := s.fetchRecords(ctx, address, user)
	if err != nil {
		return nil, err
	}
	view.Warnings = append(view.Warnings, warnings...)
	view.PendingDeposits = evaluator.PendingDeposits(deposits)
	view.PendingWithdrawals = evaluator.PendingWithdrawals(withdrawals, s.clock())
	return view, nil
}

// Quote estimates the shares a deposit of amount receives at the current price.
func (s *VaultServiceImpl) Quote(ctx context.Context, amount decimal.Decimal) (*ports.Quote, error) {
	vault, err := s.source.GetVaultSnapshot(ctx, s.params.Name)
	if err != nil {
		return nil, vaultFetchError(err)
	}
	return &ports.Quote{
		Amount:         amount,
		SharePrice:     vault.CurrentSharePrice,
		SharesReceived: evaluator.SharesReceived(amount, vault.CurrentSharePrice, s.params.MintDecimals),
	}, nil
}

// tokenBalance treats a missing token account as zero. Other failures are
// also reported as zero, with a warning for the view.
func (s *VaultServiceImpl) tokenBalance(ctx context.Context, address string) (decimal.Decimal, string) {
	balance, err := s.source.GetTokenBalance(ctx, address)
	if err == nil {
		return balance, ""
	}
	if errors.Is(err, domain.ErrAccountNotFound) {
		return decimal.Zero, ""
	}
	s.log.Warn().Err(err).Str("wallet", address).Msg("failed to fetch token balance")
	return decimal.Zero, "token balance unavailable: " + err.Error()
}

// fetchRecords loads every deposit and withdraw record of the user in index
// order. Missing records are skipped; records that fail to load are skipped
// and reported as warnings.
func (s *VaultServiceImpl) fetchRecords(ctx context.Context, address string, user *domain.UserSnapshot) ([]domain.DepositRecord, []domain.WithdrawRecord, []string, error) {
	depositSlots := make([]*domain.DepositRecord, user.DepositCount)
	withdrawSlots := make([]*domain.WithdrawRecord, user.RequestedShareWithdrawCount)
	depositErrs := make([]error, len(depositSlots))
	withdrawErrs := make([]error, len(withdrawSlots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recordFetchLimit)

	for i := range depositSlots {
		index := uint64(i) + 1
		g.Go(func() error {
			rec, err := s.source.GetDepositRecord(gctx, s.params.Name, address, index)
			if err != nil {
				depositErrs[index-1] = err
				return nil
			}
			depositSlots[index-1] = rec
			return nil
		})
	}
	for i := range withdrawSlots {
		index := uint64(i) + 1
		g.Go(func() error {
			rec, err := s.source.GetWithdrawRecord(gctx, s.params.Name, address, index)
			if err != nil {
				withdrawErrs[index-1] = err
				return nil
			}
			withdrawSlots[index-1] = rec
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	var warnings []string
	warn := func(kind string, index int, err error) {
		if err == nil || errors.Is(err, domain.ErrAccountNotFound) {
			return
		}
		s.log.Warn().Err(err).Str("wallet", address).Int(kind+"_index", index).Msg("failed to fetch " + kind + " record")
		warnings = append(warnings, fmt.Sprintf("%s record #%d unavailable: %v", kind, index, err))
	}

	deposits := make([]domain.DepositRecord, 0, len(depositSlots))
	for i, rec := range depositSlots {
		if rec != nil {
			deposits = append(deposits, *rec)
		}
		warn("deposit", i+1, depositErrs[i])
	}
	withdrawals := make([]domain.WithdrawRecord, 0, len(withdrawSlots))
	for i, rec := range withdrawSlots {
		if rec != nil {
			withdrawals = append(withdrawals, *rec)
		}
		warn("withdraw", i+1, withdrawErrs[i])
	}
	return deposits, withdrawals, warnings, nil
}

// loadEligibility fetches the vault and, when the chain reaches it, the
// current batch, then runs the eligibility evaluation.
func loadEligibility(ctx context.Context, source ports.VaultDataSource, vaultName string, now time.Time) (*domain.VaultSnapshot, evaluator.DepositEligibility, error) {
	vault, err := source.GetVaultSnapshot(ctx, vaultName)
	if err != nil {
		return nil, evaluator.DepositEligibility{}, vaultFetchError(err)
	}

	var batch *domain.BatchSnapshot
	if vault.BatchCount > 0 && vault.VaultBatchStatus == domain.VaultBatchStatusBatchOpen {
		batch, err = source.GetBatchSnapshot(ctx, vaultName, vault.BatchCount)
		if err != nil {
			if !errors.Is(err, domain.ErrAccountNotFound) {
				return nil, evaluator.DepositEligibility{}, apperror.ErrUpstreamUnavailable(err)
			}
			batch = nil
		}
	}

	return vault, evaluator.EvaluateDepositEligibility(*vault, batch, now), nil
}

func overviewOf(vault *domain.VaultSnapshot) *ports.VaultOverview {
	return &ports.VaultOverview{
		VaultName:         vault.Name,
		TVL:               vault.TotalDepositAmount,
		SharePrice:        vault.CurrentSharePrice,
		CurrentBatchIndex: vault.BatchCount,
		VaultBatchStatus:  vault.VaultBatchStatus,
	}
}

func vaultFetchError(err error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperror.ErrNotFound("Vault")
	}
	return apperror.ErrUpstreamUnavailable(fmt.Errorf("fetch vault: %w", err))
}
