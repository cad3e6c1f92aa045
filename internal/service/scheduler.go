package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/metrics"
	"vault-dashboard/pkg/safe"

	"github.com/rs/zerolog"
)

// SchedulerConfig holds the periodic refresh intervals.
type SchedulerConfig struct {
	VaultInterval time.Duration
	BatchInterval time.Duration
	UserInterval  time.Duration
}

// Scheduler keeps DashboardStore fresh. Each refresh kind is a refreshTask
// driven by its own ticker and by vault events.
type Scheduler struct {
	vault    ports.VaultService
	history  ports.HistoryService
	wallet   ports.WalletProvider
	events   ports.EventStream
	notifier ports.Notifier
	store    *DashboardStore
	clock    func() time.Time
	log      zerolog.Logger

	vaultTask *refreshTask
	batchTask *refreshTask
	userTask  *refreshTask

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	eventsDone  chan struct{}
}

// NewScheduler wires the refresh tasks. events and notifier may be nil.
func NewScheduler(
	cfg SchedulerConfig,
	vault ports.VaultService,
	history ports.HistoryService,
	wallet ports.WalletProvider,
	events ports.EventStream,
	notifier ports.Notifier,
	store *DashboardStore,
	m *metrics.Registry,
	log zerolog.Logger,
) *Scheduler {
	s := &Scheduler{
		vault:    vault,
		history:  history,
		wallet:   wallet,
		events:   events,
		notifier: notifier,
		store:    store,
		clock:    time.Now,
		log:      log,
	}
	s.vaultTask = newRefreshTask("vault", cfg.VaultInterval, s.refreshVault, m, log)
	s.batchTask = newRefreshTask("batch", cfg.BatchInterval, s.refreshBatch, m, log)
	s.userTask = newRefreshTask("user", cfg.UserInterval, s.refreshUser, m, log)
	return s
}

// Start launches the vault and batch loops, follows wallet connection
// changes and consumes vault events until Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("scheduler already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	s.vaultTask.Start(s.ctx)
	s.batchTask.Start(s.ctx)

	s.unsubscribe = s.wallet.Subscribe(s.onWalletChange)
	if _, ok := s.wallet.Address(); ok {
		s.userTask.Start(s.ctx)
	}

	if s.events != nil {
		ch, unsubscribe, err := s.events.Subscribe(s.ctx)
		if err != nil {
			// Polling still works without events.
			s.log.Warn().Err(err).Msg("vault event subscription failed, continuing with polling only")
		} else {
			s.eventsDone = make(chan struct{})
			done := s.eventsDone
			loopCtx := s.ctx
			safe.Go(s.log, "vault-events", func() {
				defer close(done)
				defer unsubscribe()
				s.consumeEvents(loopCtx, ch)
			})
		}
	}

	s.log.Info().Msg("refresh scheduler started")
	return nil
}

// Stop tears down every loop and waits for in-flight refreshes to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.cancel()
	s.cancel = nil
	eventsDone := s.eventsDone
	s.eventsDone = nil
	s.mu.Unlock()

	if eventsDone != nil {
		<-eventsDone
	}
	s.vaultTask.Stop()
	s.batchTask.Stop()
	s.userTask.Stop()
	s.log.Info().Msg("refresh scheduler stopped")
}

// TriggerVault restarts the vault and batch refreshes now.
func (s *Scheduler) TriggerVault() {
	s.vaultTask.Trigger()
	s.batchTask.Trigger()
}

// TriggerUser restarts the user refresh now. No-op while disconnected.
func (s *Scheduler) TriggerUser() {
	s.userTask.Trigger()
}

func (s *Scheduler) Snapshot() ports.DashboardState {
	return s.store.Snapshot()
}

func (s *Scheduler) onWalletChange(address string, connected bool) {
	s.mu.Lock()
	ctx := s.ctx
	running := s.cancel != nil
	s.mu.Unlock()
	if !running {
		return
	}

	// Restart so a new address never sees the previous address's run.
	s.userTask.Stop()
	if !connected {
		s.store.ClearUser()
		s.log.Info().Msg("wallet disconnected, user refresh stopped")
		return
	}
	s.store.ClearUser()
	s.userTask.Start(ctx)
	s.log.Info().Str("wallet", address).Msg("wallet connected, user refresh started")
}

func (s *Scheduler) consumeEvents(ctx context.Context, ch <-chan domain.VaultEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				s.log.Warn().Msg("vault event stream closed")
				return
			}
			s.log.Info().
				Str("event", string(ev.Kind)).
				Uint64("batch_index", ev.BatchIndex).
				Msg("vault event received, refreshing")

			s.TriggerVault()
			s.TriggerUser()

			if s.notifier != nil {
				if err := s.notifier.Notify(ctx, ev); err != nil {
					s.log.Warn().Err(err).Str("event", string(ev.Kind)).Msg("failed to notify vault event")
				}
			}
		}
	}
}

// refreshVault updates the overview and records history. Eligibility belongs
// to the batch task alone so one trigger never races two writers.
func (s *Scheduler) refreshVault(ctx context.Context) error {
	overview, err := s.vault.GetOverview(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.store.SetVaultError(err)
		return err
	}
	s.store.SetOverview(overview, s.clock())

	if s.history != nil {
		if err := s.history.Record(ctx, overview); err != nil {
			s.log.Warn().Err(err).Msg("failed to record vault history")
		}
	}
	return nil
}

func (s *Scheduler) refreshBatch(ctx context.Context) error {
	eligibility, err := s.vault.GetDepositEligibility(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.store.SetBatchError(err)
		return err
	}
	s.store.SetEligibility(eligibility, s.clock())
	return nil
}

func (s *Scheduler) refreshUser(ctx context.Context) error {
	address, ok := s.wallet.Address()
	if !ok {
		return nil
	}
	view, err := s.vault.GetUserView(ctx, address)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.store.SetUserError(err)
		return err
	}
	s.store.SetUser(view, s.clock())
	return nil
}
