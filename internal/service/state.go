package service

import (
	"slices"
	"sync"
	"time"

	"vault-dashboard/internal/core/evaluator"
	"vault-dashboard/internal/core/ports"
)

// DashboardStore holds the latest refresh results. Refresh tasks write it,
// readers get deep copies.
type DashboardStore struct {
	mu    sync.RWMutex
	state ports.DashboardState
}

func NewDashboardStore() *DashboardStore {
	return &DashboardStore{}
}

// Snapshot returns a copy that shares no memory with the store.
func (s *DashboardStore) Snapshot() ports.DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	if s.state.Overview != nil {
		o := *s.state.Overview
		out.Overview = &o
	}
	if s.state.Eligibility != nil {
		e := *s.state.Eligibility
		if e.Batch != nil {
			b := *e.Batch
			e.Batch = &b
		}
		out.Eligibility = &e
	}
	if s.state.User != nil {
		u := *s.state.User
		u.PendingDeposits = slices.Clone(u.PendingDeposits)
		u.PendingWithdrawals = slices.Clone(u.PendingWithdrawals)
		out.User = &u
	}
	out.VaultRefreshedAt = cloneTime(s.state.VaultRefreshedAt)
	out.BatchRefreshedAt = cloneTime(s.state.BatchRefreshedAt)
	out.UserRefreshedAt = cloneTime(s.state.UserRefreshedAt)
	return out
}

// SetOverview replaces the overview and clears the vault error.
func (s *DashboardStore) SetOverview(overview *ports.VaultOverview, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Overview = overview
	s.state.VaultRefreshedAt = &at
	s.state.VaultError = ""
}

// SetVaultError records a failed vault refresh. The last overview is kept.
func (s *DashboardStore) SetVaultError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.VaultError = displayError(err)
}

func (s *DashboardStore) SetEligibility(eligibility *evaluator.DepositEligibility, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Eligibility = eligibility
	s.state.BatchRefreshedAt = &at
	s.state.BatchError = ""
}

func (s *DashboardStore) SetBatchError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.BatchError = displayError(err)
}

func (s *DashboardStore) SetUser(view *ports.UserView, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = view
	s.state.UserRefreshedAt = &at
	s.state.UserError = ""
}

func (s *DashboardStore) SetUserError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UserError = displayError(err)
}

// ClearUser drops the user view after a wallet disconnect.
func (s *DashboardStore) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = nil
	s.state.UserRefreshedAt = nil
	s.state.UserError = ""
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
