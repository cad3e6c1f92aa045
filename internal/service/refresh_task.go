package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"vault-dashboard/pkg/metrics"
	"vault-dashboard/pkg/safe"

	"github.com/rs/zerolog"
)

// refreshTask runs fn periodically while active, with at most one run in
// flight. Ticks skip when a run is in flight; Trigger cancels it and starts over.
type refreshTask struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
	metrics  *metrics.Registry
	log      zerolog.Logger

	mu       sync.Mutex
	active   bool
	parent   context.Context
	stopLoop context.CancelFunc
	loopDone chan struct{}
	cancel   context.CancelFunc
	done     chan struct{}
}

func newRefreshTask(name string, interval time.Duration, run func(ctx context.Context) error, m *metrics.Registry, log zerolog.Logger) *refreshTask {
	return &refreshTask{
		name:     name,
		interval: interval,
		run:      run,
		metrics:  m,
		log:      log.With().Str("task", name).Logger(),
	}
}

// Start runs immediately and then every interval until Stop or ctx is done.
func (t *refreshTask) Start(ctx context.Context) {
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		return
	}
	loopCtx, stop := context.WithCancel(ctx)
	t.active = true
	t.parent = loopCtx
	t.stopLoop = stop
	t.loopDone = make(chan struct{})
	loopDone := t.loopDone
	t.launchLocked()
	t.mu.Unlock()

	safe.Go(t.log, "refresh-loop:"+t.name, func() {
		defer close(loopDone)
		t.loop(loopCtx)
	})
}

// Stop cancels the in-flight run and the loop and waits for both.
func (t *refreshTask) Stop() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	t.active = false
	t.stopLoop()
	t.cancelLocked()
	loopDone := t.loopDone
	t.mu.Unlock()

	<-loopDone
}

// Trigger cancels any in-flight run, waits for it to exit, then starts a new one.
func (t *refreshTask) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return
	}
	t.cancelLocked()
	t.launchLocked()
}

func (t *refreshTask) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *refreshTask) loop(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

func (t *refreshTask) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || t.runningLocked() {
		return
	}
	t.launchLocked()
}

func (t *refreshTask) runningLocked() bool {
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

func (t *refreshTask) cancelLocked() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel = nil
}

func (t *refreshTask) launchLocked() {
	ctx, cancel := context.WithCancel(t.parent)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	safe.Go(t.log, "refresh:"+t.name, func() {
		defer close(done)
		defer cancel()

		start := time.Now()
		err := t.run(ctx)
		if ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled)) {
			t.log.Debug().Msg("refresh cancelled, result discarded")
			return
		}
		t.metrics.ObserveRefresh(t.name, time.Since(start).Seconds(), err)
		if err != nil {
			t.log.Warn().Err(err).Msg("refresh failed")
			return
		}
		t.log.Debug().Dur("took", time.Since(start)).Msg("refresh completed")
	})
}
