package solana

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/pkg/retrier"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubscription replays queued results, then blocks until closed or ctx is done.
type fakeSubscription struct {
	results chan *ws.LogResult
	errs    chan error
	closed  chan struct{}
	once    sync.Once
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{
		results: make(chan *ws.LogResult, 8),
		errs:    make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

func (s *fakeSubscription) Recv(ctx context.Context) (*ws.LogResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-s.results:
		return r, nil
	case err := <-s.errs:
		return nil, err
	case <-s.closed:
		return nil, errors.New("subscription closed")
	}
}

func (s *fakeSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.closed) })
}

func logResult(t *testing.T, failed bool, lines ...string) *ws.LogResult {
	t.Helper()
	r := &ws.LogResult{}
	r.Value.Signature = solana.Signature{1, 2, 3}
	r.Value.Logs = lines
	if failed {
		r.Value.Err = map[string]any{"InstructionError": []any{0, "Custom"}}
	}
	return r
}

func newTestStream(dial dialFunc) *EventStream {
	s := newEventStream(dial, testDecimals, zerolog.Nop())
	s.retry = retrier.New(
		retrier.WithInitialInterval(time.Millisecond),
		retrier.WithMaxInterval(5*time.Millisecond),
		retrier.WithMaxRetries(-1),
	)
	return s
}

func receive(t *testing.T, ch <-chan domain.VaultEvent) domain.VaultEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return domain.VaultEvent{}
}

func TestEventStream_DeliversEvents(t *testing.T) {
	sub := newFakeSubscription()
	var closes atomic.Int32
	stream := newTestStream(func(context.Context) (logSubscription, func(), error) {
		return sub, func() { closes.Add(1) }, nil
	})

	ch, unsubscribe, err := stream.Subscribe(context.Background())
	require.NoError(t, err)

	// a failed transaction is ignored
	sub.results <- logResult(t, true, eventLog(t, eventCloseBatch, closeBatchEvent{BatchIndex: 9}))
	sub.results <- logResult(t, false, eventLog(t, eventCloseBatch, closeBatchEvent{BatchIndex: 3}))

	ev := receive(t, ch)
	assert.Equal(t, domain.VaultEventBatchClosed, ev.Kind)
	assert.Equal(t, uint64(3), ev.BatchIndex)
	assert.Equal(t, solana.Signature{1, 2, 3}.String(), ev.Signature)

	unsubscribe()
	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after unsubscribe")
	assert.Equal(t, int32(1), closes.Load())

	// idempotent
	unsubscribe()
}

func TestEventStream_InitialDialError(t *testing.T) {
	stream := newTestStream(func(context.Context) (logSubscription, func(), error) {
		return nil, nil, errors.New("connection refused")
	})

	ch, unsubscribe, err := stream.Subscribe(context.Background())
	require.Error(t, err)
	assert.Nil(t, ch)
	assert.Nil(t, unsubscribe)
}

func TestEventStream_ReconnectsAfterDrop(t *testing.T) {
	first := newFakeSubscription()
	second := newFakeSubscription()
	var dials atomic.Int32

	stream := newTestStream(func(context.Context) (logSubscription, func(), error) {
		switch dials.Add(1) {
		case 1:
			return first, func() {}, nil
		case 2:
			return nil, nil, errors.New("still down")
		default:
			return second, func() {}, nil
		}
	})

	ch, unsubscribe, err := stream.Subscribe(context.Background())
	require.NoError(t, err)
	defer unsubscribe()

	first.errs <- errors.New("websocket: close 1006")
	second.results <- logResult(t, false, eventLog(t, eventOpenNewBatch, openNewBatchEvent{BatchIndex: 5, SharePrice: 1_000_000_000}))

	ev := receive(t, ch)
	assert.Equal(t, domain.VaultEventBatchOpened, ev.Kind)
	assert.Equal(t, uint64(5), ev.BatchIndex)
	assert.Equal(t, int32(3), dials.Load())
}

func TestEventStream_StopsWithContext(t *testing.T) {
	sub := newFakeSubscription()
	stream := newTestStream(func(context.Context) (logSubscription, func(), error) {
		return sub, func() {}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	ch, unsubscribe, err := stream.Subscribe(ctx)
	require.NoError(t, err)
	defer unsubscribe()

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop")
	}
}
