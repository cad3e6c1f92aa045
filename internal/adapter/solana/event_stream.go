package solana

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/pkg/retrier"
	"vault-dashboard/pkg/safe"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/rs/zerolog"
)

const eventBuffer = 16

type logSubscription interface {
	Recv(ctx context.Context) (*ws.LogResult, error)
	Unsubscribe()
}

// dialFunc opens a logs subscription and returns it with the func closing its connection.
type dialFunc func(ctx context.Context) (logSubscription, func(), error)

// EventStream implements ports.EventStream with a websocket logs
// subscription on the vault program. Dropped connections are re-dialed
// with backoff.
type EventStream struct {
	dial     dialFunc
	decimals uint8
	retry    *retrier.Retrier
	log      zerolog.Logger
}

func NewEventStream(wsURL string, programID solana.PublicKey, commitment rpc.CommitmentType, mintDecimals uint8, log zerolog.Logger) *EventStream {
	dial := func(ctx context.Context) (logSubscription, func(), error) {
		conn, err := ws.Connect(ctx, wsURL)
		if err != nil {
			return nil, nil, fmt.Errorf("ws connect: %w", err)
		}
		sub, err := conn.LogsSubscribeMentions(programID, commitment)
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("logs subscribe: %w", err)
		}
		return sub, conn.Close, nil
	}
	return newEventStream(dial, mintDecimals, log)
}

func newEventStream(dial dialFunc, decimals uint8, log zerolog.Logger) *EventStream {
	s := &EventStream{dial: dial, decimals: decimals, log: log}
	s.retry = retrier.New(
		retrier.WithInitialInterval(time.Second),
		retrier.WithMaxInterval(time.Minute),
		retrier.WithMaxRetries(-1),
		retrier.WithOnRetry(func(attempt int, err error, wait time.Duration) {
			s.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("event stream reconnecting")
		}),
	)
	return s
}

// Subscribe dials once synchronously so a bad endpoint is reported to the
// caller. Later disconnects are retried until ctx is done or the returned
// unsubscribe func is called. The channel is closed when the stream stops.
func (s *EventStream) Subscribe(ctx context.Context) (<-chan domain.VaultEvent, func(), error) {
	sub, closeConn, err := s.dial(ctx)
	if err != nil {
		return nil, nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	out := make(chan domain.VaultEvent, eventBuffer)
	done := make(chan struct{})

	safe.GoCtx(streamCtx, s.log, "event-stream", func(ctx context.Context) {
		defer close(done)
		defer close(out)
		s.run(ctx, sub, closeConn, out)
	})

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	return out, unsubscribe, nil
}

func (s *EventStream) run(ctx context.Context, sub logSubscription, closeConn func(), out chan<- domain.VaultEvent) {
	defer func() {
		sub.Unsubscribe()
		closeConn()
	}()

	for {
		res, err := sub.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn().Err(err).Msg("event stream dropped")
			sub.Unsubscribe()
			closeConn()

			conn, err := retrier.DoWithData(s.retry, ctx, func(ctx context.Context) (wsConn, error) {
				sub, closeConn, err := s.dial(ctx)
				return wsConn{sub: sub, close: closeConn}, err
			})
			if err != nil {
				// ctx done; nothing left to release
				sub, closeConn = noopSubscription{}, func() {}
				return
			}
			sub, closeConn = conn.sub, conn.close
			s.log.Info().Msg("event stream reconnected")
			continue
		}

		// failed transactions emit no state change
		if res == nil || res.Value.Err != nil {
			continue
		}
		for _, ev := range parseEvents(res.Value.Logs, res.Value.Signature.String(), s.decimals) {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// wsConn is one dialed subscription and the func that closes its socket.
type wsConn struct {
	sub   logSubscription
	close func()
}

type noopSubscription struct{}

func (noopSubscription) Recv(ctx context.Context) (*ws.LogResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (noopSubscription) Unsubscribe() {}
