package safe

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestGo_RecoversPanic(t *testing.T) {
	out := &syncBuffer{}
	log := zerolog.New(out)

	done := make(chan struct{})
	Go(log, "refresh:vault", func() {
		defer close(done)
		panic("boom")
	})

	<-done
	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("goroutine panic recovered"))
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), `"goroutine":"refresh:vault"`)
	assert.Contains(t, out.String(), `"panic":"boom"`)
}

func TestGoCtx_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	got := make(chan any, 1)
	GoCtx(ctx, zerolog.Nop(), "worker", func(ctx context.Context) {
		got <- ctx.Value(key{})
	})

	select {
	case v := <-got:
		assert.Equal(t, "v", v)
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}

func TestGoCtx_NilContext(t *testing.T) {
	got := make(chan bool, 1)
	//nolint:staticcheck // nil context is tolerated
	GoCtx(nil, zerolog.Nop(), "worker", func(ctx context.Context) {
		got <- ctx != nil
	})

	select {
	case ok := <-got:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}
