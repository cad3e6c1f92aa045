package safe

import (
	"context"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Go starts fn in a goroutine that recovers and logs panics.
func Go(log zerolog.Logger, name string, fn func()) {
	go func() {
		defer recoverPanic(log, name)
		fn()
	}()
}

// GoCtx is Go for functions that take a context.
func GoCtx(ctx context.Context, log zerolog.Logger, name string, fn func(ctx context.Context)) {
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		defer recoverPanic(log, name)
		fn(ctx)
	}()
}

func recoverPanic(log zerolog.Logger, name string) {
	if r := recover(); r != nil {
		log.Error().
			Str("goroutine", name).
			Interface("panic", r).
			Str("stack", string(debug.Stack())).
			Msg("goroutine panic recovered")
	}
}
