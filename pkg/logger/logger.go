package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "vault-dashboard"

// New builds the process logger. Unknown levels fall back to info; pretty
// switches to console output for local runs.
func New(level string, pretty bool) zerolog.Logger {
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return build(level, out).With().Caller().Str("service", serviceName).Logger()
}

// NewWithWriter is New without caller or service fields, for tests.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return build(level, w)
}

func build(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel accepts zerolog level names in any case.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component tags log with the subsystem that owns it, e.g. "scheduler".
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// Vault scopes log to a vault and, when known, a wallet.
func Vault(log zerolog.Logger, vaultName, wallet string) zerolog.Logger {
	ctx := log.With().Str("vault", vaultName)
	if wallet != "" {
		ctx = ctx.Str("wallet", wallet)
	}
	return ctx.Logger()
}
