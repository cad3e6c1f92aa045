package solana

import (
	"bytes"
	"encoding/base64"
	"testing"
	"time"

	"vault-dashboard/internal/core/domain"

	bin "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventLog(t *testing.T, name string, v any) string {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(bin.Sighash("event", name))
	require.NoError(t, bin.NewBorshEncoder(&buf).Encode(v))
	return programDataPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestParseEvents(t *testing.T) {
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	logs := []string{
		"Program BEgy2zPNRLFFmo3LdpQrW8qyYYjw6NhdF1RwUCLrPh7T invoke [1]",
		"Program log: Instruction: CloseBatch",
		eventLog(t, eventCloseBatch, closeBatchEvent{BatchIndex: 3, Timestamp: ts.Unix()}),
		"Program log: Instruction: OpenNewBatch",
		eventLog(t, eventOpenNewBatch, openNewBatchEvent{BatchIndex: 4, SharePrice: 1_300_000_000, Timestamp: ts.Unix()}),
		"Program BEgy2zPNRLFFmo3LdpQrW8qyYYjw6NhdF1RwUCLrPh7T success",
	}

	events := parseEvents(logs, "sig-1", testDecimals)
	require.Len(t, events, 2)

	assert.Equal(t, domain.VaultEventBatchClosed, events[0].Kind)
	assert.Equal(t, uint64(3), events[0].BatchIndex)
	assert.Nil(t, events[0].SharePrice)
	assert.Equal(t, ts, events[0].Timestamp)
	assert.Equal(t, "sig-1", events[0].Signature)

	assert.Equal(t, domain.VaultEventBatchOpened, events[1].Kind)
	assert.Equal(t, uint64(4), events[1].BatchIndex)
	require.NotNil(t, events[1].SharePrice)
	assert.True(t, decimal.RequireFromString("1.3").Equal(*events[1].SharePrice))
}

func TestParseEvents_SkipsForeignData(t *testing.T) {
	logs := []string{
		programDataPrefix + "not base64!!",
		programDataPrefix + base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
		eventLog(t, "DepositEvent", closeBatchEvent{BatchIndex: 1}),
		// truncated body
		programDataPrefix + base64.StdEncoding.EncodeToString(bin.Sighash("event", eventOpenNewBatch)),
	}

	assert.Empty(t, parseEvents(logs, "sig", testDecimals))
	assert.Empty(t, parseEvents(nil, "sig", testDecimals))
}
