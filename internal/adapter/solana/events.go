package solana

import (
	"bytes"
	"encoding/base64"
	"strings"
	"time"

	"vault-dashboard/internal/core/domain"

	bin "github.com/gagliardetto/binary"
)

// Anchor emits events as "Program data: <base64>" log lines prefixed
// with sha256("event:<Name>")[:8].
const (
	programDataPrefix = "Program data: "

	eventOpenNewBatch = "OpenNewBatchEvent"
	eventCloseBatch   = "CloseBatchEvent"
)

var (
	openNewBatchDiscriminator = bin.Sighash("event", eventOpenNewBatch)
	closeBatchDiscriminator   = bin.Sighash("event", eventCloseBatch)
)

type openNewBatchEvent struct {
	BatchIndex uint64
	SharePrice uint64
	Timestamp  int64
}

type closeBatchEvent struct {
	BatchIndex uint64
	Timestamp  int64
}

// parseEvents extracts batch events from the logs of one transaction.
// Lines that are not vault events are skipped.
func parseEvents(logs []string, signature string, decimals uint8) []domain.VaultEvent {
	var events []domain.VaultEvent
	for _, line := range logs {
		if !strings.HasPrefix(line, programDataPrefix) {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(line, programDataPrefix))
		if err != nil || len(data) < 8 {
			continue
		}
		disc, body := data[:8], data[8:]

		switch {
		case bytes.Equal(disc, openNewBatchDiscriminator):
			var ev openNewBatchEvent
			if err := bin.NewBorshDecoder(body).Decode(&ev); err != nil {
				continue
			}
			price := domain.FromBaseUnits(ev.SharePrice, decimals)
			events = append(events, domain.VaultEvent{
				Kind:       domain.VaultEventBatchOpened,
				BatchIndex: ev.BatchIndex,
				SharePrice: &price,
				Timestamp:  time.Unix(ev.Timestamp, 0).UTC(),
				Signature:  signature,
			})
		case bytes.Equal(disc, closeBatchDiscriminator):
			var ev closeBatchEvent
			if err := bin.NewBorshDecoder(body).Decode(&ev); err != nil {
				continue
			}
			events = append(events, domain.VaultEvent{
				Kind:       domain.VaultEventBatchClosed,
				BatchIndex: ev.BatchIndex,
				Timestamp:  time.Unix(ev.Timestamp, 0).UTC(),
				Signature:  signature,
			})
		}
	}
	return events
}
