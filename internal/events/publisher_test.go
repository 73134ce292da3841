package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traceline/internal/ledger"
)

type failingSink struct{}

func (failingSink) Publish(context.Context, []byte) error {
	return errors.New("broker down")
}

func TestPublisherProductCreated(t *testing.T) {
	sink := NewMemorySink()
	p := NewPublisher(sink, slog.New(slog.DiscardHandler))

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.ProductCreated(context.Background(), ledger.Product{
		ID:           4,
		Name:         "Widget",
		Manufacturer: "factory-7",
		Status:       ledger.StatusCreated,
		CreatedAt:    created,
	})

	payloads := sink.Payloads()
	require.Len(t, payloads, 1)

	var event ProductCreated
	require.NoError(t, json.Unmarshal(payloads[0], &event))
	assert.Equal(t, TypeProductCreated, event.Type)
	assert.Equal(t, ledger.ProductID(4), event.ProductID)
	assert.Equal(t, "Widget", event.Name)
	assert.True(t, event.Timestamp.Equal(created))
}

func TestPublisherCheckpointVerified(t *testing.T) {
	sink := NewMemorySink()
	p := NewPublisher(sink, slog.New(slog.DiscardHandler))

	recorded := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fp := ledger.ComputeFingerprint("mfg-done", 4, "factory-7", recorded)
	p.CheckpointVerified(context.Background(), ledger.Checkpoint{
		Fingerprint: fp,
		ProductID:   4,
		Label:       "mfg-done",
		Verifier:    "factory-7",
		Status:      ledger.StatusManufacturingComplete,
		RecordedAt:  recorded,
	})

	payloads := sink.Payloads()
	require.Len(t, payloads, 1)

	var event CheckpointVerified
	require.NoError(t, json.Unmarshal(payloads[0], &event))
	assert.Equal(t, TypeCheckpointVerified, event.Type)
	assert.Equal(t, fp, event.Fingerprint)
	assert.Equal(t, ledger.StatusManufacturingComplete, event.NewStatus)
}

func TestPublisherSinkFailureIsSwallowed(t *testing.T) {
	p := NewPublisher(failingSink{}, slog.New(slog.DiscardHandler))

	// Notifications are fire-and-forget: a dead sink must not panic or block.
	p.ProductCreated(context.Background(), ledger.Product{ID: 1})
	p.CheckpointVerified(context.Background(), ledger.Checkpoint{ProductID: 1})
}
