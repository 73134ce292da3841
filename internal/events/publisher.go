package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"traceline/internal/ledger"
	"traceline/pkg/requestcontext"
)

// Sink delivers one serialized event. Implementations must preserve the order
// Publish is called in.
type Sink interface {
	Publish(ctx context.Context, payload []byte) error
}

// Publisher serializes ledger notifications and hands them to a sink. It
// implements ledger.Notifier.
type Publisher struct {
	sink   Sink
	logger *slog.Logger
}

func NewPublisher(sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{sink: sink, logger: logger}
}

// ProductCreated emits a product_created notification.
func (p *Publisher) ProductCreated(ctx context.Context, product ledger.Product) {
	p.emit(ctx, ProductCreated{
		Type:         TypeProductCreated,
		ProductID:    product.ID,
		Name:         product.Name,
		Manufacturer: product.Manufacturer,
		Timestamp:    product.CreatedAt,
	})
}

// CheckpointVerified emits a checkpoint_verified notification.
func (p *Publisher) CheckpointVerified(ctx context.Context, checkpoint ledger.Checkpoint) {
	p.emit(ctx, CheckpointVerified{
		Type:        TypeCheckpointVerified,
		ProductID:   checkpoint.ProductID,
		Fingerprint: checkpoint.Fingerprint,
		Verifier:    checkpoint.Verifier,
		NewStatus:   checkpoint.Status,
		Timestamp:   checkpoint.RecordedAt,
	})
}

func (p *Publisher) emit(ctx context.Context, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal event", "error", err)
		return
	}
	if err := p.sink.Publish(ctx, payload); err != nil {
		p.logger.WarnContext(ctx, "publish event failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
