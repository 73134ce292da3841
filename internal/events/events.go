// Package events publishes ledger notifications for external observers:
// indexers, dashboards, downstream triggers. Notifications are fire-and-forget
// and emitted in operation order; a failing sink is logged and never fails the
// operation that produced the event.
package events

import (
	"time"

	"traceline/internal/ledger"
	"traceline/pkg/domain"
)

// Event types.
const (
	TypeProductCreated     = "product_created"
	TypeCheckpointVerified = "checkpoint_verified"
)

// ProductCreated announces a new product on the ledger.
type ProductCreated struct {
	Type         string           `json:"type"`
	ProductID    ledger.ProductID `json:"product_id"`
	Name         string           `json:"name"`
	Manufacturer domain.Identity  `json:"manufacturer"`
	Timestamp    time.Time        `json:"timestamp"`
}

// CheckpointVerified announces a verified status transition.
type CheckpointVerified struct {
	Type        string             `json:"type"`
	ProductID   ledger.ProductID   `json:"product_id"`
	Fingerprint ledger.Fingerprint `json:"fingerprint"`
	Verifier    domain.Identity    `json:"verifier"`
	NewStatus   ledger.Status      `json:"new_status"`
	Timestamp   time.Time          `json:"timestamp"`
}
