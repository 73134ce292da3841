package ledger

import (
	"context"
)

// Store persists products and their checkpoint sets.
//
// Implementations must provide the atomicity the state machine depends on:
// CreateProduct allocates the next sequential ID and writes the product with
// its initial checkpoint in one step, and UpdateProduct runs apply against the
// current record and commits the mutation together with the new checkpoint or
// not at all. Two concurrent calls against the same product serialize.
//
// Checkpoints are insert-only. Writing a fingerprint that is already present
// must fail with CodeConflict and leave the record untouched, never overwrite.
type Store interface {
	// CreateProduct allocates the next product ID, passes it to build, and
	// stores the returned product and initial checkpoint atomically. The ID is
	// consumed only when the write succeeds.
	CreateProduct(ctx context.Context, build func(id ProductID) (Product, Checkpoint)) (ProductID, error)

	// UpdateProduct applies a mutation to an existing product and appends the
	// checkpoint apply returned. An error from apply aborts with no state
	// change. Returns CodeNotFound when the product does not exist.
	UpdateProduct(ctx context.Context, id ProductID, apply func(p *Product) (Checkpoint, error)) error

	// GetProduct returns a snapshot of the product.
	// Returns CodeNotFound when the product does not exist.
	GetProduct(ctx context.Context, id ProductID) (Product, error)

	// ListCheckpoints returns the product's checkpoints in append order.
	// Returns CodeNotFound when the product does not exist.
	ListCheckpoints(ctx context.Context, id ProductID) ([]Checkpoint, error)

	// GetCheckpoint returns one checkpoint by fingerprint.
	// Returns CodeNotFound when the product or checkpoint does not exist.
	GetCheckpoint(ctx context.Context, id ProductID, fp Fingerprint) (Checkpoint, error)
}
