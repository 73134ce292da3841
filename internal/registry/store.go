package registry

import (
	"context"

	"traceline/pkg/domain"
)

// Store persists the (identity, role) grant relation.
//
// Stores are interface-driven so the in-memory implementation serves tests and
// single-node deployments while Redis backs shared deployments without
// rewiring business code. Implementations must be safe for concurrent use and
// must never delete a grant.
type Store interface {
	// Grant marks identity as holding role. Idempotent.
	Grant(ctx context.Context, identity domain.Identity, role Role) error

	// Has reports whether identity holds role. Pure read.
	Has(ctx context.Context, identity domain.Identity, role Role) (bool, error)
}
