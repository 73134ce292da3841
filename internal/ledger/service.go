package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"traceline/internal/ledger/metrics"
	"traceline/internal/registry"
	"traceline/pkg/domain"
	dErrors "traceline/pkg/domain-errors"
	"traceline/pkg/requestcontext"
)

// RoleChecker is the authorization primitive the state machine consults. The
// ledger only ever reads the registry, never mutates it.
type RoleChecker interface {
	HasRole(ctx context.Context, identity domain.Identity, role registry.Role) (bool, error)
}

// Notifier receives fire-and-forget notifications after a mutation commits,
// in the same order the mutations were applied.
type Notifier interface {
	ProductCreated(ctx context.Context, product Product)
	CheckpointVerified(ctx context.Context, checkpoint Checkpoint)
}

// Service is the checkpoint-verification state machine: role-gated
// authorization, strictly forward status progression, and the append-only
// checkpoint ledger per product.
type Service struct {
	store    Store
	roles    RoleChecker
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(store Store, roles RoleChecker, notifier Notifier, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		roles:    roles,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// CreateProduct registers a new product and returns its sequential ID.
//
// The caller must hold the Manufacturer role. Name content is not validated:
// empty and duplicate names are permitted. The product starts at
// StatusCreated with a synthesized initial checkpoint, and IDs are consumed
// only by successful creations.
//
// Errors: CodeUnauthorized when the caller lacks the Manufacturer role.
func (s *Service) CreateProduct(ctx context.Context, name string) (ProductID, error) {
	caller := requestcontext.CallerID(ctx)
	if caller.IsZero() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "no caller identity established")
	}

	held, err := s.roles.HasRole(ctx, caller, registry.RoleManufacturer)
	if err != nil {
		return 0, fmt.Errorf("check manufacturer role: %w", err)
	}
	if !held {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "caller does not hold the manufacturer role")
	}

	now := requestcontext.Now(ctx)
	var created Product
	id, err := s.store.CreateProduct(ctx, func(id ProductID) (Product, Checkpoint) {
		created = Product{
			ID:           id,
			Name:         name,
			Manufacturer: caller,
			Status:       StatusCreated,
			CreatedAt:    now,
		}
		label := CreationLabel(id, now)
		return created, Checkpoint{
			Fingerprint: ComputeFingerprint(label, id, caller, now),
			ProductID:   id,
			Label:       label,
			Verifier:    caller,
			Status:      StatusCreated,
			RecordedAt:  now,
		}
	})
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}

	s.metrics.IncrementProductsCreated()
	s.notifier.ProductCreated(ctx, created)
	s.logger.InfoContext(ctx, "product created",
		"product_id", uint64(id),
		"manufacturer", caller.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return id, nil
}

// VerifyCheckpoint advances a product to target and appends an immutable
// checkpoint fingerprinted from (label, product id, caller, timestamp).
//
// The role gate dispatches on target alone: manufacturer-class targets need
// the Manufacturer role, distributor-class targets need the Distributor role
// and record the caller as the product's distributor, retailer-class targets
// likewise for Retailer. Targets outside the verifiable set, StatusCreated
// included, are always rejected. After authorization the target ordinal must
// strictly exceed the current one.
//
// Errors: CodeNotFound when the product does not exist; CodeUnauthorized when
// the caller lacks the required role; CodeInvalidProgression when the target
// does not move the status forward; CodeConflict on an exact fingerprint
// collision (practically unreachable).
func (s *Service) VerifyCheckpoint(ctx context.Context, id ProductID, label string, target Status) error {
	start := time.Now()

	err := s.verifyCheckpoint(ctx, id, label, target)
	if err != nil {
		s.metrics.IncrementRejected(string(dErrors.CodeOf(err)))
		return err
	}

	s.metrics.ObserveVerified(target.String(), time.Since(start))
	return nil
}

func (s *Service) verifyCheckpoint(ctx context.Context, id ProductID, label string, target Status) error {
	caller := requestcontext.CallerID(ctx)
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "no caller identity established")
	}

	if _, err := s.store.GetProduct(ctx, id); err != nil {
		return err
	}

	role, verifiable := RequiredRole(target)
	if !verifiable {
		return dErrors.New(dErrors.CodeInvalidProgression, target.String()+" is not a verifiable target status")
	}
	held, err := s.roles.HasRole(ctx, caller, role)
	if err != nil {
		return fmt.Errorf("check %s role: %w", role, err)
	}
	if !held {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold the "+role.String()+" role")
	}

	now := requestcontext.Now(ctx)
	var recorded Checkpoint
	err = s.store.UpdateProduct(ctx, id, func(p *Product) (Checkpoint, error) {
		if target <= p.Status {
			return Checkpoint{}, dErrors.New(dErrors.CodeInvalidProgression,
				fmt.Sprintf("target %s does not advance current status %s", target, p.Status))
		}

		switch role {
		case registry.RoleDistributor:
			p.Distributor = caller
		case registry.RoleRetailer:
			p.Retailer = caller
		}
		p.Status = target

		recorded = Checkpoint{
			Fingerprint: ComputeFingerprint(label, id, caller, now),
			ProductID:   id,
			Label:       label,
			Verifier:    caller,
			Status:      target,
			RecordedAt:  now,
		}
		return recorded, nil
	})
	if err != nil {
		return err
	}

	s.notifier.CheckpointVerified(ctx, recorded)
	s.logger.InfoContext(ctx, "checkpoint verified",
		"product_id", uint64(id),
		"fingerprint", recorded.Fingerprint.String(),
		"status", target.String(),
		"verifier", caller.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// GetProductInfo returns a snapshot of the product record. Read access is
// public: no caller identity or role is required.
//
// Errors: CodeNotFound when the product does not exist.
func (s *Service) GetProductInfo(ctx context.Context, id ProductID) (Product, error) {
	return s.store.GetProduct(ctx, id)
}

// ListCheckpoints returns the product's full checkpoint history in append
// order. Public read.
func (s *Service) ListCheckpoints(ctx context.Context, id ProductID) ([]Checkpoint, error) {
	return s.store.ListCheckpoints(ctx, id)
}

// GetCheckpoint returns one checkpoint by fingerprint. Public read.
func (s *Service) GetCheckpoint(ctx context.Context, id ProductID, fp Fingerprint) (Checkpoint, error) {
	return s.store.GetCheckpoint(ctx, id, fp)
}
