package registry

import (
	"context"
	"fmt"
	"log/slog"

	"traceline/pkg/domain"
	dErrors "traceline/pkg/domain-errors"
	"traceline/pkg/requestcontext"
)

// Service exposes role issuance and role checks. Issuance is itself a gated
// capability: only identities configured as admins at bootstrap may grant
// roles. An open grant operation would let any caller mint the role a
// transition requires and defeat the checkpoint authorization entirely.
type Service struct {
	store  Store
	admins map[domain.Identity]bool
	logger *slog.Logger
}

func NewService(store Store, adminIdentities []string, logger *slog.Logger) *Service {
	admins := make(map[domain.Identity]bool, len(adminIdentities))
	for _, a := range adminIdentities {
		admins[domain.Identity(a)] = true
	}
	return &Service{store: store, admins: admins, logger: logger}
}

// GrantRole marks identity as holding role. The grant is permanent and
// idempotent; there is no revoke.
//
// Errors: CodeUnauthorized when the caller is not a configured admin;
// CodeBadRequest when the role is outside the closed enumeration.
func (s *Service) GrantRole(ctx context.Context, identity domain.Identity, role Role) error {
	caller := requestcontext.CallerID(ctx)
	if caller.IsZero() || !s.admins[caller] {
		return dErrors.New(dErrors.CodeUnauthorized, "caller may not grant roles")
	}
	if !role.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "invalid role: "+role.String())
	}
	if identity.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "identity cannot be empty")
	}

	if err := s.store.Grant(ctx, identity, role); err != nil {
		return fmt.Errorf("grant %s to %s: %w", role, identity, err)
	}

	s.logger.InfoContext(ctx, "role granted",
		"identity", identity.String(),
		"role", role.String(),
		"granted_by", caller.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// HasRole reports whether identity holds role. Never mutates.
func (s *Service) HasRole(ctx context.Context, identity domain.Identity, role Role) (bool, error) {
	return s.store.Has(ctx, identity, role)
}
