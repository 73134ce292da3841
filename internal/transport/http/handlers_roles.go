package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"traceline/internal/registry"
	"traceline/pkg/domain"
	dErrors "traceline/pkg/domain-errors"
	"traceline/pkg/requestcontext"
)

// RegistryService defines the role operations the transport needs.
type RegistryService interface {
	GrantRole(ctx context.Context, identity domain.Identity, role registry.Role) error
	HasRole(ctx context.Context, identity domain.Identity, role registry.Role) (bool, error)
}

type grantRoleRequest struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`
}

type grantRoleResponse struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`
	Granted  bool   `json:"granted"`
}

// handleGrantRole grants a role to an identity. The service enforces the
// admin capability.
func (h *Handler) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req grantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid grant role request",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	identity, err := domain.ParseIdentity(req.Identity)
	if err != nil {
		WriteError(w, err)
		return
	}
	role, err := registry.ParseRole(req.Role)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.registry.GrantRole(ctx, identity, role); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, grantRoleResponse{
		Identity: identity.String(),
		Role:     role.String(),
		Granted:  true,
	})
}

// handleCheckRole reports whether an identity holds a role. Public read.
func (h *Handler) handleCheckRole(w http.ResponseWriter, r *http.Request) {
	identity, err := domain.ParseIdentity(r.URL.Query().Get("identity"))
	if err != nil {
		WriteError(w, err)
		return
	}
	role, err := registry.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		WriteError(w, err)
		return
	}

	held, err := h.registry.HasRole(r.Context(), identity, role)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, grantRoleResponse{
		Identity: identity.String(),
		Role:     role.String(),
		Granted:  held,
	})
}
