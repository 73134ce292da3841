package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"traceline/internal/ledger"
	dErrors "traceline/pkg/domain-errors"
	"traceline/pkg/requestcontext"
)

// LedgerService defines the product ledger operations the transport needs.
type LedgerService interface {
	CreateProduct(ctx context.Context, name string) (ledger.ProductID, error)
	VerifyCheckpoint(ctx context.Context, id ledger.ProductID, label string, target ledger.Status) error
	GetProductInfo(ctx context.Context, id ledger.ProductID) (ledger.Product, error)
	ListCheckpoints(ctx context.Context, id ledger.ProductID) ([]ledger.Checkpoint, error)
	GetCheckpoint(ctx context.Context, id ledger.ProductID, fp ledger.Fingerprint) (ledger.Checkpoint, error)
}

type createProductRequest struct {
	Name string `json:"name"`
}

type createProductResponse struct {
	ProductID ledger.ProductID `json:"product_id"`
}

type verifyCheckpointRequest struct {
	Label        string `json:"label"`
	TargetStatus string `json:"target_status"`
}

type verifyCheckpointResponse struct {
	ProductID ledger.ProductID `json:"product_id"`
	Status    string           `json:"status"`
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid create product request",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := h.ledger.CreateProduct(ctx, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, createProductResponse{ProductID: id})
}

func (h *Handler) handleVerifyCheckpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ledger.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		WriteError(w, err)
		return
	}

	var req verifyCheckpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid verify checkpoint request",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	target, err := ledger.ParseStatus(req.TargetStatus)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.ledger.VerifyCheckpoint(ctx, id, req.Label, target); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, verifyCheckpointResponse{
		ProductID: id,
		Status:    target.String(),
	})
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := ledger.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := h.ledger.GetProductInfo(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleListCheckpoints(w http.ResponseWriter, r *http.Request) {
	id, err := ledger.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		WriteError(w, err)
		return
	}

	checkpoints, err := h.ledger.ListCheckpoints(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, checkpoints)
}

func (h *Handler) handleGetCheckpoint(w http.ResponseWriter, r *http.Request) {
	id, err := ledger.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		WriteError(w, err)
		return
	}
	fp, err := ledger.ParseFingerprint(chi.URLParam(r, "fingerprint"))
	if err != nil {
		WriteError(w, err)
		return
	}

	checkpoint, err := h.ledger.GetCheckpoint(r.Context(), id, fp)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, checkpoint)
}
