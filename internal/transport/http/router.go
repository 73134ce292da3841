package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"traceline/internal/platform/metrics"
	"traceline/internal/platform/middleware"
	"traceline/pkg/platform/middleware/requesttime"
)

// Handler bundles the services the HTTP surface exposes.
type Handler struct {
	logger   *slog.Logger
	registry RegistryService
	ledger   LedgerService
}

func NewHandler(registry RegistryService, ledger LedgerService, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		registry: registry,
		ledger:   ledger,
	}
}

// NewRouter wires all endpoints. Reads are public; mutations require an
// authenticated caller identity.
func NewRouter(h *Handler, validator middleware.JWTValidator, m *metrics.Metrics, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Latency(m))
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public ledger reads.
	r.Get("/products/{productID}", h.handleGetProduct)
	r.Get("/products/{productID}/checkpoints", h.handleListCheckpoints)
	r.Get("/products/{productID}/checkpoints/{fingerprint}", h.handleGetCheckpoint)
	r.Get("/roles/check", h.handleCheckRole)

	// Authenticated mutations.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(validator, h.logger))
		r.Post("/roles/grant", h.handleGrantRole)
		r.Post("/products", h.handleCreateProduct)
		r.Post("/products/{productID}/checkpoints", h.handleVerifyCheckpoint)
	})

	return r
}
