package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foodhub-app/foodhub-console/internal/platform/httpx"
)

// Handler exposes the dashboard summary endpoint.
type Handler struct {
	service *Service
}

// NewHandler builds a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers the dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stats", h.Stats)
}

// Stats handles GET /api/dashboard/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
