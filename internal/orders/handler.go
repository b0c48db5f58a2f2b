package orders

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/foodhub-app/foodhub-console/internal/platform/httpx"
	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// Handler exposes the order workflow over the console's local HTTP surface.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers the order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Post("/{id}/cancel", h.Cancel)
	r.Post("/{id}/notes", h.AddNote)
}

type orderListResponse struct {
	Data []Order         `json:"data"`
	Meta shared.PageMeta `json:"meta"`
}

// List handles GET /api/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, meta, err := h.service.List(r.Context(), ListFilters{
		Status:   Status(q.Get("status")),
		Channel:  q.Get("channel"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
		Search:   q.Get("search"),
		Page:     shared.PageFromQuery(q),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderListResponse{Data: orders, Meta: meta})
}

// Show handles GET /api/orders/{id}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var payload struct {
		Status Status `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	order, err := h.service.UpdateStatus(r.Context(), id, payload.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{id}/cancel. The body is optional; a
// reason may be supplied for the audit trail.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	cancelled, err := h.service.Cancel(r.Context(), order, payload.Reason)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cancelled)
}

// AddNote handles POST /api/orders/{id}/notes.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var payload struct {
		Note string `json:"note"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	order, err := h.service.AddNote(r.Context(), id, payload.Note)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "invalid order ID"})
		return 0, false
	}
	return id, true
}
