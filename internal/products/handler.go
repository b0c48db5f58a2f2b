package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/foodhub-app/foodhub-console/internal/platform/httpx"
	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// Handler exposes the product catalog over the console's local HTTP
// surface.
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

// MountRoutes registers the catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type productListResponse struct {
	Data []Product       `json:"data"`
	Meta shared.PageMeta `json:"meta"`
}

// List handles GET /api/products.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoryID, _ := strconv.ParseInt(q.Get("category_id"), 10, 64)
	items, meta, err := h.service.List(r.Context(), ListFilters{
		CategoryID: categoryID,
		Status:     q.Get("status"),
		Search:     q.Get("search"),
		Page:       shared.PageFromQuery(q),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, productListResponse{Data: items, Meta: meta})
}

// Show handles GET /api/products/{id}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// Create handles POST /api/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var product Product
	if err := httpx.DecodeJSON(r, &product); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	created, err := h.service.Create(r.Context(), product)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/products/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var product Product
	if err := httpx.DecodeJSON(r, &product); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	updated, err := h.service.Update(r.Context(), id, product)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/products/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "invalid product ID"})
		return 0, false
	}
	return id, true
}
