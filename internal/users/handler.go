package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodhub-app/foodhub-console/internal/identity"
	"github.com/foodhub-app/foodhub-console/internal/platform/httpx"
	"github.com/foodhub-app/foodhub-console/internal/roles"
	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// Handler exposes user management over the console's local HTTP surface.
type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:  service,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers the user management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/password", h.ChangePassword)
}

type userListResponse struct {
	Data []identity.User `json:"data"`
	Meta shared.PageMeta `json:"meta"`
}

// List handles GET /api/users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	restaurantID, _ := strconv.ParseInt(q.Get("restaurant_id"), 10, 64)
	users, meta, err := h.service.List(r.Context(), ListFilters{
		RestaurantID: restaurantID,
		Role:         roles.Role(q.Get("role")),
		Status:       identity.Status(q.Get("status")),
		Search:       q.Get("search"),
		Page:         shared.PageFromQuery(q),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, userListResponse{Data: users, Meta: meta})
}

// Show handles GET /api/users/{id}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// Create handles POST /api/users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, httpx.ErrorBody{
			Error:  "validation_failure",
			Fields: validationFields(err),
		})
		return
	}
	user, err := h.service.Create(r.Context(), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

// Update handles PUT /api/users/{id}. The target record is fetched first
// so the hierarchy check runs against its current role.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	target, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Update(r.Context(), target, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	target, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), target); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type passwordPayload struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ChangePassword handles POST /api/users/{id}/password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	var payload passwordPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, httpx.ErrorBody{
			Error:  "validation_failure",
			Fields: validationFields(err),
		})
		return
	}
	target, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.ChangePassword(r.Context(), target, payload.Password); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"changed": true})
}

func validationFields(err error) map[string][]string {
	fields := map[string][]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			name := fe.Field()
			fields[name] = append(fields[name], "failed "+fe.Tag()+" validation")
		}
	}
	return fields
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "invalid user ID"})
		return 0, false
	}
	return id, true
}
