package identity

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/foodhub-app/foodhub-console/internal/platform/httpx"
)

// Handler exposes the session over the console's local HTTP surface.
type Handler struct {
	store    *Store
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    store,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type sessionResponse struct {
	State State `json:"state"`
	User  *User `json:"user,omitempty"`
}

func (h *Handler) session() sessionResponse {
	res := sessionResponse{State: h.store.State()}
	if user, ok := h.store.Current(); ok {
		res.User = &user
	}
	return res
}

// Login handles POST /api/session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		fields := map[string][]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				name := fe.Field()
				fields[name] = append(fields[name], "failed "+fe.Tag()+" validation")
			}
		}
		httpx.JSON(w, http.StatusUnprocessableEntity, httpx.ErrorBody{Error: "validation_failure", Fields: fields})
		return
	}

	if _, err := h.store.Login(r.Context(), payload.Email, payload.Password); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.session())
}

// Logout handles DELETE /api/session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Logout(r.Context()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.session())
}

// Show handles GET /api/session.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.session())
}

// Refresh handles POST /api/session/refresh. Non-authorization upstream
// failures keep the cached identity and report 200 with a stale marker so
// the UI stays usable on cached data.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.Refresh(r.Context())
	if err != nil {
		if h.store.State() == StateAuthenticated {
			h.logger.Warn("session refresh degraded", slog.Any("error", err))
			httpx.JSON(w, http.StatusOK, struct {
				sessionResponse
				Stale bool `json:"stale"`
			}{sessionResponse{State: StateAuthenticated, User: &user}, true})
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.session())
}

// UpdateProfile handles PUT /api/session/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd ProfileUpdate
	if err := httpx.DecodeJSON(r, &upd); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: "bad_request", Message: "malformed JSON body"})
		return
	}
	user, err := h.store.UpdateProfile(r.Context(), upd)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
