// Package httpx provides JSON response helpers for the console's local
// HTTP surface, mapping the shared error taxonomy onto status codes.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// ErrorBody is the JSON shape of error responses.
type ErrorBody struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// RespondError maps taxonomy errors to HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *shared.Error
	if errors.As(err, &appErr) {
		status := statusForKind(appErr.Kind)
		JSON(w, status, ErrorBody{
			Error:   string(appErr.Kind),
			Message: appErr.Message,
			Fields:  appErr.Fields,
		})
		return
	}
	switch {
	case errors.Is(err, shared.ErrNotFound):
		JSON(w, http.StatusNotFound, ErrorBody{Error: "not_found"})
	case errors.Is(err, shared.ErrLoginInFlight):
		JSON(w, http.StatusConflict, ErrorBody{Error: "login_in_flight", Message: err.Error()})
	case errors.Is(err, shared.ErrNotAuthenticated):
		JSON(w, http.StatusUnauthorized, ErrorBody{Error: "not_authenticated"})
	default:
		JSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal"})
	}
}

func statusForKind(kind shared.Kind) int {
	switch kind {
	case shared.KindInvalidCredentials, shared.KindAuthorizationExpired:
		return http.StatusUnauthorized
	case shared.KindForbidden:
		return http.StatusForbidden
	case shared.KindValidationFailure:
		return http.StatusUnprocessableEntity
	case shared.KindNetworkFailure, shared.KindTransportError:
		return http.StatusServiceUnavailable
	case shared.KindServerError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
