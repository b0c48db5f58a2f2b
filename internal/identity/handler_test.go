package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodhub-app/foodhub-console/internal/shared"
)

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler(rr, req)
	return rr
}

func TestLoginHandlerValidatesPayload(t *testing.T) {
	h := NewHandler(NewStore(&mockAuthAPI{}, &mockCreds{}, nil), nil)

	rr := postJSON(t, h.Login, `{"email":"not-an-email","password":"123"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var body struct {
		Error  string              `json:"error"`
		Fields map[string][]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "validation_failure", body.Error)
	assert.Contains(t, body.Fields, "Email")
	assert.Contains(t, body.Fields, "Password")
}

func TestLoginHandlerRejectsMalformedJSON(t *testing.T) {
	h := NewHandler(NewStore(&mockAuthAPI{}, &mockCreds{}, nil), nil)

	rr := postJSON(t, h.Login, `{broken`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginHandlerReturnsSession(t *testing.T) {
	api := &mockAuthAPI{user: managerUser(), token: "tok-1"}
	h := NewHandler(NewStore(api, &mockCreds{}, nil), nil)

	rr := postJSON(t, h.Login, `{"email":"dana@foodhub.test","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, StateAuthenticated, body.State)
	require.NotNil(t, body.User)
	assert.Equal(t, "Dana", body.User.Name)
}

func TestLoginHandlerMapsInvalidCredentials(t *testing.T) {
	api := &mockAuthAPI{loginErr: shared.E(shared.KindInvalidCredentials, "invalid email or password")}
	h := NewHandler(NewStore(api, &mockCreds{}, nil), nil)

	rr := postJSON(t, h.Login, `{"email":"dana@foodhub.test","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshHandlerDegradesOnUpstreamFailure(t *testing.T) {
	api := &mockAuthAPI{user: managerUser(), token: "tok-1"}
	store := NewStore(api, &mockCreds{}, nil)
	h := NewHandler(store, nil)

	_, err := store.Login(httptest.NewRequest(http.MethodPost, "/", nil).Context(), "dana@foodhub.test", "secret1")
	require.NoError(t, err)

	api.meErr = shared.E(shared.KindServerError, "boom")
	rr := httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/api/session/refresh", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		State State `json:"state"`
		Stale bool  `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, StateAuthenticated, body.State)
	assert.True(t, body.Stale)
}

func TestRefreshHandlerRespondsUnauthorizedWhenRevoked(t *testing.T) {
	api := &mockAuthAPI{user: managerUser(), token: "tok-1"}
	store := NewStore(api, &mockCreds{}, nil)
	h := NewHandler(store, nil)

	_, err := store.Login(httptest.NewRequest(http.MethodPost, "/", nil).Context(), "dana@foodhub.test", "secret1")
	require.NoError(t, err)

	api.meErr = shared.E(shared.KindAuthorizationExpired, "token revoked")
	rr := httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/api/session/refresh", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestShowHandlerWhileLoggedOut(t *testing.T) {
	h := NewHandler(NewStore(&mockAuthAPI{}, &mockCreds{}, nil), nil)

	rr := httptest.NewRecorder()
	h.Show(rr, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, StateUnauthenticated, body.State)
	assert.Nil(t, body.User)
}
