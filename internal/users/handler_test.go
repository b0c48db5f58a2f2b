package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerRouter(t *testing.T, actor ActorSource) (http.Handler, *atomic.Int64) {
	t.Helper()
	svc, requests := newService(t, actor)
	r := chi.NewRouter()
	r.Route("/users", NewHandler(svc, nil).MountRoutes)
	return r, requests
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rr, req)
	return rr
}

func decodeErrorBody(t *testing.T, rr *httptest.ResponseRecorder) (string, map[string][]string) {
	t.Helper()
	var body struct {
		Error  string              `json:"error"`
		Fields map[string][]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error, body.Fields
}

func TestCreateEndpointRejectsInvalidInput(t *testing.T) {
	router, requests := newHandlerRouter(t, staticActor{user: manager(), ok: true})

	rr := postJSON(t, router, "/users", `{"name":"","email":"not-an-email","password":"short","role":"cashier"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	kind, fields := decodeErrorBody(t, rr)
	assert.Equal(t, "validation_failure", kind)
	assert.Contains(t, fields, "Name")
	assert.Contains(t, fields, "Email")
	assert.Contains(t, fields, "Password")
	assert.Equal(t, int64(0), requests.Load(), "invalid input must not reach the upstream")
}

func TestCreateEndpointForbiddenRoleIssuesNoRequest(t *testing.T) {
	router, requests := newHandlerRouter(t, staticActor{user: cashier(), ok: true})

	rr := postJSON(t, router, "/users", `{"name":"Eve","email":"eve@example.com","password":"longenough","role":"restaurant-manager","restaurant_id":7}`)

	require.Equal(t, http.StatusForbidden, rr.Code)
	kind, _ := decodeErrorBody(t, rr)
	assert.Equal(t, "forbidden", kind)
	assert.Equal(t, int64(0), requests.Load())
}

func TestCreateEndpointSuccess(t *testing.T) {
	router, requests := newHandlerRouter(t, staticActor{user: manager(), ok: true})

	rr := postJSON(t, router, "/users", `{"name":"Budi","email":"budi@example.com","password":"longenough","role":"cashier","restaurant_id":7}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, int64(1), requests.Load())
}

func TestCreateEndpointMalformedBody(t *testing.T) {
	router, requests := newHandlerRouter(t, staticActor{user: manager(), ok: true})

	rr := postJSON(t, router, "/users", `{"name":`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, int64(0), requests.Load())
}

func TestChangePasswordEndpointValidatesLength(t *testing.T) {
	router, requests := newHandlerRouter(t, staticActor{user: manager(), ok: true})

	rr := postJSON(t, router, "/users/20/password", `{"password":"short"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	_, fields := decodeErrorBody(t, rr)
	assert.Contains(t, fields, "Password")
	assert.Equal(t, int64(0), requests.Load(), "the target must not be fetched before the payload passes validation")
}

func TestMutationEndpointsRequireSession(t *testing.T) {
	router, requests := newHandlerRouter(t, staticActor{})

	rr := postJSON(t, router, "/users", `{"name":"Eve","email":"eve@example.com","password":"longenough","role":"cashier","restaurant_id":7}`)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, int64(0), requests.Load())
}
