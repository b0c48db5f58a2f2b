package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodhub-app/foodhub-console/internal/identity"
	"github.com/foodhub-app/foodhub-console/internal/platform/api"
	"github.com/foodhub-app/foodhub-console/internal/roles"
	"github.com/foodhub-app/foodhub-console/internal/shared"
)

type staticActor struct {
	user identity.User
	ok   bool
}

func (a staticActor) Current() (identity.User, bool) { return a.user, a.ok }

func newService(t *testing.T, actor ActorSource) (*Service, *atomic.Int64) {
	t.Helper()
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{"data":{"id":99,"name":"Created","role":"cashier","status":"active"},"success":true}`))
	}))
	t.Cleanup(srv.Close)
	client := api.New(api.Config{BaseURL: srv.URL}, nil, nil)
	return NewService(client, actor), &requests
}

func manager() identity.User {
	return identity.User{ID: 10, Name: "Dana", Role: roles.RestaurantManager, RestaurantID: 7}
}

func cashier() identity.User {
	return identity.User{ID: 20, Name: "Budi", Role: roles.Cashier, RestaurantID: 7}
}

func TestCreateAllowedRole(t *testing.T) {
	svc, requests := newService(t, staticActor{user: manager(), ok: true})

	created, err := svc.Create(context.Background(), CreateInput{
		Name:         "Budi",
		Email:        "budi@foodhub.test",
		Password:     "supersecret",
		Role:         roles.Cashier,
		RestaurantID: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)
	assert.Equal(t, int64(1), requests.Load())
}

func TestCreateForbiddenRoleIssuesNoRequest(t *testing.T) {
	svc, requests := newService(t, staticActor{user: manager(), ok: true})

	_, err := svc.Create(context.Background(), CreateInput{
		Name:         "Owner",
		Email:        "owner@foodhub.test",
		Password:     "supersecret",
		Role:         roles.RestaurantOwner,
		RestaurantID: 7,
	})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindForbidden))
	assert.Zero(t, requests.Load())
}

func TestCreateUnknownRoleRejectedLocally(t *testing.T) {
	svc, requests := newService(t, staticActor{user: manager(), ok: true})

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "Ghost",
		Email:    "ghost@foodhub.test",
		Password: "supersecret",
		Role:     roles.Role("franchise-lord"),
	})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindValidationFailure))
	assert.Zero(t, requests.Load())
}

func TestCreateTenantRoleRequiresRestaurant(t *testing.T) {
	svc, requests := newService(t, staticActor{user: manager(), ok: true})

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "Budi",
		Email:    "budi@foodhub.test",
		Password: "supersecret",
		Role:     roles.Cashier,
	})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindValidationFailure))

	var appErr *shared.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "restaurant_id")
	assert.Zero(t, requests.Load())
}

func TestUpdateDeniedBelowTargetIssuesNoRequest(t *testing.T) {
	svc, requests := newService(t, staticActor{user: cashier(), ok: true})

	_, err := svc.Update(context.Background(), manager(), UpdateInput{Name: "Renamed"})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindForbidden))
	assert.Zero(t, requests.Load())
}

func TestUpdateSelfDenied(t *testing.T) {
	svc, requests := newService(t, staticActor{user: manager(), ok: true})

	_, err := svc.Update(context.Background(), manager(), UpdateInput{Status: identity.StatusInactive})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindForbidden))
	assert.Zero(t, requests.Load())
}

func TestUpdateAllowed(t *testing.T) {
	svc, requests := newService(t, staticActor{user: manager(), ok: true})

	_, err := svc.Update(context.Background(), cashier(), UpdateInput{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), requests.Load())
}

func TestDeleteDeniedIssuesNoRequest(t *testing.T) {
	svc, requests := newService(t, staticActor{user: cashier(), ok: true})

	err := svc.Delete(context.Background(), manager())
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindForbidden))
	assert.Zero(t, requests.Load())
}

func TestChangePasswordDeniedIssuesNoRequest(t *testing.T) {
	svc, requests := newService(t, staticActor{user: cashier(), ok: true})

	err := svc.ChangePassword(context.Background(), manager(), "newsecret")
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindForbidden))
	assert.Zero(t, requests.Load())
}

func TestMutationsRequireSession(t *testing.T) {
	svc, requests := newService(t, staticActor{})

	_, err := svc.Create(context.Background(), CreateInput{Role: roles.Cashier})
	assert.ErrorIs(t, err, shared.ErrNotAuthenticated)

	_, err = svc.Update(context.Background(), cashier(), UpdateInput{})
	assert.ErrorIs(t, err, shared.ErrNotAuthenticated)

	assert.ErrorIs(t, svc.Delete(context.Background(), cashier()), shared.ErrNotAuthenticated)
	assert.Zero(t, requests.Load())
}
