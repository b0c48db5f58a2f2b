package credstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodhub-app/foodhub-console/internal/identity"
	"github.com/foodhub-app/foodhub-console/internal/roles"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Hour), srv
}

func TestSaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	user := identity.User{
		ID:           7,
		Name:         "Dana",
		Email:        "dana@foodhub.test",
		Role:         roles.RestaurantManager,
		RestaurantID: 7,
	}
	require.NoError(t, store.Save(ctx, "tok-1", user))

	token, loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, int64(7), loaded.ID)
	assert.Equal(t, roles.RestaurantManager, loaded.Role)
}

func TestLoadWhenEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	token, user, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestLoadDropsCorruptRecord(t *testing.T) {
	store, srv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, srv.Set("console:auth_token", "tok-1"))
	require.NoError(t, srv.Set("console:user", "{definitely not json"))

	token, user, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)

	// The corrupt record is purged so the next load is a clean miss.
	assert.False(t, srv.Exists("console:auth_token"))
	assert.False(t, srv.Exists("console:user"))
}

func TestClear(t *testing.T) {
	store, srv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", identity.User{ID: 1}))
	require.NoError(t, store.Clear(ctx))

	assert.False(t, srv.Exists("console:auth_token"))

	// Clearing an empty store is fine.
	require.NoError(t, store.Clear(ctx))
}

func TestSaveAppliesTTL(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := New(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", identity.User{ID: 1}))
	assert.Equal(t, time.Minute, srv.TTL("console:auth_token"))

	srv.FastForward(2 * time.Minute)
	token, user, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}
