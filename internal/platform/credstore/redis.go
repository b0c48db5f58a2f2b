// Package credstore persists the console's client state (bearer token and
// cached identity) in Redis so a restart can resume the session.
package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodhub-app/foodhub-console/internal/identity"
)

const (
	tokenKey = "console:auth_token"
	userKey  = "console:user"
)

// Store is a Redis-backed credential store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis and verifies the connection before handing back a
// Store. The TTL bounds how long a persisted session survives unused.
func Connect(ctx context.Context, addr string, ttl time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("credstore: ping: %w", err)
	}
	return New(client, ttl), nil
}

// New wraps an existing Redis client.
func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Client exposes the underlying Redis client for components sharing the
// connection, such as the pub/sub transport.
func (s *Store) Client() *redis.Client {
	return s.client
}

// Save persists the bearer token and the serialized identity.
func (s *Store) Save(ctx context.Context, token string, user identity.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("credstore: encode user: %w", err)
	}
	if err := s.client.Set(ctx, tokenKey, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("credstore: save token: %w", err)
	}
	if err := s.client.Set(ctx, userKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("credstore: save user: %w", err)
	}
	return nil
}

// Load returns the persisted token and identity. A nil user with no error
// means nothing is persisted.
func (s *Store) Load(ctx context.Context) (string, *identity.User, error) {
	token, err := s.client.Get(ctx, tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("credstore: load token: %w", err)
	}

	data, err := s.client.Get(ctx, userKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("credstore: load user: %w", err)
	}

	var user identity.User
	if err := json.Unmarshal(data, &user); err != nil {
		// A corrupt record is as good as no record; drop it.
		_ = s.Clear(ctx)
		return "", nil, nil
	}
	return token, &user, nil
}

// Clear removes the persisted state. Safe to call when nothing is stored.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, tokenKey, userKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("credstore: clear: %w", err)
	}
	return nil
}
