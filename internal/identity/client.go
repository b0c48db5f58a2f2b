package identity

import (
	"context"
	"time"

	"github.com/foodhub-app/foodhub-console/internal/platform/api"
	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// APIClient implements AuthAPI over the platform REST API.
type APIClient struct {
	client *api.Client
}

// NewAPIClient wraps an api.Client.
func NewAPIClient(client *api.Client) *APIClient {
	return &APIClient{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login exchanges credentials for a bearer token. A 401 on this endpoint
// means the credentials were rejected, not that a session expired.
func (c *APIClient) Login(ctx context.Context, email, password string) (User, string, time.Time, error) {
	var res authResponse
	err := c.client.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &res)
	if err != nil {
		if shared.IsKind(err, shared.KindAuthorizationExpired) {
			return User{}, "", time.Time{}, shared.E(shared.KindInvalidCredentials, "invalid email or password")
		}
		return User{}, "", time.Time{}, err
	}
	return res.User, res.Token, res.ExpiresAt, nil
}

// Logout invalidates the bearer token server-side.
func (c *APIClient) Logout(ctx context.Context) error {
	return c.client.Post(ctx, "/auth/logout", nil, nil)
}

// Me fetches the identity behind the current bearer token.
func (c *APIClient) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.client.Get(ctx, "/auth/me", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// UpdateProfile changes the caller's own record.
func (c *APIClient) UpdateProfile(ctx context.Context, upd ProfileUpdate) (User, error) {
	var user User
	if err := c.client.Put(ctx, "/auth/profile", upd, &user); err != nil {
		return User{}, err
	}
	return user, nil
}
