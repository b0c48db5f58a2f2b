// Package users manages platform user records through the REST API,
// gating every mutation through the role-hierarchy authorization engine
// before any request leaves the process.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/foodhub-app/foodhub-console/internal/authz"
	"github.com/foodhub-app/foodhub-console/internal/identity"
	"github.com/foodhub-app/foodhub-console/internal/platform/api"
	"github.com/foodhub-app/foodhub-console/internal/roles"
	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// ActorSource yields the identity performing the action.
type ActorSource interface {
	Current() (identity.User, bool)
}

// Service reads and mutates user records.
type Service struct {
	client *api.Client
	actor  ActorSource
}

// NewService builds a Service.
func NewService(client *api.Client, actor ActorSource) *Service {
	return &Service{client: client, actor: actor}
}

// ListFilters narrows a user listing.
type ListFilters struct {
	RestaurantID int64
	Role         roles.Role
	Status       identity.Status
	Search       string
	Page         shared.PageRequest
}

func (f ListFilters) query() url.Values {
	q := url.Values{}
	if f.RestaurantID > 0 {
		q.Set("restaurant_id", fmt.Sprint(f.RestaurantID))
	}
	if f.Role != "" {
		q.Set("role", string(f.Role))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	f.Page.Query(q)
	return q
}

// CreateInput is the payload for creating a user.
type CreateInput struct {
	Name         string          `json:"name" validate:"required"`
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=8"`
	Phone        string          `json:"phone,omitempty"`
	Role         roles.Role      `json:"role" validate:"required"`
	RestaurantID int64           `json:"restaurant_id,omitempty"`
	Status       identity.Status `json:"status"`
}

// UpdateInput is the payload for editing a user record.
type UpdateInput struct {
	Name   string          `json:"name,omitempty"`
	Email  string          `json:"email,omitempty"`
	Phone  string          `json:"phone,omitempty"`
	Status identity.Status `json:"status,omitempty"`
}

type userPage struct {
	Data []identity.User `json:"data"`
	Meta shared.PageMeta `json:"meta"`
}

// List returns a page of users matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]identity.User, shared.PageMeta, error) {
	var page userPage
	if err := s.client.Get(ctx, "/users", filters.query(), &page); err != nil {
		return nil, shared.PageMeta{}, err
	}
	return page.Data, page.Meta, nil
}

// Get fetches a single user record.
func (s *Service) Get(ctx context.Context, id int64) (identity.User, error) {
	if id <= 0 {
		return identity.User{}, errors.New("invalid user ID")
	}
	var user identity.User
	if err := s.client.Get(ctx, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return identity.User{}, err
	}
	return user, nil
}

// Create adds a user. The actor must be allowed to create the requested
// role, and tenant-scoped roles must carry a restaurant affiliation.
func (s *Service) Create(ctx context.Context, input CreateInput) (identity.User, error) {
	actor, ok := s.actor.Current()
	if !ok {
		return identity.User{}, shared.ErrNotAuthenticated
	}
	if _, err := roles.Parse(string(input.Role)); err != nil {
		return identity.User{}, shared.Validation("unknown role", map[string][]string{
			"role": {fmt.Sprintf("unknown role %q", input.Role)},
		})
	}
	if !authz.CanCreateRole(actor, input.Role) {
		return identity.User{}, shared.E(shared.KindForbidden,
			fmt.Sprintf("role %q may not create %q users", authz.EffectiveRole(actor), input.Role))
	}
	if authz.RoleRequiresRestaurant(input.Role) && input.RestaurantID <= 0 {
		return identity.User{}, shared.Validation("restaurant required", map[string][]string{
			"restaurant_id": {fmt.Sprintf("role %q requires a restaurant", input.Role)},
		})
	}
	if input.Status == "" {
		input.Status = identity.StatusActive
	}

	var user identity.User
	if err := s.client.Post(ctx, "/users", input, &user); err != nil {
		return identity.User{}, err
	}
	return user, nil
}

// Update edits the target record after checking the actor sits strictly
// above the target in the hierarchy.
func (s *Service) Update(ctx context.Context, target identity.User, input UpdateInput) (identity.User, error) {
	actor, ok := s.actor.Current()
	if !ok {
		return identity.User{}, shared.ErrNotAuthenticated
	}
	if !authz.CanEdit(actor, target) {
		return identity.User{}, shared.E(shared.KindForbidden, "not allowed to edit this user")
	}
	var user identity.User
	if err := s.client.Put(ctx, fmt.Sprintf("/users/%d", target.ID), input, &user); err != nil {
		return identity.User{}, err
	}
	return user, nil
}

// Delete removes the target record under the same hierarchy rule.
func (s *Service) Delete(ctx context.Context, target identity.User) error {
	actor, ok := s.actor.Current()
	if !ok {
		return shared.ErrNotAuthenticated
	}
	if !authz.CanDelete(actor, target) {
		return shared.E(shared.KindForbidden, "not allowed to delete this user")
	}
	return s.client.Delete(ctx, fmt.Sprintf("/users/%d", target.ID))
}

// ChangePassword sets a new password on the target record.
func (s *Service) ChangePassword(ctx context.Context, target identity.User, password string) error {
	actor, ok := s.actor.Current()
	if !ok {
		return shared.ErrNotAuthenticated
	}
	if !authz.CanEdit(actor, target) {
		return shared.E(shared.KindForbidden, "not allowed to edit this user")
	}
	body := map[string]string{
		"password":              password,
		"password_confirmation": password,
	}
	return s.client.Post(ctx, fmt.Sprintf("/users/%d/password", target.ID), body, nil)
}
