// Package identity holds the authenticated identity model and the session
// store that owns it.
package identity

import (
	"time"

	"github.com/foodhub-app/foodhub-console/internal/roles"
)

// Status is the account status of a user.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// RoleAssignment is a secondary role attached to a user record.
type RoleAssignment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Restaurant is the tenant a user may be affiliated with.
type Restaurant struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// User is the platform user record as served by the API. The console never
// creates these locally; they arrive through login, refresh, and the users
// endpoints.
type User struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone,omitempty"`
	Role         roles.Role       `json:"role"`
	Roles        []RoleAssignment `json:"roles,omitempty"`
	RestaurantID int64            `json:"restaurant_id,omitempty"`
	Restaurant   *Restaurant      `json:"restaurant,omitempty"`
	Status       Status           `json:"status"`
	LastLoginAt  *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProfileUpdate carries the fields a user may change on their own record.
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
