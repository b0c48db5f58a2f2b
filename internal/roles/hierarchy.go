// Package roles defines the static role hierarchy of the FoodHub platform.
//
// The hierarchy is data: each role carries a priority (lower number means
// more privileged, pairwise distinct) and the set of roles it may create.
// The tables are fixed at process start and immutable afterwards; callers
// convert external strings through Parse before touching anything else.
package roles

import (
	"fmt"
	"sort"
)

// Role is one of the seven platform roles.
type Role string

const (
	SuperAdmin        Role = "super-admin"
	Admin             Role = "admin"
	RestaurantOwner   Role = "restaurant-owner"
	RestaurantManager Role = "restaurant-manager"
	KitchenStaff      Role = "kitchen-staff"
	Cashier           Role = "cashier"
	Customer          Role = "customer"
)

// Definition describes a role's place in the hierarchy.
type Definition struct {
	Priority int
	Label    string
	Creates  []Role
}

var hierarchy = map[Role]Definition{
	SuperAdmin: {
		Priority: 1,
		Label:    "Super Admin",
		Creates:  []Role{SuperAdmin, Admin, RestaurantOwner, RestaurantManager, KitchenStaff, Cashier, Customer},
	},
	Admin: {
		Priority: 2,
		Label:    "Admin",
		Creates:  []Role{RestaurantOwner, RestaurantManager, KitchenStaff, Cashier, Customer},
	},
	RestaurantOwner: {
		Priority: 3,
		Label:    "Owner",
		Creates:  []Role{RestaurantManager, KitchenStaff, Cashier, Customer},
	},
	RestaurantManager: {
		Priority: 4,
		Label:    "Manager",
		Creates:  []Role{KitchenStaff, Cashier, Customer},
	},
	KitchenStaff: {
		Priority: 5,
		Label:    "Kitchen",
	},
	Cashier: {
		Priority: 6,
		Label:    "Cashier",
	},
	Customer: {
		Priority: 7,
		Label:    "Customer",
	},
}

// Parse converts an external role string, rejecting anything outside the
// closed set. This is the only place unknown roles are handled; the rest
// of the package assumes known roles.
func Parse(s string) (Role, error) {
	r := Role(s)
	if _, ok := hierarchy[r]; !ok {
		return "", fmt.Errorf("roles: unknown role %q", s)
	}
	return r, nil
}

// Known reports whether r belongs to the hierarchy.
func Known(r Role) bool {
	_, ok := hierarchy[r]
	return ok
}

// Lookup returns the definition for r.
func Lookup(r Role) (Definition, bool) {
	def, ok := hierarchy[r]
	return def, ok
}

// PriorityOf returns the strict total-order priority of r. Lower is more
// privileged. Callers must pass known roles.
func PriorityOf(r Role) int {
	return hierarchy[r].Priority
}

// LabelOf returns the display label for r.
func LabelOf(r Role) string {
	if def, ok := hierarchy[r]; ok {
		return def.Label
	}
	return string(r)
}

// CanCreate reports whether actor's configured creatable set contains target.
func CanCreate(actor, target Role) bool {
	def, ok := hierarchy[actor]
	if !ok {
		return false
	}
	for _, r := range def.Creates {
		if r == target {
			return true
		}
	}
	return false
}

// CreatableBy returns the roles actor may create, in hierarchy order.
func CreatableBy(actor Role) []Role {
	def, ok := hierarchy[actor]
	if !ok {
		return nil
	}
	out := make([]Role, len(def.Creates))
	copy(out, def.Creates)
	return out
}

// RequiresRestaurant reports whether r is a tenant-scoped operational role
// that must carry a restaurant affiliation.
func RequiresRestaurant(r Role) bool {
	switch r {
	case RestaurantOwner, RestaurantManager, KitchenStaff, Cashier:
		return true
	}
	return false
}

// IsSystemRole reports whether r operates at platform level.
func IsSystemRole(r Role) bool {
	return r == SuperAdmin || r == Admin
}

// All returns every role ordered by priority, most privileged first.
func All() []Role {
	out := make([]Role, 0, len(hierarchy))
	for r := range hierarchy {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return hierarchy[out[i]].Priority < hierarchy[out[j]].Priority
	})
	return out
}
