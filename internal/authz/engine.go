// Package authz decides what the current identity may do to other users.
//
// Every function is pure and total over well-formed inputs: no I/O, no
// errors, no panics. Tenant isolation is deliberately not checked here;
// the platform API enforces it at its own boundary.
package authz

import (
	"github.com/foodhub-app/foodhub-console/internal/identity"
	"github.com/foodhub-app/foodhub-console/internal/roles"
)

// EffectiveRole resolves the role that governs a user's privileges: the
// lowest-priority-number role among their recognized assignments, falling
// back to the primary role field when no assignment is recognized.
// Assignment names unknown to the hierarchy are skipped, never fatal.
func EffectiveRole(u identity.User) roles.Role {
	best := roles.Role("")
	bestPriority := 0
	for _, assignment := range u.Roles {
		r, err := roles.Parse(assignment.Name)
		if err != nil {
			continue
		}
		if p := roles.PriorityOf(r); best == "" || p < bestPriority {
			best, bestPriority = r, p
		}
	}
	if best != "" {
		return best
	}
	return u.Role
}

// CanEdit reports whether actor may edit target. Self-edit through this
// path is always refused; profile editing is a separate flow. The top
// priority role edits anyone else; everyone below needs strictly higher
// privilege than the target, so equal priorities are never editable.
func CanEdit(actor, target identity.User) bool {
	if actor.ID == target.ID {
		return false
	}
	actorRole := EffectiveRole(actor)
	if roles.Known(actorRole) && roles.PriorityOf(actorRole) == 1 {
		return true
	}
	targetRole := EffectiveRole(target)
	if !roles.Known(actorRole) || !roles.Known(targetRole) {
		return false
	}
	return roles.PriorityOf(actorRole) < roles.PriorityOf(targetRole)
}

// CanDelete reports whether actor may delete target. Same policy as
// CanEdit; kept separate so call sites read correctly and the rules can
// diverge later.
func CanDelete(actor, target identity.User) bool {
	return CanEdit(actor, target)
}

// RolesCreatableBy returns the roles actor may assign when creating users.
func RolesCreatableBy(actor identity.User) []roles.Role {
	return roles.CreatableBy(EffectiveRole(actor))
}

// CanCreateRole reports whether actor may create a user holding role.
func CanCreateRole(actor identity.User, role roles.Role) bool {
	return roles.CanCreate(EffectiveRole(actor), role)
}

// RoleRequiresRestaurant reports whether role needs a tenant affiliation.
func RoleRequiresRestaurant(role roles.Role) bool {
	return roles.RequiresRestaurant(role)
}
