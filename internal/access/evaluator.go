package access

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zucitech/portal-client/internal/entity"
)

// IdentitySource yields the current session subject, nil when logged
// out.
type IdentitySource interface {
	Identity() *entity.Identity
}

// Evaluator answers authorization questions about the current
// identity. All checks are pure reads; no check mutates state or
// touches the network.
type Evaluator struct {
	source    IdentitySource
	superuser string
}

// NewEvaluator builds an evaluator. superuser is the legacy
// username-based admin bypass; pass the empty string to disable it.
func NewEvaluator(source IdentitySource, superuser string) *Evaluator {
	return &Evaluator{
		source:    source,
		superuser: superuser,
	}
}

// identity returns the session subject, or nil when logged out or
// deactivated. A deactivated account authorizes nothing, even if its
// snapshot or token survived locally.
func (e *Evaluator) identity() *entity.Identity {
	identity := e.source.Identity()
	if identity == nil || !identity.IsActive {
		return nil
	}

	return identity
}

// HasPermission reports whether the identity holds the named
// permission by exact match. False without a session.
func (e *Evaluator) HasPermission(permission string) bool {
	identity := e.identity()
	if identity == nil {
		return false
	}

	return slices.Contains(identity.Permissions, permission)
}

// HasRole reports whether any assigned role carries the given name.
// False without a session.
func (e *Evaluator) HasRole(name string) bool {
	identity := e.identity()
	if identity == nil {
		return false
	}

	for _, role := range identity.Roles {
		if role.Name == name {
			return true
		}
	}

	return false
}

// IsAdmin reports whether the identity holds the admin role or matches
// the configured superuser name.
func (e *Evaluator) IsAdmin() bool {
	if e.HasRole(entity.RoleAdmin) {
		return true
	}

	if e.superuser == "" {
		return false
	}

	identity := e.identity()

	return identity != nil && identity.Username == e.superuser
}

// Requirement declares what a protected view or navigation entry
// demands. The zero value demands nothing and is satisfied by anyone,
// session or not.
type Requirement struct {
	Permission string
	Roles      []string
	AdminOnly  bool
}

// Key is a stable identity for the requirement, used to deduplicate
// guard redirects per requirement change.
func (r Requirement) Key() string {
	return fmt.Sprintf("perm=%s|roles=%s|admin=%t", r.Permission, strings.Join(r.Roles, ","), r.AdminOnly)
}

// Check evaluates a requirement against the current identity with the
// fixed priority ladder:
//
//  1. admins pass everything;
//  2. managers pass everything that is not admin-only;
//  3. otherwise the declared role list and permission must match;
//  4. default deny.
func (e *Evaluator) Check(r Requirement) bool {
	if e.IsAdmin() {
		return true
	}

	if r.AdminOnly {
		return false
	}

	if e.HasRole(entity.RoleManager) {
		return true
	}

	if len(r.Roles) > 0 {
		held := false

		for _, name := range r.Roles {
			if e.HasRole(name) {
				held = true
				break
			}
		}

		if !held {
			return false
		}
	}

	if r.Permission != "" && !e.HasPermission(r.Permission) {
		return false
	}

	return true
}
