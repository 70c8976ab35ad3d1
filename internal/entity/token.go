package entity

import (
	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the bearer token payload. Every field is optional: the
// token is only used to reconstruct a minimal Identity when no stored
// snapshot exists.
type TokenClaims struct {
	UserID      UserID   `json:"user_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Roles       []Role   `json:"roles"`
	Permissions []string `json:"permissions"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	jwt.RegisteredClaims
}

// Identity reconstructs the session subject from token claims. A token
// that names no roles falls back to the employee role, and the subject
// is assumed active: deactivation is enforced by the backend on the
// first authenticated call.
func (c *TokenClaims) Identity() Identity {
	roles := c.Roles
	if len(roles) == 0 {
		name := c.Role
		if name == "" {
			name = RoleEmployee
		}

		roles = []Role{{ID: 0, Name: name}}
	}

	permissions := c.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	return Identity{
		ID:          c.UserID,
		Username:    c.Username,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Roles:       roles,
		Permissions: permissions,
		IsActive:    true,
	}
}
