package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleManager  = "ROLE_MANAGER"
	RoleEmployee = "ROLE_EMPLOYEE"
)

// UserID is an opaque identifier. Backends disagree on its wire shape
// (numeric id vs string/UUID), so both decode into the same type.
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = UserID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or a number: %w", err)
	}

	*id = UserID(n.String())

	return nil
}

type Role struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

// Identity is the authenticated session subject. Permissions are always
// a flattened string set by the time an Identity exists; heterogeneous
// backend shapes are normalized at the client boundary.
type Identity struct {
	ID          UserID    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Roles       []Role    `json:"roles"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}
