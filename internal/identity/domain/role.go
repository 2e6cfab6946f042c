package domain

import "fmt"

// Role is the single authorization role held by a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole converts a stored or user-supplied role name.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.IsValid() {
		return "", invalidField(FieldRole, fmt.Sprintf("unknown role %q", value))
	}
	return role, nil
}

// IsValid returns true if the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the canonical role name.
func (r Role) String() string {
	return string(r)
}
