package domain

import "strings"

// Role is the backend's account role
type Role string

const (
	RoleCustomer Role = "ROLE_CUSTOMER"
	RoleSeller   Role = "ROLE_SELLER"
	RoleAdmin    Role = "ROLE_ADMIN"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// ParseRole accepts both the backend form ("ROLE_SELLER") and the short form ("seller")
func ParseRole(s string) (Role, error) {
	r := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(r, "ROLE_") {
		r = "ROLE_" + r
	}
	role := Role(r)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// User is the signed-in account as returned by the profile endpoints
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile,omitempty"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsSeller reports whether the user has the seller role
func (u *User) IsSeller() bool {
	return u != nil && u.Role == RoleSeller
}
