package model

import "time"

// User represents an authentication user.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles, ordered by privilege.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

var roleRank = map[string]int{
	RoleCashier: 1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	_, ok := roleRank[r]
	return ok
}

// RoleAtLeast reports whether role has at least the privileges of minimum.
func RoleAtLeast(role, minimum string) bool {
	return roleRank[role] >= roleRank[minimum]
}
