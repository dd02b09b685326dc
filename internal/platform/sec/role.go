// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Admin Roles

// UserRole represents the authorization level granted to an allowlisted account.
type UserRole string

const (
	// Full CMS access plus allowlist management
	RoleAdmin UserRole = "admin"

	// Can edit projects, upload sources and trigger builds
	RoleEditor UserRole = "editor"
)

// ParseRole converts raw input into a known role.
func ParseRole(raw string) (UserRole, bool) {
	role := UserRole(raw)
	return role, role.IsValid()
}

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor:
		return true
	default:
		return false
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() > 0 && r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleEditor:
		return 20
	default:
		return 0
	}
}
