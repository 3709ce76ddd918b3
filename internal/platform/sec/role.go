// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level carried in the "rol" claim.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can create, edit, publish and delete any content or media
	RoleEditor UserRole = "editor"

	// Can draft content; publishing goes through an editor
	RoleAuthor UserRole = "author"

	// Read-only access to the public surface
	RoleViewer UserRole = "viewer"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() > 0 && r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleEditor:
		return 30
	case RoleAuthor:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
