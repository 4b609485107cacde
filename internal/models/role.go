package models

// Role is the flat role enum used across the API. Values match the wire
// format exactly, including the historical casing of "ADMIN".
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "super_admin"
)

// ValidRoles defines allowed user roles
var ValidRoles = map[Role]bool{
	RoleUser:       true,
	RoleAdmin:      true,
	RoleSuperAdmin: true,
}

// IsAdmin reports whether the role carries moderation capabilities.
func IsAdmin(r Role) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsSuperAdmin reports whether the role can manage other admins.
func IsSuperAdmin(r Role) bool {
	return r == RoleSuperAdmin
}
