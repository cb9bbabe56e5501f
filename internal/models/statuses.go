package models

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// ValidRole reports whether role is one of the known role values.
// Unknown values are never stored; admin updates ignore them.
func ValidRole(role UserRole) bool {
	switch role {
	case UserRoleUser, UserRoleAdmin:
		return true
	default:
		return false
	}
}
