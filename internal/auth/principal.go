package auth

import "travel_backend/internal/models"

// Principal is the identity on whose behalf an operation is requested.
// It is passed explicitly into every service call that needs authority;
// services never read the acting user from ambient state.
type Principal struct {
	ID   string
	Role models.UserRole
}

// Anonymous is the principal of unauthenticated requests (registration,
// forgot-password, token redemption).
var Anonymous = Principal{}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.UserRoleAdmin
}

// IsAnonymous reports whether the principal carries no identity.
func (p Principal) IsAnonymous() bool {
	return p.ID == ""
}

// CanManageAccounts gates the administrative surface: listing accounts,
// creating accounts with arbitrary roles, updating or deleting other
// accounts and force-resetting their passwords.
func (p Principal) CanManageAccounts() bool {
	return p.IsAdmin()
}
