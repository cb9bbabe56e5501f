package services

import (
	"travel_backend/internal/email"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	UserService          UserService
	PasswordResetService PasswordResetService
	EmailProvider        email.Provider
}
