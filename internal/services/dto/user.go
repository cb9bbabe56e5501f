package dto

import "travel_backend/internal/models"

// Binding DTOs carry only structural tags ("required"); the credential
// rules are applied by the services in a fixed field order so the first
// failing rule is reported deterministically.

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminCreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	// Role defaults to "user"; any value other than "admin" is treated
	// as "user".
	Role string `json:"role"`
}

// AdminUpdateUserRequest updates only the supplied fields. A role value
// outside the known enum is ignored, not rejected.
type AdminUpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	CreatedAt string          `json:"createdAt"`
}

type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

type AdminCreateUserResponse struct {
	ID   string          `json:"id"`
	Role models.UserRole `json:"role"`
}
