package apperrors

import (
	"fmt"
	"net/http"
)

// Factories and predefined values for the identity domain.

// ErrNotFound converts a repository miss into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Not found", http.StatusNotFound)
}

// ErrConflict reports a uniqueness violation naming the offending field.
func ErrConflict(field, message string) *AppError {
	return New(CodeConflict, "account", message, http.StatusConflict).
		WithDetails(map[string]string{"field": field})
}

// FieldValidationError reports a single failed credential rule. The field
// order of the calling pipeline guarantees deterministic reporting.
func FieldValidationError(field, rule, message string) *AppError {
	return New(CodeValidationFailed, "validation", message, http.StatusBadRequest).
		WithDetails(map[string]string{"field": field, "rule": rule})
}

// ErrEmailTaken and ErrUsernameTaken mirror the storage-layer unique
// indexes on the accounts table.
func ErrEmailTaken() *AppError {
	return ErrConflict("email", "Email is already registered")
}

func ErrUsernameTaken() *AppError {
	return ErrConflict("username", "Username is already taken")
}

// ErrInvalidOrExpiredToken is deliberately identical for missing, expired
// and consumed reset tokens so callers cannot probe token state.
var ErrInvalidOrExpiredToken = New(
	CodeInvalidToken,
	"password_reset",
	"Invalid or expired token",
	http.StatusNotFound,
)

// ErrInsufficientPermissions is returned before any store access when a
// non-admin principal requests an administrative operation.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrInvalidCredentials is shared by unknown-account and wrong-password
// login failures.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrMissingField reports an absent required field by name, matching the
// registration contract.
func ErrMissingField(field string) *AppError {
	return New(CodeMalformedInput, "request", fmt.Sprintf("Missing %s", field), http.StatusBadRequest)
}
