package validator

import (
	"regexp"
	"strings"
	"unicode"

	"travel_backend/pkg/apperrors"
)

// Credential rules shared by registration, admin create, admin update and
// token redemption. Every caller applies the identical checks; update
// flows simply skip fields they do not touch.

// Rule names reported in validation error details.
const (
	RuleTooShort       = "too_short"
	RuleTooLong        = "too_long"
	RuleInvalidCharset = "invalid_charset"
	RuleInvalidFormat  = "invalid_format"
	RuleMissingLetter  = "missing_letter"
	RuleMissingDigit   = "missing_digit"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
	EmailMaxLen    = 180
	PasswordMinLen = 8
)

var usernameCharset = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// emailFormat is a pragmatic grammar: one local part, one @, a domain
// with at least one dot and no whitespace.
var emailFormat = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases. Callers must
// normalize before validating or persisting an email.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateUsername checks length bounds and the allowed charset.
func ValidateUsername(s string) *apperrors.AppError {
	if len(s) < UsernameMinLen {
		return apperrors.FieldValidationError("username", RuleTooShort,
			"Username must be between 3 and 50 characters")
	}
	if len(s) > UsernameMaxLen {
		return apperrors.FieldValidationError("username", RuleTooLong,
			"Username must be between 3 and 50 characters")
	}
	if !usernameCharset.MatchString(s) {
		return apperrors.FieldValidationError("username", RuleInvalidCharset,
			"Username can only contain letters, numbers, dots, hyphens and underscores")
	}
	return nil
}

// ValidateEmail checks the email grammar and the length bound. The input
// must already be normalized (see NormalizeEmail).
func ValidateEmail(s string) *apperrors.AppError {
	if !emailFormat.MatchString(s) {
		return apperrors.FieldValidationError("email", RuleInvalidFormat,
			"Please enter a valid email address")
	}
	if len(s) > EmailMaxLen {
		return apperrors.FieldValidationError("email", RuleTooLong,
			"Email cannot be longer than 180 characters")
	}
	return nil
}

// ValidatePassword enforces the minimum strength policy: at least 8
// characters, one letter and one digit. There is deliberately no upper
// bound and no special-character requirement.
func ValidatePassword(s string) *apperrors.AppError {
	if len(s) < PasswordMinLen {
		return apperrors.FieldValidationError("password", RuleTooShort,
			"Password must be at least 8 characters long")
	}

	hasLetter := false
	hasDigit := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter {
		return apperrors.FieldValidationError("password", RuleMissingLetter,
			"Password must contain at least one letter")
	}
	if !hasDigit {
		return apperrors.FieldValidationError("password", RuleMissingDigit,
			"Password must contain at least one number")
	}
	return nil
}
