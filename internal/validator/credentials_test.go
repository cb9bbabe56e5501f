package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM  "))
	assert.Equal(t, "user@example.com", NormalizeEmail("user@example.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		rule     string
	}{
		{"minimum length ok", "abc", ""},
		{"maximum length ok", strings.Repeat("a", 50), ""},
		{"all allowed characters", "User_1.2-3", ""},
		{"too short", "ab", RuleTooShort},
		{"empty", "", RuleTooShort},
		{"too long", strings.Repeat("a", 51), RuleTooLong},
		{"space rejected", "user name", RuleInvalidCharset},
		{"unicode rejected", "пользователь", RuleInvalidCharset},
		{"at sign rejected", "user@name", RuleInvalidCharset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.rule == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			details, ok := err.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, "username", details["field"])
			assert.Equal(t, tt.rule, details["rule"])
		})
	}
}

func TestValidateEmail(t *testing.T) {
	longLocal := strings.Repeat("a", 170) + "@example.com"

	tests := []struct {
		name  string
		email string
		rule  string
	}{
		{"plain address", "user@example.com", ""},
		{"plus tag", "user+tag@example.com", ""},
		{"no at sign", "userexample.com", RuleInvalidFormat},
		{"no domain dot", "user@example", RuleInvalidFormat},
		{"two at signs", "u@s@example.com", RuleInvalidFormat},
		{"whitespace inside", "us er@example.com", RuleInvalidFormat},
		{"empty", "", RuleInvalidFormat},
		{"over 180 characters", longLocal, RuleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.rule == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			details, ok := err.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, "email", details["field"])
			assert.Equal(t, tt.rule, details["rule"])
		})
	}
}

func TestValidateEmailLengthBound(t *testing.T) {
	// Exactly 180 characters passes; 181 does not.
	domain := "@e." + strings.Repeat("x", 10)
	local := strings.Repeat("a", 180-len(domain))
	ok := local + domain
	require.Len(t, ok, 180)
	assert.Nil(t, ValidateEmail(ok))

	tooLong := "a" + ok
	err := ValidateEmail(tooLong)
	require.NotNil(t, err)
	details := err.Details.(map[string]string)
	assert.Equal(t, RuleTooLong, details["rule"])
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		rule     string
	}{
		{"minimal valid", "abc12345", ""},
		{"long mixed", "correct horse 99 battery", ""},
		{"too short", "a1b2c3", RuleTooShort},
		{"empty", "", RuleTooShort},
		{"digits only", "12345678", RuleMissingLetter},
		{"letters only", "abcdefgh", RuleMissingDigit},
		{"symbols and digits", "!!!!11111", RuleMissingLetter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.rule == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			details, ok := err.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, "password", details["field"])
			assert.Equal(t, tt.rule, details["rule"])
		})
	}
}
