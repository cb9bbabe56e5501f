package validator

import (
	"log"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires the credential rules into struct tags so DTOs
// can carry them. The tag functions delegate to the same pure checks the
// services use.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup bug.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("username", validateUsernameTag)
	mustRegister("password-strength", validatePasswordTag)
}

func validateUsernameTag(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty values are 'required's problem
	}
	return ValidateUsername(value) == nil
}

func validatePasswordTag(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return ValidatePassword(value) == nil
}
