package validator

import (
	"github.com/SAP-F-2025/math-practice-service/internal/errors"
)

// Use shared validation errors from errors package
type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	return errors.ToValidationErrors(err)
}

func NewRuleError(field, message, rule string, value interface{}) *ValidationError {
	return errors.NewValidationErrorWithRule(field, message, rule, value)
}

func messageFor(rule string) string {
	return errors.MessageForRule(rule, "")
}
