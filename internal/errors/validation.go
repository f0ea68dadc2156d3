package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// WithPrefix returns a copy whose field names are qualified by prefix,
// e.g. "answer" becomes "problems[3].answer".
func (ve ValidationErrors) WithPrefix(prefix string) ValidationErrors {
	out := make(ValidationErrors, len(ve))
	for i, e := range ve {
		e.Field = prefix + "." + e.Field
		out[i] = e
	}
	return out
}

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	var validatorErr validator.ValidationErrors
	if stderrors.As(err, &validatorErr) {
		for _, err := range validatorErr {
			errors = append(errors, ValidationError{
				Field:   err.Field(),
				Message: getErrorMessage(err),
				Value:   err.Value(),
				Rule:    err.Tag(),
			})
		}
	}

	return errors
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	return MessageForRule(err.Tag(), err.Param())
}

// MessageForRule returns the user-facing message for a validation rule.
func MessageForRule(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", param)
	case "max":
		return fmt.Sprintf("must be at most %s", param)
	case "len":
		return fmt.Sprintf("must be exactly %s characters", param)
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "numeric":
		return "must be a number"
	case "alphanum":
		return "must contain only letters and numbers"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", param)
	case "dive":
		return "contains an invalid element"
	case "unique":
		return "must not be repeated"

	// Custom validators
	case "problem_type":
		return "must be a valid problem type (multiple_choice, open_ended, true_false, fill_blank)"
	case "difficulty_level":
		return "must be easy, medium, or hard"
	case "user_role":
		return "must be a valid user role (student, teacher)"
	case "img_url":
		return "must be a valid image URL"
	case "not_blank":
		return "must not be blank"
	case "max_bytes":
		return fmt.Sprintf("must be at most %s bytes", param)

	// Business rule validators
	case "points_range":
		return "must be between 1 and 10"
	case "max_attempts":
		return "must be at least 1"
	case "assignment_title":
		return "must be between 1 and 200 characters"
	case "assignment_description":
		return "must not exceed 1000 characters"
	case "future_date":
		return "must be in the future"
	case "time_limit":
		return "must be at least 1 minute"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", tag)
	}
}
