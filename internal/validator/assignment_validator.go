package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/google/uuid"
)

// AssignmentValidator handles assignment-specific validation
type AssignmentValidator struct {
	now func() time.Time
}

func NewAssignmentValidator(now func() time.Time) *AssignmentValidator {
	return &AssignmentValidator{now: now}
}

// Normalize trims the free-text fields of an assignment.
func (v *AssignmentValidator) Normalize(a *models.Assignment) {
	a.Title = strings.TrimSpace(a.Title)
	a.Description = strings.TrimSpace(a.Description)
}

// ValidateAssignment validates a new assignment. The due date must be
// strictly after the validator's current time.
func (v *AssignmentValidator) ValidateAssignment(a *models.Assignment, problemIDs, studentIDs []string) ValidationErrors {
	var errs ValidationErrors

	title := strings.TrimSpace(a.Title)
	if title == "" || len(title) > models.MaxAssignmentTitleLength {
		errs = append(errs, *NewRuleError("title", messageFor("assignment_title"), "assignment_title", a.Title))
	}
	if len(a.Description) > models.MaxAssignmentDescriptionLength {
		errs = append(errs, *NewRuleError("description", messageFor("assignment_description"), "assignment_description", nil))
	}

	if a.DueDate.IsZero() {
		errs = append(errs, *NewRuleError("dueDate", "is required", "required", nil))
	} else if !a.DueDate.After(v.now()) {
		errs = append(errs, *NewRuleError("dueDate", messageFor("future_date"), "future_date", a.DueDate))
	}

	if a.MaxAttempts < 1 {
		errs = append(errs, *NewRuleError("settings.maxAttempts", messageFor("max_attempts"), "max_attempts", a.MaxAttempts))
	}
	if a.TimeLimit != nil && *a.TimeLimit < 1 {
		errs = append(errs, *NewRuleError("settings.timeLimit", messageFor("time_limit"), "time_limit", *a.TimeLimit))
	}

	errs = append(errs, v.ValidateProblemIDs(problemIDs)...)
	errs = append(errs, validateIDs("assignedTo", studentIDs)...)

	return errs
}

// ValidateProblemIDs checks a problem reference list: non-empty, well formed
// and free of repeats.
func (v *AssignmentValidator) ValidateProblemIDs(problemIDs []string) ValidationErrors {
	if len(problemIDs) == 0 {
		return ValidationErrors{*NewRuleError("problems", "must contain at least one problem", "min", 0)}
	}

	errs := validateIDs("problems", problemIDs)
	seen := make(map[string]struct{}, len(problemIDs))
	for i, id := range problemIDs {
		if _, dup := seen[id]; dup {
			errs = append(errs, *NewRuleError(fmt.Sprintf("problems[%d]", i), messageFor("unique"), "unique", id))
			continue
		}
		seen[id] = struct{}{}
	}
	return errs
}

func validateIDs(field string, ids []string) ValidationErrors {
	var errs ValidationErrors
	for i, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			errs = append(errs, *NewRuleError(fmt.Sprintf("%s[%d]", field, i), messageFor("uuid"), "uuid", id))
		}
	}
	return errs
}
