package validator

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// imgURLPattern accepts scheme-optional http(s) URLs with a dotted host.
var imgURLPattern = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})[/\w .-]*/?$`)

// Clock returns the current time; tests replace it to pin "now".
type Clock func() time.Time

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator     *validator.Validate
	clock               Clock
	problemValidator    *ProblemValidator
	assignmentValidator *AssignmentValidator
}

type Option func(*Validator)

// WithClock overrides the time source used by date rules.
func WithClock(clock Clock) Option {
	return func(v *Validator) {
		v.clock = clock
	}
}

// New creates a new centralized validator instance
func New(opts ...Option) *Validator {
	v := &Validator{clock: time.Now}
	for _, opt := range opts {
		opt(v)
	}

	v.structValidator = validator.New()
	registerCustomValidators(v.structValidator)

	v.problemValidator = NewProblemValidator()
	v.assignmentValidator = NewAssignmentValidator(v.Now)
	return v
}

// Now is the validator's notion of the current time.
func (v *Validator) Now() time.Time {
	return v.clock()
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Problem returns the problem validator
func (v *Validator) Problem() *ProblemValidator {
	return v.problemValidator
}

// Assignment returns the assignment validator
func (v *Validator) Assignment() *AssignmentValidator {
	return v.assignmentValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("problem_type", validateProblemType)
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("img_url", validateImgURL)
	validate.RegisterValidation("not_blank", validateNotBlank)
	validate.RegisterValidation("max_bytes", validateMaxBytes)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateProblemType(fl validator.FieldLevel) bool {
	return IsProblemType(fl.Field().String())
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	return IsDifficultyLevel(fl.Field().String())
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

func validateImgURL(fl validator.FieldLevel) bool {
	return IsImgURL(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateMaxBytes bounds the encoded length, which differs from the rune
// count that "max" checks.
func validateMaxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func IsProblemType(value string) bool {
	for _, t := range models.ProblemTypes {
		if string(t) == value {
			return true
		}
	}
	return false
}

func IsDifficultyLevel(value string) bool {
	for _, d := range models.DifficultyLevels {
		if string(d) == value {
			return true
		}
	}
	return false
}

func IsImgURL(value string) bool {
	return imgURLPattern.MatchString(value)
}
