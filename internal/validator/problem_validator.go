package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
)

// MaxBulkProblems caps a single bulk or import batch.
const MaxBulkProblems = 500

// ProblemValidator handles problem-specific validation
type ProblemValidator struct{}

// NewProblemValidator creates a new problem validator
func NewProblemValidator() *ProblemValidator {
	return &ProblemValidator{}
}

// ApplyDefaults trims text fields and fills in difficulty and wrong answers.
// Points are left alone so that an explicit 0 is still rejected.
func (v *ProblemValidator) ApplyDefaults(p *models.Problem) {
	p.Topic = strings.TrimSpace(p.Topic)
	p.Question = strings.TrimSpace(p.Question)
	if !p.Answer.IsZero() {
		p.Answer = p.Answer.Trimmed()
	}
	if p.Difficulty == "" {
		p.Difficulty = models.DefaultDifficulty
	}
	if p.WrongAnswers == nil {
		p.WrongAnswers = []string{}
	}
	for i, w := range p.WrongAnswers {
		p.WrongAnswers[i] = strings.TrimSpace(w)
	}
	if p.ImgURL != nil && strings.TrimSpace(*p.ImgURL) == "" {
		p.ImgURL = nil
	}
}

// ValidateProblem checks every field rule of a problem and returns all failures.
func (v *ProblemValidator) ValidateProblem(p *models.Problem) ValidationErrors {
	var errs ValidationErrors

	if p.Type == "" {
		errs = append(errs, *NewRuleError("type", "is required", "required", nil))
	} else if !IsProblemType(string(p.Type)) {
		errs = append(errs, *NewRuleError("type", messageFor("problem_type"), "problem_type", p.Type))
	}

	if strings.TrimSpace(p.Topic) == "" {
		errs = append(errs, *NewRuleError("topic", "is required", "required", nil))
	}
	if strings.TrimSpace(p.Question) == "" {
		errs = append(errs, *NewRuleError("question", "is required", "required", nil))
	}

	if p.Answer.IsZero() {
		errs = append(errs, *NewRuleError("answer", "is required", "required", nil))
	} else if err := p.Answer.Validate(); err != nil {
		errs = append(errs, *NewRuleError("answer", err.Error(), "answer", p.Answer.Values()))
	}

	for i, w := range p.WrongAnswers {
		if strings.TrimSpace(w) == "" {
			field := fmt.Sprintf("wrongAnswers[%d]", i)
			errs = append(errs, *NewRuleError(field, messageFor("not_blank"), "not_blank", w))
		}
	}

	if !IsDifficultyLevel(string(p.Difficulty)) {
		errs = append(errs, *NewRuleError("difficulty", messageFor("difficulty_level"), "difficulty_level", p.Difficulty))
	}

	if p.Points < models.MinProblemPoints || p.Points > models.MaxProblemPoints {
		errs = append(errs, *NewRuleError("points", messageFor("points_range"), "points_range", p.Points))
	}

	if p.ImgURL != nil && !IsImgURL(*p.ImgURL) {
		errs = append(errs, *NewRuleError("imgUrl", messageFor("img_url"), "img_url", *p.ImgURL))
	}

	return errs
}

// ValidateBatch validates every problem of a batch. Failures are reported
// with the item index in the field name; one bad item fails the batch.
func (v *ProblemValidator) ValidateBatch(field string, problems []*models.Problem) ValidationErrors {
	if len(problems) == 0 {
		return ValidationErrors{*NewRuleError(field, "must contain at least one problem", "min", 0)}
	}
	if len(problems) > MaxBulkProblems {
		return ValidationErrors{*NewRuleError(field, fmt.Sprintf("must contain at most %d problems", MaxBulkProblems), "max", len(problems))}
	}

	var errs ValidationErrors
	for i, p := range problems {
		if itemErrs := v.ValidateProblem(p); len(itemErrs) > 0 {
			errs = append(errs, itemErrs.WithPrefix(fmt.Sprintf("%s[%d]", field, i))...)
		}
	}
	return errs
}
