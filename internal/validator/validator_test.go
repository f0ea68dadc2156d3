package validator

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func validProblem() *models.Problem {
	return &models.Problem{
		Type:       models.ProblemOpenEnded,
		Topic:      "fractions",
		Question:   "1/2 + 1/4 = ?",
		Answer:     models.SingleAnswer("3/4"),
		Difficulty: models.DifficultyEasy,
		Points:     2,
	}
}

func fieldsOf(errs ValidationErrors) []string {
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	return fields
}

func TestProblemValidator_ValidateProblem(t *testing.T) {
	v := newTestValidator().Problem()
	badURL := "not a url"
	goodURL := "https://cdn.example.com/img/fig1.png"

	tests := []struct {
		name       string
		mutate     func(p *models.Problem)
		wantFields []string
	}{
		{name: "valid problem", mutate: func(p *models.Problem) {}},
		{name: "empty answer string", mutate: func(p *models.Problem) { p.Answer = models.SingleAnswer("") }, wantFields: []string{"answer"}},
		{name: "empty answer list", mutate: func(p *models.Problem) { p.Answer = models.MultipleAnswers() }, wantFields: []string{"answer"}},
		{name: "answer list with blanks", mutate: func(p *models.Problem) { p.Answer = models.MultipleAnswers("a", "", "") }, wantFields: []string{"answer"}},
		{name: "missing answer", mutate: func(p *models.Problem) { p.Answer = models.Answer{} }, wantFields: []string{"answer"}},
		{name: "unknown type", mutate: func(p *models.Problem) { p.Type = "essay" }, wantFields: []string{"type"}},
		{name: "blank topic and question", mutate: func(p *models.Problem) { p.Topic = " "; p.Question = "" }, wantFields: []string{"topic", "question"}},
		{name: "points out of range", mutate: func(p *models.Problem) { p.Points = 11 }, wantFields: []string{"points"}},
		{name: "bad difficulty", mutate: func(p *models.Problem) { p.Difficulty = "extreme" }, wantFields: []string{"difficulty"}},
		{name: "blank wrong answer", mutate: func(p *models.Problem) { p.WrongAnswers = []string{"1", " "} }, wantFields: []string{"wrongAnswers[1]"}},
		{name: "malformed image url", mutate: func(p *models.Problem) { p.ImgURL = &badURL }, wantFields: []string{"imgUrl"}},
		{name: "valid image url", mutate: func(p *models.Problem) { p.ImgURL = &goodURL }},
		{name: "multiple choice needs no wrong answers", mutate: func(p *models.Problem) { p.Type = models.ProblemMultipleChoice }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProblem()
			tt.mutate(p)
			errs := v.ValidateProblem(p)
			if len(tt.wantFields) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.wantFields, fieldsOf(errs))
		})
	}
}

func TestProblemValidator_ApplyDefaults(t *testing.T) {
	v := newTestValidator().Problem()
	p := &models.Problem{Type: models.ProblemFillBlank, Topic: "  algebra ", Question: " x + 1 = 3 ", Answer: models.SingleAnswer(" 2 ")}

	v.ApplyDefaults(p)

	assert.Equal(t, models.DifficultyMedium, p.Difficulty)
	assert.Equal(t, 0, p.Points, "points are defaulted by the caller")
	assert.NotNil(t, p.WrongAnswers)
	assert.Empty(t, p.WrongAnswers)
	assert.Equal(t, "algebra", p.Topic)
	assert.Equal(t, []string{"2"}, p.Answer.Values())

	p.Points = models.DefaultProblemPoints
	assert.Empty(t, v.ValidateProblem(p))
}

func TestProblemValidator_ValidateBatch(t *testing.T) {
	v := newTestValidator().Problem()

	t.Run("one bad item rejects the batch with indexed fields", func(t *testing.T) {
		batch := []*models.Problem{validProblem(), validProblem(), validProblem(), validProblem()}
		batch[3].Answer = models.Answer{}

		errs := v.ValidateBatch("problems", batch)
		require.Len(t, errs, 1)
		assert.Equal(t, "problems[3].answer", errs[0].Field)
	})

	t.Run("empty batch", func(t *testing.T) {
		errs := v.ValidateBatch("problems", nil)
		require.Len(t, errs, 1)
		assert.Equal(t, "problems", errs[0].Field)
	})

	t.Run("oversized batch", func(t *testing.T) {
		batch := make([]*models.Problem, MaxBulkProblems+1)
		errs := v.ValidateBatch("problems", batch)
		require.Len(t, errs, 1)
		assert.Equal(t, "max", errs[0].Rule)
	})
}

func TestAssignmentValidator_DueDate(t *testing.T) {
	v := newTestValidator().Assignment()
	problemIDs := []string{"0b6f1f8e-8a43-4c45-9a43-2b1a3c4d5e6f"}

	tests := []struct {
		name    string
		dueDate time.Time
		wantErr bool
	}{
		{name: "one second in the future", dueDate: fixedNow.Add(time.Second)},
		{name: "exactly now", dueDate: fixedNow, wantErr: true},
		{name: "in the past", dueDate: fixedNow.Add(-time.Hour), wantErr: true},
		{name: "missing", dueDate: time.Time{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &models.Assignment{Title: "Week 1", DueDate: tt.dueDate, MaxAttempts: 1}
			errs := v.ValidateAssignment(a, problemIDs, nil)
			if tt.wantErr {
				assert.Equal(t, []string{"dueDate"}, fieldsOf(errs))
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestAssignmentValidator_References(t *testing.T) {
	v := newTestValidator().Assignment()
	a := &models.Assignment{Title: "Week 1", DueDate: fixedNow.Add(time.Hour), MaxAttempts: 1}

	errs := v.ValidateAssignment(a, nil, nil)
	assert.Equal(t, []string{"problems"}, fieldsOf(errs))

	errs = v.ValidateAssignment(a, []string{"nope"}, []string{"also-nope"})
	assert.Equal(t, []string{"problems[0]", "assignedTo[0]"}, fieldsOf(errs))

	limit := 0
	a.TimeLimit = &limit
	a.MaxAttempts = 0
	a.Title = ""
	errs = v.ValidateAssignment(a, []string{"0b6f1f8e-8a43-4c45-9a43-2b1a3c4d5e6f"}, nil)
	assert.Equal(t, []string{"title", "settings.maxAttempts", "settings.timeLimit"}, fieldsOf(errs))
}

func TestAssignmentValidator_RepeatedProblems(t *testing.T) {
	v := newTestValidator().Assignment()
	id := "0b6f1f8e-8a43-4c45-9a43-2b1a3c4d5e6f"
	other := "0b6f1f8e-8a43-4c45-9a43-2b1a3c4d5e70"

	assert.Empty(t, v.ValidateProblemIDs([]string{id, other}))

	errs := v.ValidateProblemIDs([]string{id, other, id, id})
	assert.Equal(t, []string{"problems[2]", "problems[3]"}, fieldsOf(errs))
	assert.Equal(t, "unique", errs[0].Rule)
}

func TestValidator_StructTags(t *testing.T) {
	v := newTestValidator()

	type request struct {
		Type   string `json:"type" validate:"required,problem_type"`
		Role   string `json:"role" validate:"omitempty,user_role"`
		Img    string `json:"imgUrl" validate:"omitempty,img_url"`
		Answer string `json:"userAnswer" validate:"required,not_blank"`
	}

	err := v.Validate(request{Type: "open_ended", Role: "teacher", Img: "example.com/a.png", Answer: "4"})
	assert.NoError(t, err)

	err = v.Validate(request{Type: "essay", Role: "admin", Img: "::", Answer: "   "})
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.ElementsMatch(t, []string{"type", "role", "imgUrl", "userAnswer"}, fieldsOf(errs))
	assert.Equal(t, fixedNow, v.Now())
}

func TestValidator_MaxBytes(t *testing.T) {
	v := newTestValidator()

	type request struct {
		Password string `json:"password" validate:"max=8,max_bytes=8"`
	}

	assert.NoError(t, v.Validate(request{Password: "abcdefgh"}))

	err := v.Validate(request{Password: "ééééé"})
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, []string{"password"}, fieldsOf(errs))
	assert.Equal(t, "must be at most 8 bytes", errs[0].Message)
}

func TestIsImgURL(t *testing.T) {
	assert.True(t, IsImgURL("http://example.com/a.png"))
	assert.True(t, IsImgURL("example.org"))
	assert.False(t, IsImgURL("ftp://example.com/a.png"))
	assert.False(t, IsImgURL("no-dot"))
}
