package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProblemType string

const (
	ProblemMultipleChoice ProblemType = "multiple_choice"
	ProblemOpenEnded      ProblemType = "open_ended"
	ProblemTrueFalse      ProblemType = "true_false"
	ProblemFillBlank      ProblemType = "fill_blank"
)

var ProblemTypes = []ProblemType{
	ProblemMultipleChoice,
	ProblemOpenEnded,
	ProblemTrueFalse,
	ProblemFillBlank,
}

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

var DifficultyLevels = []DifficultyLevel{
	DifficultyEasy,
	DifficultyMedium,
	DifficultyHard,
}

const (
	MinProblemPoints     = 1
	MaxProblemPoints     = 10
	DefaultProblemPoints = 1
	DefaultDifficulty    = DifficultyMedium
)

type Problem struct {
	ID           string                      `json:"id" gorm:"type:uuid;primaryKey"`
	Type         ProblemType                 `json:"type" gorm:"not null;size:20;index:idx_problems_topic_type,priority:2"`
	Topic        string                      `json:"topic" gorm:"not null;size:100;index:idx_problems_topic_type,priority:1"`
	Question     string                      `json:"question" gorm:"not null;type:text"`
	Answer       Answer                      `json:"answer" gorm:"not null;type:jsonb"`
	WrongAnswers datatypes.JSONSlice[string] `json:"wrongAnswers" gorm:"type:jsonb"`
	Img          *string                     `json:"img,omitempty" gorm:"size:500"`
	ImgURL       *string                     `json:"imgUrl,omitempty" gorm:"column:img_url;size:500"`
	CreatedBy    string                      `json:"createdBy" gorm:"type:uuid;not null;index"`
	Difficulty   DifficultyLevel             `json:"difficulty" gorm:"not null;size:10"`
	Points       int                         `json:"points" gorm:"not null"`
	IsActive     bool                        `json:"isActive" gorm:"not null;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Creator *User `json:"-" gorm:"foreignKey:CreatedBy"`
}

func (Problem) TableName() string {
	return "problems"
}

func (p *Problem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.WrongAnswers == nil {
		p.WrongAnswers = datatypes.JSONSlice[string]{}
	}
	return nil
}

// EffectivePoints is the weight a problem contributes to an assignment total.
func (p *Problem) EffectivePoints() int {
	if p.Points <= 0 {
		return 1
	}
	return p.Points
}

// ProblemSummary is the projection joined into assignment and result listings.
type ProblemSummary struct {
	ID         string          `json:"id"`
	Type       ProblemType     `json:"type,omitempty"`
	Question   string          `json:"question"`
	Topic      string          `json:"topic"`
	Difficulty DifficultyLevel `json:"difficulty"`
	Points     int             `json:"points"`
}

func (p *Problem) Summary() *ProblemSummary {
	if p == nil {
		return nil
	}
	return &ProblemSummary{
		ID:         p.ID,
		Type:       p.Type,
		Question:   p.Question,
		Topic:      p.Topic,
		Difficulty: p.Difficulty,
		Points:     p.Points,
	}
}

// ProblemView is what a student sees: everything except the answer key.
type ProblemView struct {
	ID         string          `json:"id"`
	Type       ProblemType     `json:"type"`
	Topic      string          `json:"topic"`
	Question   string          `json:"question"`
	Img        *string         `json:"img,omitempty"`
	ImgURL     *string         `json:"imgUrl,omitempty"`
	Difficulty DifficultyLevel `json:"difficulty"`
	Points     int             `json:"points"`
	Choices    []string        `json:"choices,omitempty"`
}

func (p *Problem) StudentView() *ProblemView {
	view := &ProblemView{
		ID:         p.ID,
		Type:       p.Type,
		Topic:      p.Topic,
		Question:   p.Question,
		Img:        p.Img,
		ImgURL:     p.ImgURL,
		Difficulty: p.Difficulty,
		Points:     p.Points,
	}
	if p.Type == ProblemMultipleChoice || p.Type == ProblemTrueFalse {
		view.Choices = p.Choices()
	}
	return view
}

// Choices merges acceptable and wrong answers into a sorted, de-duplicated list.
func (p *Problem) Choices() []string {
	seen := make(map[string]struct{})
	var choices []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		choices = append(choices, v)
	}
	for _, v := range p.Answer.Values() {
		add(v)
	}
	for _, v := range p.WrongAnswers {
		add(v)
	}
	sort.Strings(choices)
	return choices
}
