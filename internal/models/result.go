package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Result struct {
	ID            string  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        string  `json:"userId" gorm:"type:uuid;not null;index:idx_results_user_problem_assignment,priority:1;index:idx_results_user_created,priority:1"`
	ProblemID     string  `json:"problemId" gorm:"type:uuid;not null;index;index:idx_results_user_problem_assignment,priority:2"`
	AssignmentID  *string `json:"assignmentId,omitempty" gorm:"type:uuid;index;index:idx_results_user_problem_assignment,priority:3"`
	UserAnswer    string  `json:"userAnswer" gorm:"not null;type:text"`
	IsCorrect     bool    `json:"isCorrect" gorm:"not null"`
	Comment       *string `json:"comment,omitempty" gorm:"type:text"`
	TimeSpent     int     `json:"timeSpent" gorm:"not null"`
	AttemptNumber int     `json:"attemptNumber" gorm:"not null"`
	PointsEarned  int     `json:"pointsEarned" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_results_user_created,priority:2"`
	UpdatedAt time.Time `json:"updatedAt"`

	User    *User    `json:"-" gorm:"foreignKey:UserID"`
	Problem *Problem `json:"-" gorm:"foreignKey:ProblemID"`
}

func (Result) TableName() string {
	return "results"
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// InAssignment reports whether the result was recorded inside an assignment
// rather than in practice mode.
func (r *Result) InAssignment() bool {
	return r.AssignmentID != nil && *r.AssignmentID != ""
}
