package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxAssignmentTitleLength       = 200
	MaxAssignmentDescriptionLength = 1000
)

type Assignment struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	Description string    `json:"description" gorm:"size:1000"`
	TeacherID   string    `json:"teacherId" gorm:"type:uuid;not null;index:idx_assignments_teacher_created,priority:1"`
	DueDate     time.Time `json:"dueDate" gorm:"not null;index"`
	IsActive    bool      `json:"isActive" gorm:"not null;index"`

	// Settings
	AllowMultipleAttempts bool `json:"allowMultipleAttempts" gorm:"not null"`
	MaxAttempts           int  `json:"maxAttempts" gorm:"not null"`
	TimeLimit             *int `json:"timeLimit,omitempty"`
	ShowCorrectAnswers    bool `json:"showCorrectAnswers" gorm:"not null"`
	RandomizeQuestions    bool `json:"randomizeQuestions" gorm:"not null"`

	TotalPoints int `json:"totalPoints" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_assignments_teacher_created,priority:2"`
	UpdatedAt time.Time `json:"updatedAt"`

	Teacher  *User               `json:"-" gorm:"foreignKey:TeacherID"`
	Problems []AssignmentProblem `json:"-" gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
	Students []AssignmentStudent `json:"-" gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
}

func (Assignment) TableName() string {
	return "assignments"
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AttemptLimit is the number of results a student may record per problem.
func (a *Assignment) AttemptLimit() int {
	if !a.AllowMultipleAttempts {
		return 1
	}
	if a.MaxAttempts < 1 {
		return 1
	}
	return a.MaxAttempts
}

func (a *Assignment) IsPastDue(now time.Time) bool {
	return !now.Before(a.DueDate)
}

// ProblemIDs returns the referenced problem ids in assignment order.
func (a *Assignment) ProblemIDs() []string {
	ids := make([]string, len(a.Problems))
	for i, p := range a.Problems {
		ids[i] = p.ProblemID
	}
	return ids
}

func (a *Assignment) StudentIDs() []string {
	ids := make([]string, len(a.Students))
	for i, s := range a.Students {
		ids[i] = s.StudentID
	}
	return ids
}

func (a *Assignment) HasProblem(problemID string) bool {
	for _, p := range a.Problems {
		if p.ProblemID == problemID {
			return true
		}
	}
	return false
}

func (a *Assignment) IsAssignedTo(studentID string) bool {
	for _, s := range a.Students {
		if s.StudentID == studentID {
			return true
		}
	}
	return false
}

// SetProblems replaces the ordered problem references.
func (a *Assignment) SetProblems(problemIDs []string) {
	a.Problems = make([]AssignmentProblem, len(problemIDs))
	for i, id := range problemIDs {
		a.Problems[i] = AssignmentProblem{AssignmentID: a.ID, ProblemID: id, Position: i}
	}
}

func (a *Assignment) SetStudents(studentIDs []string) {
	a.Students = make([]AssignmentStudent, len(studentIDs))
	for i, id := range studentIDs {
		a.Students[i] = AssignmentStudent{AssignmentID: a.ID, StudentID: id}
	}
}

// AssignmentProblem keeps the ordered problem list of an assignment.
type AssignmentProblem struct {
	AssignmentID string `gorm:"type:uuid;primaryKey"`
	Position     int    `gorm:"primaryKey;autoIncrement:false"`
	ProblemID    string `gorm:"type:uuid;not null;index"`

	Problem *Problem `gorm:"foreignKey:ProblemID"`
}

func (AssignmentProblem) TableName() string {
	return "assignment_problems"
}

type AssignmentStudent struct {
	AssignmentID string `gorm:"type:uuid;primaryKey"`
	StudentID    string `gorm:"type:uuid;primaryKey;index"`

	Student *User `gorm:"foreignKey:StudentID"`
}

func (AssignmentStudent) TableName() string {
	return "assignment_students"
}
