package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"gorm.io/gorm"
)

// ===== AGGREGATE =====

// Repository groups the entity repositories behind one transaction boundary.
type Repository interface {
	User() UserRepository
	Problem() ProblemRepository
	Assignment() AssignmentRepository
	Result() ResultRepository

	// WithTransaction runs fn against repositories bound to a single
	// transaction; returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// ===== SHARED FILTER STRUCTS =====

type ProblemFilters struct {
	CreatedBy  *string                 `json:"createdBy"`
	Topic      *string                 `json:"topic"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	Type       *models.ProblemType     `json:"type"`
	ActiveOnly bool                    `json:"activeOnly"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
	SortBy     string                  `json:"sortBy"`    // "created_at", "topic", "points"
	SortOrder  string                  `json:"sortOrder"` // "asc", "desc"
}

type AssignmentFilters struct {
	TeacherID  *string `json:"teacherId"`
	StudentID  *string `json:"studentId"`
	ActiveOnly bool    `json:"activeOnly"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	SortBy     string  `json:"sortBy"` // "created_at", "due_date", "title"
	SortOrder  string  `json:"sortOrder"`
}

type ResultFilters struct {
	UserID       *string `json:"userId"`
	ProblemID    *string `json:"problemId"`
	AssignmentID *string `json:"assignmentId"`
	Limit        int     `json:"limit"` // 0 means unpaginated
	Offset       int     `json:"offset"`
	SortBy       string  `json:"sortBy"` // "created_at"
	SortOrder    string  `json:"sortOrder"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ResultStats struct {
	TotalAttempts   int64        `json:"totalAttempts"`
	CorrectAttempts int64        `json:"correctAttempts"`
	PointsEarned    int64        `json:"pointsEarned"`
	TimeSpent       int64        `json:"timeSpent"`
	ByTopic         []TopicStats `json:"byTopic"`
}

type TopicStats struct {
	Topic           string `json:"topic"`
	TotalAttempts   int64  `json:"totalAttempts"`
	CorrectAttempts int64  `json:"correctAttempts"`
	PointsEarned    int64  `json:"pointsEarned"`
}

// ===== ENTITY REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)

	// Role-based queries
	GetStudents(ctx context.Context) ([]*models.User, error)
	CountByIDsAndRole(ctx context.Context, ids []string, role models.UserRole) (int64, error)
}

type ProblemRepository interface {
	Create(ctx context.Context, problem *models.Problem) error
	CreateBatch(ctx context.Context, problems []*models.Problem) error
	GetByID(ctx context.Context, id string) (*models.Problem, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Problem, error)
	Update(ctx context.Context, problem *models.Problem) error

	List(ctx context.Context, filters ProblemFilters) ([]*models.Problem, int64, error)
	GetTopics(ctx context.Context) ([]string, error)
	FindByCreatorAndQuestion(ctx context.Context, creatorID, question string) (*models.Problem, error)
}

type AssignmentRepository interface {
	// Create stores the assignment together with its problem and student references.
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	// GetByIDForUpdate loads the assignment with a row lock; only meaningful
	// inside WithTransaction.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Assignment, error)
	List(ctx context.Context, filters AssignmentFilters) ([]*models.Assignment, int64, error)
	ReplaceProblems(ctx context.Context, assignment *models.Assignment) error
	FindByTeacherAndTitle(ctx context.Context, teacherID, title string) (*models.Assignment, error)
}

type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	List(ctx context.Context, filters ResultFilters) ([]*models.Result, int64, error)
	CountAttempts(ctx context.Context, userID, problemID string, assignmentID *string) (int64, error)
	GetStats(ctx context.Context, userID string) (*ResultStats, error)
}

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
