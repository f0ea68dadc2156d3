package services

import (
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
)

// ===== SHARED =====

type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func newPaginationResponse(p repositories.Pagination, total int64) PaginationResponse {
	return PaginationResponse{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: p.Pages(total),
	}
}

// ===== AUTH =====

type RegisterRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=50"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=6,max=72,max_bytes=72"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"` // seconds
	User      *models.User `json:"user"`
}

// ===== PROBLEMS =====

type CreateProblemRequest struct {
	Type         models.ProblemType     `json:"type"`
	Topic        string                 `json:"topic"`
	Question     string                 `json:"question"`
	Answer       models.Answer          `json:"answer"`
	WrongAnswers []string               `json:"wrongAnswers"`
	Img          *string                `json:"img"`
	ImgURL       *string                `json:"imgUrl"`
	Difficulty   models.DifficultyLevel `json:"difficulty"`
	Points       *int                   `json:"points"`
}

// toModel builds the problem; points default to 1 when absent.
func (r *CreateProblemRequest) toModel(creatorID string) *models.Problem {
	points := models.DefaultProblemPoints
	if r.Points != nil {
		points = *r.Points
	}
	return &models.Problem{
		Type:         r.Type,
		Topic:        r.Topic,
		Question:     r.Question,
		Answer:       r.Answer,
		WrongAnswers: r.WrongAnswers,
		Img:          r.Img,
		ImgURL:       r.ImgURL,
		CreatedBy:    creatorID,
		Difficulty:   r.Difficulty,
		Points:       points,
		IsActive:     true,
	}
}

type BulkCreateProblemsRequest struct {
	Problems []CreateProblemRequest `json:"problems"`
}

type UpdateProblemRequest struct {
	Type         *models.ProblemType     `json:"type"`
	Topic        *string                 `json:"topic"`
	Question     *string                 `json:"question"`
	Answer       *models.Answer          `json:"answer"`
	WrongAnswers *[]string               `json:"wrongAnswers"`
	Img          *string                 `json:"img"`
	ImgURL       *string                 `json:"imgUrl"`
	Difficulty   *models.DifficultyLevel `json:"difficulty"`
	Points       *int                    `json:"points"`
	IsActive     *bool                   `json:"isActive"`
}

type ProblemListParams struct {
	Page       int
	Limit      int
	Topic      string
	Difficulty string
	Type       string
}

type ProblemListResponse struct {
	Problems   []*models.Problem  `json:"problems"`
	Pagination PaginationResponse `json:"pagination"`
}

type ProblemCatalogResponse struct {
	Problems   []*models.ProblemView `json:"problems"`
	Pagination PaginationResponse    `json:"pagination"`
}

type BulkCreateResponse struct {
	CreatedCount int               `json:"createdCount"`
	Problems     []*models.Problem `json:"problems"`
}

// ===== ASSIGNMENTS =====

type AssignmentSettings struct {
	AllowMultipleAttempts *bool `json:"allowMultipleAttempts"`
	MaxAttempts           *int  `json:"maxAttempts"`
	TimeLimit             *int  `json:"timeLimit"`
	ShowCorrectAnswers    *bool `json:"showCorrectAnswers"`
	RandomizeQuestions    *bool `json:"randomizeQuestions"`
}

type CreateAssignmentRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Problems    []string            `json:"problems"`
	AssignedTo  []string            `json:"assignedTo"`
	DueDate     time.Time           `json:"dueDate"`
	Settings    *AssignmentSettings `json:"settings"`
}

type ReplaceProblemsRequest struct {
	Problems []string `json:"problems"`
}

// AssignmentResponse is the teacher's view of an assignment.
type AssignmentResponse struct {
	*models.Assignment
	Problems   []*models.ProblemSummary `json:"problems"`
	AssignedTo []*models.UserSummary    `json:"assignedTo"`
}

type AssignmentListResponse struct {
	Assignments []*AssignmentResponse `json:"assignments"`
	Pagination  PaginationResponse    `json:"pagination"`
}

// StudentAssignmentResponse is an assignment as listed for a student.
type StudentAssignmentResponse struct {
	*models.Assignment
	Teacher  *models.UserSummary      `json:"teacher"`
	Problems []*models.ProblemSummary `json:"problems"`
}

type StudentAssignmentListResponse struct {
	Assignments []*StudentAssignmentResponse `json:"assignments"`
	Pagination  PaginationResponse           `json:"pagination"`
}

type StudentAssignmentDetail struct {
	*models.Assignment
	Teacher  *models.UserSummary   `json:"teacher"`
	Problems []*models.ProblemView `json:"problems"`
	Results  []*ResultResponse     `json:"results"`
}

type AssignmentResultsResponse struct {
	Assignment *AssignmentResponse `json:"assignment"`
	Results    []*ResultResponse   `json:"results"`
}

// ===== RESULTS =====

type SubmitResultRequest struct {
	ProblemID    string  `json:"problemId" validate:"required,uuid"`
	UserAnswer   string  `json:"userAnswer" validate:"required,not_blank,max=1000"`
	AssignmentID *string `json:"assignmentId" validate:"omitempty,uuid"`
	TimeSpent    *int    `json:"timeSpent" validate:"omitempty,min=0"`
	Comment      *string `json:"comment" validate:"omitempty,max=1000"`
}

type SubmitResultResponse struct {
	Result            *models.Result `json:"result"`
	IsCorrect         bool           `json:"isCorrect"`
	PointsEarned      int            `json:"pointsEarned"`
	AttemptNumber     int            `json:"attemptNumber"`
	AttemptsRemaining *int           `json:"attemptsRemaining,omitempty"`
	CorrectAnswer     *models.Answer `json:"correctAnswer,omitempty"`
}

type ResultListParams struct {
	Page         int
	Limit        int
	AssignmentID string `json:"assignmentId" validate:"omitempty,uuid"`
}

type ResultResponse struct {
	*models.Result
	Problem *models.ProblemSummary `json:"problem,omitempty"`
	Student *models.UserSummary    `json:"student,omitempty"`
}

type ResultListResponse struct {
	Results    []*ResultResponse  `json:"results"`
	Pagination PaginationResponse `json:"pagination"`
}

type TopicStatsResponse struct {
	Topic           string  `json:"topic"`
	TotalAttempts   int64   `json:"totalAttempts"`
	CorrectAttempts int64   `json:"correctAttempts"`
	Accuracy        float64 `json:"accuracy"`
	PointsEarned    int64   `json:"pointsEarned"`
}

type StatsResponse struct {
	TotalAttempts    int64                `json:"totalAttempts"`
	CorrectAttempts  int64                `json:"correctAttempts"`
	Accuracy         float64              `json:"accuracy"`
	PointsEarned     int64                `json:"pointsEarned"`
	TotalTimeSpent   int64                `json:"totalTimeSpent"`
	AverageTimeSpent float64              `json:"averageTimeSpent"`
	ByTopic          []TopicStatsResponse `json:"byTopic"`
}

// ===== PROJECTIONS =====

func newResultResponse(r *models.Result, withStudent bool) *ResultResponse {
	resp := &ResultResponse{Result: r, Problem: teacherProblemSummary(r.Problem)}
	if withStudent {
		resp.Student = r.User.Summary()
	}
	return resp
}

// teacherProblemSummary omits the problem type.
func teacherProblemSummary(p *models.Problem) *models.ProblemSummary {
	summary := p.Summary()
	if summary != nil {
		summary.Type = ""
	}
	return summary
}

func newAssignmentResponse(a *models.Assignment) *AssignmentResponse {
	resp := &AssignmentResponse{
		Assignment: a,
		Problems:   make([]*models.ProblemSummary, 0, len(a.Problems)),
		AssignedTo: make([]*models.UserSummary, 0, len(a.Students)),
	}
	for _, ap := range a.Problems {
		if ap.Problem != nil {
			resp.Problems = append(resp.Problems, teacherProblemSummary(ap.Problem))
		}
	}
	for _, as := range a.Students {
		if as.Student != nil {
			resp.AssignedTo = append(resp.AssignedTo, as.Student.Summary())
		}
	}
	return resp
}

func newStudentAssignmentResponse(a *models.Assignment) *StudentAssignmentResponse {
	resp := &StudentAssignmentResponse{
		Assignment: a,
		Teacher:    a.Teacher.Summary(),
		Problems:   make([]*models.ProblemSummary, 0, len(a.Problems)),
	}
	for _, ap := range a.Problems {
		if ap.Problem != nil {
			resp.Problems = append(resp.Problems, ap.Problem.Summary())
		}
	}
	return resp
}
