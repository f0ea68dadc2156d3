package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/math-practice-service/internal/auth"
	"github.com/SAP-F-2025/math-practice-service/internal/cache"
	"github.com/SAP-F-2025/math-practice-service/internal/events"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"github.com/SAP-F-2025/math-practice-service/internal/validator"
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type ProblemService interface {
	// Teacher operations
	Create(ctx context.Context, req *CreateProblemRequest, creatorID string) (*models.Problem, error)
	BulkCreate(ctx context.Context, req *BulkCreateProblemsRequest, creatorID string) (*BulkCreateResponse, error)
	// CreateBatch validates every problem and stores all of them or none.
	// field prefixes item errors, e.g. "problems[3].answer".
	CreateBatch(ctx context.Context, field string, problems []*models.Problem) ([]*models.Problem, error)
	Update(ctx context.Context, id string, req *UpdateProblemRequest, teacherID string) (*models.Problem, error)
	Deactivate(ctx context.Context, id, teacherID string) error
	ListByTeacher(ctx context.Context, teacherID string, params ProblemListParams) (*ProblemListResponse, error)

	// Catalogue
	ListActive(ctx context.Context, params ProblemListParams) (*ProblemCatalogResponse, error)
	GetActive(ctx context.Context, id string) (*models.ProblemView, error)
	GetTopics(ctx context.Context) ([]string, error)
}

type AssignmentService interface {
	Create(ctx context.Context, req *CreateAssignmentRequest, teacherID string) (*AssignmentResponse, error)
	ListByTeacher(ctx context.Context, teacherID string, page, limit int) (*AssignmentListResponse, error)
	ReplaceProblems(ctx context.Context, id string, req *ReplaceProblemsRequest, teacherID string) (*AssignmentResponse, error)
	GetResults(ctx context.Context, id, teacherID string) (*AssignmentResultsResponse, error)

	ListForStudent(ctx context.Context, studentID string, page, limit int) (*StudentAssignmentListResponse, error)
	GetForStudent(ctx context.Context, id, studentID string) (*StudentAssignmentDetail, error)

	// ComputeTotalPoints sums the points of the referenced problems.
	ComputeTotalPoints(ctx context.Context, problemIDs []string) int
}

type ResultService interface {
	Submit(ctx context.Context, req *SubmitResultRequest, userID string) (*SubmitResultResponse, error)
	ListByUser(ctx context.Context, userID string, params ResultListParams) (*ResultListResponse, error)
	GetStats(ctx context.Context, userID string) (*StatsResponse, error)
}

type StudentService interface {
	ListStudents(ctx context.Context) ([]*models.UserSummary, error)
}

type ImportExportService interface {
	ImportProblems(ctx context.Context, fileName string, r io.Reader, creatorID string) (*models.ImportSummary, error)
	ExportAssignmentResults(ctx context.Context, assignmentID, teacherID string, w io.Writer) (string, error)
}

// ServiceManager wires every service against one repository aggregate.
type ServiceManager struct {
	auth         AuthService
	problem      ProblemService
	assignment   AssignmentService
	result       ResultService
	student      StudentService
	importExport ImportExportService
}

func NewServiceManager(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	cacheService cache.CacheService,
	eventPublisher events.EventPublisher,
	tokens *auth.TokenManager,
) *ServiceManager {
	eventService := NewEventService(eventPublisher, logger)
	problemService := NewProblemService(repo, logger, validator)
	assignmentService := NewAssignmentService(repo, logger, validator, eventService)

	return &ServiceManager{
		auth:         NewAuthService(repo, logger, validator, tokens, cacheService),
		problem:      problemService,
		assignment:   assignmentService,
		result:       NewResultService(repo, logger, validator, cacheService, eventService, NewNormalizedScorer()),
		student:      NewStudentService(repo, logger, cacheService),
		importExport: NewImportExportService(repo, logger, problemService),
	}
}

func (m *ServiceManager) Auth() AuthService                 { return m.auth }
func (m *ServiceManager) Problem() ProblemService           { return m.problem }
func (m *ServiceManager) Assignment() AssignmentService     { return m.assignment }
func (m *ServiceManager) Result() ResultService             { return m.result }
func (m *ServiceManager) Student() StudentService           { return m.student }
func (m *ServiceManager) ImportExport() ImportExportService { return m.importExport }
