package handlers

import (
	"context"
	"io"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/services"
	"github.com/stretchr/testify/mock"
)

type mockServices struct {
	auth         *MockAuthService
	problem      *MockProblemService
	assignment   *MockAssignmentService
	result       *MockResultService
	student      *MockStudentService
	importExport *MockImportExportService
}

func newMockServices() *mockServices {
	return &mockServices{
		auth:         &MockAuthService{},
		problem:      &MockProblemService{},
		assignment:   &MockAssignmentService{},
		result:       &MockResultService{},
		student:      &MockStudentService{},
		importExport: &MockImportExportService{},
	}
}

func (m *mockServices) Auth() services.AuthService                 { return m.auth }
func (m *mockServices) Problem() services.ProblemService           { return m.problem }
func (m *mockServices) Assignment() services.AssignmentService     { return m.assignment }
func (m *mockServices) Result() services.ResultService             { return m.result }
func (m *mockServices) Student() services.StudentService           { return m.student }
func (m *mockServices) ImportExport() services.ImportExportService { return m.importExport }

type fakeHealth struct{ err error }

func (f fakeHealth) Ping(context.Context) error { return f.err }

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*services.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*services.AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockProblemService is a mock implementation of ProblemService
type MockProblemService struct {
	mock.Mock
}

func (m *MockProblemService) Create(ctx context.Context, req *services.CreateProblemRequest, creatorID string) (*models.Problem, error) {
	args := m.Called(ctx, req, creatorID)
	if p := args.Get(0); p != nil {
		return p.(*models.Problem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProblemService) BulkCreate(ctx context.Context, req *services.BulkCreateProblemsRequest, creatorID string) (*services.BulkCreateResponse, error) {
	args := m.Called(ctx, req, creatorID)
	if r := args.Get(0); r != nil {
		return r.(*services.BulkCreateResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProblemService) CreateBatch(ctx context.Context, field string, problems []*models.Problem) ([]*models.Problem, error) {
	args := m.Called(ctx, field, problems)
	if p := args.Get(0); p != nil {
		return p.([]*models.Problem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProblemService) Update(ctx context.Context, id string, req *services.UpdateProblemRequest, teacherID string) (*models.Problem, error) {
	args := m.Called(ctx, id, req, teacherID)
	if p := args.Get(0); p != nil {
		return p.(*models.Problem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProblemService) Deactivate(ctx context.Context, id, teacherID string) error {
	args := m.Called(ctx, id, teacherID)
	return args.Error(0)
}

func (m *MockProblemService) ListByTeacher(ctx context.Context, teacherID string, params services.ProblemListParams) (*services.ProblemListResponse, error) {
	args := m.Called(ctx, teacherID, params)
	if r := args.Get(0); r != nil {
		return r.(*services.ProblemListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProblemService) ListActive(ctx context.Context, params services.ProblemListParams) (*services.ProblemCatalogResponse, error) {
	args := m.Called(ctx, params)
	if r := args.Get(0); r != nil {
		return r.(*services.ProblemCatalogResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProblemService) GetActive(ctx context.Context, id string) (*models.ProblemView, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.ProblemView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProblemService) GetTopics(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

// MockAssignmentService is a mock implementation of AssignmentService
type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) Create(ctx context.Context, req *services.CreateAssignmentRequest, teacherID string) (*services.AssignmentResponse, error) {
	args := m.Called(ctx, req, teacherID)
	if r := args.Get(0); r != nil {
		return r.(*services.AssignmentResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssignmentService) ListByTeacher(ctx context.Context, teacherID string, page, limit int) (*services.AssignmentListResponse, error) {
	args := m.Called(ctx, teacherID, page, limit)
	if r := args.Get(0); r != nil {
		return r.(*services.AssignmentListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssignmentService) ReplaceProblems(ctx context.Context, id string, req *services.ReplaceProblemsRequest, teacherID string) (*services.AssignmentResponse, error) {
	args := m.Called(ctx, id, req, teacherID)
	if r := args.Get(0); r != nil {
		return r.(*services.AssignmentResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssignmentService) GetResults(ctx context.Context, id, teacherID string) (*services.AssignmentResultsResponse, error) {
	args := m.Called(ctx, id, teacherID)
	if r := args.Get(0); r != nil {
		return r.(*services.AssignmentResultsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssignmentService) ListForStudent(ctx context.Context, studentID string, page, limit int) (*services.StudentAssignmentListResponse, error) {
	args := m.Called(ctx, studentID, page, limit)
	if r := args.Get(0); r != nil {
		return r.(*services.StudentAssignmentListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssignmentService) GetForStudent(ctx context.Context, id, studentID string) (*services.StudentAssignmentDetail, error) {
	args := m.Called(ctx, id, studentID)
	if r := args.Get(0); r != nil {
		return r.(*services.StudentAssignmentDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssignmentService) ComputeTotalPoints(ctx context.Context, problemIDs []string) int {
	args := m.Called(ctx, problemIDs)
	return args.Int(0)
}

// MockResultService is a mock implementation of ResultService
type MockResultService struct {
	mock.Mock
}

func (m *MockResultService) Submit(ctx context.Context, req *services.SubmitResultRequest, userID string) (*services.SubmitResultResponse, error) {
	args := m.Called(ctx, req, userID)
	if r := args.Get(0); r != nil {
		return r.(*services.SubmitResultResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResultService) ListByUser(ctx context.Context, userID string, params services.ResultListParams) (*services.ResultListResponse, error) {
	args := m.Called(ctx, userID, params)
	if r := args.Get(0); r != nil {
		return r.(*services.ResultListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockResultService) GetStats(ctx context.Context, userID string) (*services.StatsResponse, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.(*services.StatsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockStudentService is a mock implementation of StudentService
type MockStudentService struct {
	mock.Mock
}

func (m *MockStudentService) ListStudents(ctx context.Context) ([]*models.UserSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.UserSummary), args.Error(1)
}

// MockImportExportService is a mock implementation of ImportExportService
type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ImportProblems(ctx context.Context, fileName string, r io.Reader, creatorID string) (*models.ImportSummary, error) {
	args := m.Called(ctx, fileName, r, creatorID)
	if s := args.Get(0); s != nil {
		return s.(*models.ImportSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockImportExportService) ExportAssignmentResults(ctx context.Context, assignmentID, teacherID string, w io.Writer) (string, error) {
	args := m.Called(ctx, assignmentID, teacherID, w)
	return args.String(0), args.Error(1)
}
