package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/events"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"github.com/SAP-F-2025/math-practice-service/internal/validator"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testValidator() *validator.Validator {
	return validator.New(validator.WithClock(func() time.Time { return testNow }))
}

// MockRepository implements the repository aggregate over mocked entity
// repositories. Transactions run the callback against the same mocks.
type MockRepository struct {
	users       *MockUserRepository
	problems    *MockProblemRepository
	assignments *MockAssignmentRepository
	results     *MockResultRepository
	txCount     int
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		users:       &MockUserRepository{},
		problems:    &MockProblemRepository{},
		assignments: &MockAssignmentRepository{},
		results:     &MockResultRepository{},
	}
}

func (m *MockRepository) User() repositories.UserRepository             { return m.users }
func (m *MockRepository) Problem() repositories.ProblemRepository       { return m.problems }
func (m *MockRepository) Assignment() repositories.AssignmentRepository { return m.assignments }
func (m *MockRepository) Result() repositories.ResultRepository         { return m.results }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	m.txCount++
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

func (m *MockRepository) assertExpectations(t mock.TestingT) {
	m.users.AssertExpectations(t)
	m.problems.AssertExpectations(t)
	m.assignments.AssertExpectations(t)
	m.results.AssertExpectations(t)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetStudents(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) CountByIDsAndRole(ctx context.Context, ids []string, role models.UserRole) (int64, error) {
	args := m.Called(ctx, ids, role)
	return args.Get(0).(int64), args.Error(1)
}

// MockProblemRepository is a mock implementation of ProblemRepository
type MockProblemRepository struct {
	mock.Mock
}

func (m *MockProblemRepository) Create(ctx context.Context, problem *models.Problem) error {
	args := m.Called(ctx, problem)
	return args.Error(0)
}

func (m *MockProblemRepository) CreateBatch(ctx context.Context, problems []*models.Problem) error {
	args := m.Called(ctx, problems)
	return args.Error(0)
}

func (m *MockProblemRepository) GetByID(ctx context.Context, id string) (*models.Problem, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Problem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProblemRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Problem, error) {
	args := m.Called(ctx, ids)
	if p := args.Get(0); p != nil {
		return p.([]models.Problem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProblemRepository) Update(ctx context.Context, problem *models.Problem) error {
	args := m.Called(ctx, problem)
	return args.Error(0)
}

func (m *MockProblemRepository) List(ctx context.Context, filters repositories.ProblemFilters) ([]*models.Problem, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Problem), args.Get(1).(int64), args.Error(2)
}

func (m *MockProblemRepository) GetTopics(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProblemRepository) FindByCreatorAndQuestion(ctx context.Context, creatorID, question string) (*models.Problem, error) {
	args := m.Called(ctx, creatorID, question)
	if p := args.Get(0); p != nil {
		return p.(*models.Problem), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAssignmentRepository is a mock implementation of AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Assignment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssignmentRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Assignment, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Assignment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssignmentRepository) List(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Assignment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssignmentRepository) ReplaceProblems(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) FindByTeacherAndTitle(ctx context.Context, teacherID, title string) (*models.Assignment, error) {
	args := m.Called(ctx, teacherID, title)
	if a := args.Get(0); a != nil {
		return a.(*models.Assignment), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockResultRepository is a mock implementation of ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, result *models.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Result, int64, error) {
	args := m.Called(ctx, filters)
	if page, ok := args.Get(0).(func(repositories.ResultFilters) []*models.Result); ok {
		return page(filters), args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Result), args.Get(1).(int64), args.Error(2)
}

func (m *MockResultRepository) CountAttempts(ctx context.Context, userID, problemID string, assignmentID *string) (int64, error) {
	args := m.Called(ctx, userID, problemID, assignmentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResultRepository) GetStats(ctx context.Context, userID string) (*repositories.ResultStats, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.(*repositories.ResultStats), args.Error(1)
	}
	return nil, args.Error(1)
}

// newTestEvents returns an event service backed by an in-memory publisher.
func newTestEvents() (EventService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	return NewEventService(publisher, testLogger()), publisher
}

// repositoriesNotFound mimics the wrapped error the postgres repositories return.
func repositoriesNotFound() error {
	return fmt.Errorf("failed to get record: %w", gorm.ErrRecordNotFound)
}
