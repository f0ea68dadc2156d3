package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"github.com/SAP-F-2025/math-practice-service/internal/validator"
)

type assignmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    EventService
	opLogger  *ServiceLogger
	shuffle   func(n int, swap func(i, j int))
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, events EventService) AssignmentService {
	return &assignmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    events,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "assignment"}),
		shuffle:   rand.Shuffle,
	}
}

// ===== TEACHER OPERATIONS =====

func (s *assignmentService) Create(ctx context.Context, req *CreateAssignmentRequest, teacherID string) (resp *AssignmentResponse, err error) {
	s.logger.Info("Creating assignment", "teacher_id", teacherID, "title", req.Title)

	op := s.opLogger.WithOperation(ctx, "create_assignment", teacherID)
	defer func() {
		id := ""
		if resp != nil {
			id = resp.ID
		}
		op.LogResult(id, "assignment", err)
	}()

	assignment := newAssignment(req, teacherID)
	studentIDs := uniqueIDs(req.AssignedTo)

	s.validator.Assignment().Normalize(assignment)
	if errs := s.validator.Assignment().ValidateAssignment(assignment, req.Problems, studentIDs); len(errs) > 0 {
		return nil, errs
	}
	if err := s.checkStudents(ctx, studentIDs); err != nil {
		return nil, err
	}

	total, err := s.resolveTotalPoints(ctx, req.Problems)
	if err != nil {
		return nil, err
	}
	assignment.TotalPoints = total
	assignment.SetProblems(req.Problems)
	assignment.SetStudents(studentIDs)

	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := s.events.NotifyAssignmentPublished(ctx, assignment); err != nil {
		s.logger.Warn("Failed to publish assignment event", "assignment_id", assignment.ID, "error", err)
	}

	created, err := s.repo.Assignment().GetByID(ctx, assignment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created assignment: %w", err)
	}
	return newAssignmentResponse(created), nil
}

func (s *assignmentService) ListByTeacher(ctx context.Context, teacherID string, page, limit int) (*AssignmentListResponse, error) {
	p := repositories.NewPagination(page, limit)
	assignments, total, err := s.repo.Assignment().List(ctx, repositories.AssignmentFilters{
		TeacherID: &teacherID,
		Limit:     p.Limit,
		Offset:    p.Offset(),
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	items := make([]*AssignmentResponse, len(assignments))
	for i, a := range assignments {
		items[i] = newAssignmentResponse(a)
	}
	return &AssignmentListResponse{Assignments: items, Pagination: newPaginationResponse(p, total)}, nil
}

func (s *assignmentService) ReplaceProblems(ctx context.Context, id string, req *ReplaceProblemsRequest, teacherID string) (*AssignmentResponse, error) {
	assignment, err := s.getOwned(ctx, id, teacherID, "update")
	if err != nil {
		return nil, err
	}

	if errs := s.validator.Assignment().ValidateProblemIDs(req.Problems); len(errs) > 0 {
		return nil, errs
	}

	total, err := s.resolveTotalPoints(ctx, req.Problems)
	if err != nil {
		return nil, err
	}
	assignment.TotalPoints = total
	assignment.SetProblems(req.Problems)
	if err := s.repo.Assignment().ReplaceProblems(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to replace assignment problems: %w", err)
	}

	s.logger.Info("Assignment problems replaced",
		"assignment_id", id,
		"problem_count", len(req.Problems),
		"total_points", assignment.TotalPoints)

	updated, err := s.repo.Assignment().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}
	return newAssignmentResponse(updated), nil
}

func (s *assignmentService) GetResults(ctx context.Context, id, teacherID string) (*AssignmentResultsResponse, error) {
	assignment, err := s.getOwned(ctx, id, teacherID, "read")
	if err != nil {
		return nil, err
	}

	results, _, err := s.repo.Result().List(ctx, repositories.ResultFilters{
		AssignmentID: &id,
		SortBy:       "created_at",
		SortOrder:    "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignment results: %w", err)
	}

	items := make([]*ResultResponse, len(results))
	for i, r := range results {
		items[i] = newResultResponse(r, true)
	}
	return &AssignmentResultsResponse{Assignment: newAssignmentResponse(assignment), Results: items}, nil
}

// ===== STUDENT OPERATIONS =====

func (s *assignmentService) ListForStudent(ctx context.Context, studentID string, page, limit int) (*StudentAssignmentListResponse, error) {
	p := repositories.NewPagination(page, limit)
	assignments, total, err := s.repo.Assignment().List(ctx, repositories.AssignmentFilters{
		StudentID:  &studentID,
		ActiveOnly: true,
		Limit:      p.Limit,
		Offset:     p.Offset(),
		SortBy:     "due_date",
		SortOrder:  "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	items := make([]*StudentAssignmentResponse, len(assignments))
	for i, a := range assignments {
		items[i] = newStudentAssignmentResponse(a)
	}
	return &StudentAssignmentListResponse{Assignments: items, Pagination: newPaginationResponse(p, total)}, nil
}

func (s *assignmentService) GetForStudent(ctx context.Context, id, studentID string) (*StudentAssignmentDetail, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if !assignment.IsAssignedTo(studentID) {
		return nil, ErrAssignmentNotFound
	}

	problems := make([]*models.ProblemView, 0, len(assignment.Problems))
	for _, ap := range assignment.Problems {
		if ap.Problem != nil {
			problems = append(problems, ap.Problem.StudentView())
		}
	}
	if assignment.RandomizeQuestions {
		s.shuffle(len(problems), func(i, j int) {
			problems[i], problems[j] = problems[j], problems[i]
		})
	}

	results, _, err := s.repo.Result().List(ctx, repositories.ResultFilters{
		UserID:       &studentID,
		AssignmentID: &id,
		SortBy:       "created_at",
		SortOrder:    "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	items := make([]*ResultResponse, len(results))
	for i, r := range results {
		items[i] = newResultResponse(r, false)
	}

	return &StudentAssignmentDetail{
		Assignment: assignment,
		Teacher:    assignment.Teacher.Summary(),
		Problems:   problems,
		Results:    items,
	}, nil
}

// ===== DERIVED VALUES =====

// ComputeTotalPoints returns the sum of the points of the referenced problems.
// When the lookup fails or an id does not resolve it falls back to one point
// per reference.
func (s *assignmentService) ComputeTotalPoints(ctx context.Context, problemIDs []string) int {
	problems, err := s.repo.Problem().GetByIDs(ctx, problemIDs)
	if err != nil {
		s.logger.Warn("Problem lookup failed, using problem count as total points",
			"problem_count", len(problemIDs), "error", err)
		return len(problemIDs)
	}

	total, ok := models.SumPoints(problemIDs, problems)
	if !ok {
		s.logger.Warn("Unresolved problem references, using problem count as total points",
			"problem_count", len(problemIDs), "resolved", len(problems))
	}
	return total
}

// resolveTotalPoints derives totalPoints for a reference list about to be
// stored. References to unknown problems are rejected; a failed lookup still
// falls back to one point per reference.
func (s *assignmentService) resolveTotalPoints(ctx context.Context, problemIDs []string) (int, error) {
	problems, err := s.repo.Problem().GetByIDs(ctx, problemIDs)
	if err != nil {
		s.logger.Warn("Problem lookup failed, using problem count as total points",
			"problem_count", len(problemIDs), "error", err)
		return len(problemIDs), nil
	}

	found := make(map[string]struct{}, len(problems))
	for i := range problems {
		found[problems[i].ID] = struct{}{}
	}
	var errs ValidationErrors
	for i, id := range problemIDs {
		if _, ok := found[id]; !ok {
			errs = append(errs, *NewValidationError(fmt.Sprintf("problems[%d]", i), "problem not found", id))
		}
	}
	if len(errs) > 0 {
		return 0, errs
	}

	total, _ := models.SumPoints(problemIDs, problems)
	return total, nil
}

// ===== HELPERS =====

func (s *assignmentService) getOwned(ctx context.Context, id, teacherID, action string) (*models.Assignment, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment.TeacherID != teacherID {
		s.opLogger.LogPermissionDenied(ctx, action+"_assignment", NewPermissionError(teacherID, id, "assignment", action, "not the owner"))
		return nil, ErrAssignmentNotFound
	}
	return assignment, nil
}

// checkStudents makes sure every id references an existing student.
func (s *assignmentService) checkStudents(ctx context.Context, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	count, err := s.repo.User().CountByIDsAndRole(ctx, studentIDs, models.RoleStudent)
	if err != nil {
		return fmt.Errorf("failed to check students: %w", err)
	}
	if int(count) != len(studentIDs) {
		return ValidationErrors{*NewValidationError("assignedTo", "must reference existing students", nil)}
	}
	return nil
}

func newAssignment(req *CreateAssignmentRequest, teacherID string) *models.Assignment {
	a := &models.Assignment{
		Title:              req.Title,
		Description:        req.Description,
		TeacherID:          teacherID,
		DueDate:            req.DueDate,
		IsActive:           true,
		MaxAttempts:        1,
		ShowCorrectAnswers: true,
	}

	if st := req.Settings; st != nil {
		if st.AllowMultipleAttempts != nil {
			a.AllowMultipleAttempts = *st.AllowMultipleAttempts
		}
		if st.MaxAttempts != nil {
			a.MaxAttempts = *st.MaxAttempts
		}
		if st.TimeLimit != nil {
			a.TimeLimit = st.TimeLimit
		}
		if st.ShowCorrectAnswers != nil {
			a.ShowCorrectAnswers = *st.ShowCorrectAnswers
		}
		if st.RandomizeQuestions != nil {
			a.RandomizeQuestions = *st.RandomizeQuestions
		}
	}
	return a
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
