package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"github.com/SAP-F-2025/math-practice-service/internal/validator"
)

type problemService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	opLogger  *ServiceLogger
}

func NewProblemService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ProblemService {
	return &problemService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "problem"}),
	}
}

// ===== TEACHER OPERATIONS =====

func (s *problemService) Create(ctx context.Context, req *CreateProblemRequest, creatorID string) (problem *models.Problem, err error) {
	op := s.opLogger.WithOperation(ctx, "create_problem", creatorID)
	defer func() {
		id := ""
		if problem != nil {
			id = problem.ID
		}
		op.LogResult(id, "problem", err)
	}()

	problem = req.toModel(creatorID)
	s.validator.Problem().ApplyDefaults(problem)
	if errs := s.validator.Problem().ValidateProblem(problem); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Problem().Create(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}
	return problem, nil
}

func (s *problemService) BulkCreate(ctx context.Context, req *BulkCreateProblemsRequest, creatorID string) (*BulkCreateResponse, error) {
	problems := make([]*models.Problem, len(req.Problems))
	for i := range req.Problems {
		problems[i] = req.Problems[i].toModel(creatorID)
	}

	created, err := s.CreateBatch(ctx, "problems", problems)
	if err != nil {
		return nil, err
	}
	return &BulkCreateResponse{CreatedCount: len(created), Problems: created}, nil
}

func (s *problemService) CreateBatch(ctx context.Context, field string, problems []*models.Problem) (created []*models.Problem, err error) {
	creatorID := ""
	if len(problems) > 0 && problems[0] != nil {
		creatorID = problems[0].CreatedBy
	}
	op := s.opLogger.WithOperation(ctx, "create_problem_batch", creatorID)
	defer func() { op.LogResult("", "problem", err) }()

	for _, p := range problems {
		if p != nil {
			s.validator.Problem().ApplyDefaults(p)
		}
	}
	if errs := s.validator.Problem().ValidateBatch(field, problems); len(errs) > 0 {
		return nil, errs
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Problem().CreateBatch(ctx, problems)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create problems: %w", err)
	}

	s.logger.Info("Problems created", "creator_id", creatorID, "count", len(problems))
	return problems, nil
}

func (s *problemService) Update(ctx context.Context, id string, req *UpdateProblemRequest, teacherID string) (*models.Problem, error) {
	problem, err := s.getOwned(ctx, id, teacherID, "update")
	if err != nil {
		return nil, err
	}

	applyProblemUpdate(problem, req)
	s.validator.Problem().ApplyDefaults(problem)
	if errs := s.validator.Problem().ValidateProblem(problem); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Problem().Update(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}

	s.logger.Info("Problem updated", "problem_id", problem.ID, "teacher_id", teacherID)
	return problem, nil
}

func (s *problemService) Deactivate(ctx context.Context, id, teacherID string) error {
	problem, err := s.getOwned(ctx, id, teacherID, "delete")
	if err != nil {
		return err
	}
	if !problem.IsActive {
		return nil
	}

	problem.IsActive = false
	if err := s.repo.Problem().Update(ctx, problem); err != nil {
		return fmt.Errorf("failed to deactivate problem: %w", err)
	}

	s.logger.Info("Problem deactivated", "problem_id", problem.ID, "teacher_id", teacherID)
	return nil
}

func (s *problemService) ListByTeacher(ctx context.Context, teacherID string, params ProblemListParams) (*ProblemListResponse, error) {
	filters, page, err := problemFilters(params)
	if err != nil {
		return nil, err
	}
	filters.CreatedBy = &teacherID

	problems, total, err := s.repo.Problem().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}

	return &ProblemListResponse{
		Problems:   nonNilProblems(problems),
		Pagination: newPaginationResponse(page, total),
	}, nil
}

// ===== CATALOGUE =====

func (s *problemService) ListActive(ctx context.Context, params ProblemListParams) (*ProblemCatalogResponse, error) {
	filters, page, err := problemFilters(params)
	if err != nil {
		return nil, err
	}
	filters.ActiveOnly = true

	problems, total, err := s.repo.Problem().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}

	views := make([]*models.ProblemView, len(problems))
	for i, p := range problems {
		views[i] = p.StudentView()
	}
	return &ProblemCatalogResponse{
		Problems:   views,
		Pagination: newPaginationResponse(page, total),
	}, nil
}

func (s *problemService) GetActive(ctx context.Context, id string) (*models.ProblemView, error) {
	problem, err := s.repo.Problem().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	if !problem.IsActive {
		return nil, ErrProblemNotFound
	}
	return problem.StudentView(), nil
}

func (s *problemService) GetTopics(ctx context.Context) ([]string, error) {
	topics, err := s.repo.Problem().GetTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get topics: %w", err)
	}
	if topics == nil {
		topics = []string{}
	}
	return topics, nil
}

// ===== HELPERS =====

// getOwned loads a problem for a mutation by its creator. Problems owned by
// someone else are reported as missing.
func (s *problemService) getOwned(ctx context.Context, id, teacherID, action string) (*models.Problem, error) {
	problem, err := s.repo.Problem().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	if problem.CreatedBy != teacherID {
		s.opLogger.LogPermissionDenied(ctx, action+"_problem", NewPermissionError(teacherID, id, "problem", action, "not the owner"))
		return nil, ErrProblemNotFound
	}
	return problem, nil
}

func applyProblemUpdate(p *models.Problem, req *UpdateProblemRequest) {
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.Topic != nil {
		p.Topic = *req.Topic
	}
	if req.Question != nil {
		p.Question = *req.Question
	}
	if req.Answer != nil {
		p.Answer = *req.Answer
	}
	if req.WrongAnswers != nil {
		p.WrongAnswers = *req.WrongAnswers
	}
	if req.Img != nil {
		if strings.TrimSpace(*req.Img) == "" {
			p.Img = nil
		} else {
			p.Img = req.Img
		}
	}
	if req.ImgURL != nil {
		p.ImgURL = req.ImgURL
	}
	if req.Difficulty != nil {
		p.Difficulty = *req.Difficulty
	}
	if req.Points != nil {
		p.Points = *req.Points
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}

func problemFilters(params ProblemListParams) (repositories.ProblemFilters, repositories.Pagination, error) {
	page := repositories.NewPagination(params.Page, params.Limit)
	filters := repositories.ProblemFilters{
		Limit:     page.Limit,
		Offset:    page.Offset(),
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	var errs ValidationErrors
	if topic := strings.TrimSpace(params.Topic); topic != "" {
		filters.Topic = &topic
	}
	if params.Difficulty != "" {
		if !validator.IsDifficultyLevel(params.Difficulty) {
			errs = append(errs, *NewValidationError("difficulty", "must be one of: easy, medium, hard", params.Difficulty))
		} else {
			d := models.DifficultyLevel(params.Difficulty)
			filters.Difficulty = &d
		}
	}
	if params.Type != "" {
		if !validator.IsProblemType(params.Type) {
			errs = append(errs, *NewValidationError("type", "must be one of: multiple_choice, open_ended, true_false, fill_blank", params.Type))
		} else {
			t := models.ProblemType(params.Type)
			filters.Type = &t
		}
	}
	if len(errs) > 0 {
		return filters, page, errs
	}
	return filters, page, nil
}

func nonNilProblems(problems []*models.Problem) []*models.Problem {
	if problems == nil {
		return []*models.Problem{}
	}
	return problems
}
