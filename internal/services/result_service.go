package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/SAP-F-2025/math-practice-service/internal/cache"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"github.com/SAP-F-2025/math-practice-service/internal/validator"
)

type resultService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     cache.CacheService
	events    EventService
	scorer    Scorer
	opLogger  *ServiceLogger
}

func NewResultService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	cacheService cache.CacheService,
	events EventService,
	scorer Scorer,
) ResultService {
	return &resultService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		cache:     cacheService,
		events:    events,
		scorer:    scorer,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "result"}),
	}
}

// Submit scores an answer and records it. Inside an assignment the
// assignment row is locked while prior attempts are counted, so concurrent
// submissions cannot both pass the attempt limit.
func (s *resultService) Submit(ctx context.Context, req *SubmitResultRequest, userID string) (resp *SubmitResultResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "submit_result", userID)
	defer func() {
		id := ""
		if resp != nil {
			id = resp.Result.ID
		}
		op.LogResult(id, "result", err)
	}()

	req.UserAnswer = strings.TrimSpace(req.UserAnswer)
	if req.AssignmentID != nil && strings.TrimSpace(*req.AssignmentID) == "" {
		req.AssignmentID = nil
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	problem, err := s.repo.Problem().GetByID(ctx, req.ProblemID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	if !problem.IsActive {
		return nil, ErrProblemNotFound
	}

	correct := s.scorer.Score(problem, req.UserAnswer)
	result := &models.Result{
		UserID:       userID,
		ProblemID:    problem.ID,
		AssignmentID: req.AssignmentID,
		UserAnswer:   req.UserAnswer,
		IsCorrect:    correct,
		Comment:      req.Comment,
	}
	if req.TimeSpent != nil {
		result.TimeSpent = *req.TimeSpent
	}
	if correct {
		result.PointsEarned = problem.Points
	}

	var assignment *models.Assignment
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if req.AssignmentID != nil {
			a, err := s.lockAssignment(ctx, tx, *req.AssignmentID, userID, problem.ID)
			if err != nil {
				return err
			}
			assignment = a
		}

		prior, err := tx.Result().CountAttempts(ctx, userID, problem.ID, req.AssignmentID)
		if err != nil {
			return fmt.Errorf("failed to count attempts: %w", err)
		}
		if assignment != nil && int(prior) >= assignment.AttemptLimit() {
			return ErrAttemptLimitExceeded
		}

		result.AttemptNumber = int(prior) + 1
		if err := tx.Result().Create(ctx, result); err != nil {
			return fmt.Errorf("failed to create result: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cache.UserStatsKey(userID)); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "user_id", userID, "error", err)
	}
	if err := s.events.NotifyResultSubmitted(ctx, result); err != nil {
		s.logger.Warn("Failed to publish result event", "result_id", result.ID, "error", err)
	}

	resp = &SubmitResultResponse{
		Result:        result,
		IsCorrect:     result.IsCorrect,
		PointsEarned:  result.PointsEarned,
		AttemptNumber: result.AttemptNumber,
	}
	if assignment == nil || assignment.ShowCorrectAnswers {
		answer := problem.Answer
		resp.CorrectAnswer = &answer
	}
	if assignment != nil {
		remaining := assignment.AttemptLimit() - result.AttemptNumber
		resp.AttemptsRemaining = &remaining
	}
	return resp, nil
}

func (s *resultService) lockAssignment(ctx context.Context, tx repositories.Repository, assignmentID, userID, problemID string) (*models.Assignment, error) {
	a, err := tx.Assignment().GetByIDForUpdate(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if !a.IsAssignedTo(userID) {
		return nil, ErrAssignmentNotFound
	}
	if !a.IsActive || a.IsPastDue(s.validator.Now()) {
		return nil, ErrAssignmentClosed
	}
	if !a.HasProblem(problemID) {
		return nil, ValidationErrors{*NewValidationError("problemId", "is not part of this assignment", problemID)}
	}
	return a, nil
}

func (s *resultService) ListByUser(ctx context.Context, userID string, params ResultListParams) (*ResultListResponse, error) {
	params.AssignmentID = strings.TrimSpace(params.AssignmentID)
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	p := repositories.NewPagination(params.Page, params.Limit)
	filters := repositories.ResultFilters{
		UserID:    &userID,
		Limit:     p.Limit,
		Offset:    p.Offset(),
		SortBy:    "created_at",
		SortOrder: "desc",
	}
	if params.AssignmentID != "" {
		filters.AssignmentID = &params.AssignmentID
	}

	results, total, err := s.repo.Result().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	items := make([]*ResultResponse, len(results))
	for i, r := range results {
		items[i] = newResultResponse(r, false)
	}
	return &ResultListResponse{Results: items, Pagination: newPaginationResponse(p, total)}, nil
}

func (s *resultService) GetStats(ctx context.Context, userID string) (*StatsResponse, error) {
	key := cache.UserStatsKey(userID)

	var cached StatsResponse
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Failed to read stats cache", "user_id", userID, "error", err)
	}

	stats, err := s.repo.Result().GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	resp := newStatsResponse(stats)
	if err := s.cache.Set(ctx, key, resp, cache.StatsTTL); err != nil {
		s.logger.Warn("Failed to cache stats", "user_id", userID, "error", err)
	}
	return resp, nil
}

func newStatsResponse(stats *repositories.ResultStats) *StatsResponse {
	resp := &StatsResponse{
		TotalAttempts:   stats.TotalAttempts,
		CorrectAttempts: stats.CorrectAttempts,
		Accuracy:        percentage(stats.CorrectAttempts, stats.TotalAttempts),
		PointsEarned:    stats.PointsEarned,
		TotalTimeSpent:  stats.TimeSpent,
		ByTopic:         make([]TopicStatsResponse, len(stats.ByTopic)),
	}
	if stats.TotalAttempts > 0 {
		resp.AverageTimeSpent = round2(float64(stats.TimeSpent) / float64(stats.TotalAttempts))
	}
	for i, t := range stats.ByTopic {
		resp.ByTopic[i] = TopicStatsResponse{
			Topic:           t.Topic,
			TotalAttempts:   t.TotalAttempts,
			CorrectAttempts: t.CorrectAttempts,
			Accuracy:        percentage(t.CorrectAttempts, t.TotalAttempts),
			PointsEarned:    t.PointsEarned,
		}
	}
	return resp
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
