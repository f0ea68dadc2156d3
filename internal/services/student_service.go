package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/math-practice-service/internal/cache"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
)

type studentService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  cache.CacheService
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, cacheService cache.CacheService) StudentService {
	return &studentService{
		repo:   repo,
		logger: logger,
		cache:  cacheService,
	}
}

// ListStudents returns every student ordered by username.
func (s *studentService) ListStudents(ctx context.Context) ([]*models.UserSummary, error) {
	var cached []*models.UserSummary
	err := s.cache.Get(ctx, cache.StudentsKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Failed to read students cache", "error", err)
	}

	students, err := s.repo.User().GetStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	summaries := make([]*models.UserSummary, len(students))
	for i, u := range students {
		summaries[i] = u.Summary()
	}

	if err := s.cache.Set(ctx, cache.StudentsKey, summaries, cache.StudentsTTL); err != nil {
		s.logger.Warn("Failed to cache students", "error", err)
	}
	return summaries, nil
}
