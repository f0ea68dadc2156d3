package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"gorm.io/gorm"
)

var resultSortColumns = map[string]string{
	"created_at": "results.created_at",
}

type ResultPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(),
	}
}

func (r *ResultPostgreSQL) Create(ctx context.Context, result *models.Result) error {
	if err := r.db.WithContext(ctx).Omit("User", "Problem").Create(result).Error; err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.Result, int64, error) {
	var results []*models.Result
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Result{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count results: %w", err)
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset, resultSortColumns, "results.created_at")

	if err := query.Preload("User").Preload("Problem").Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list results: %w", err)
	}

	return results, total, nil
}

// CountAttempts counts prior results for the same user and problem, scoped to
// the assignment or to practice mode when assignmentID is nil.
func (r *ResultPostgreSQL) CountAttempts(ctx context.Context, userID, problemID string, assignmentID *string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Result{}).
		Where("user_id = ? AND problem_id = ?", userID, problemID)
	if assignmentID != nil {
		query = query.Where("assignment_id = ?", *assignmentID)
	} else {
		query = query.Where("assignment_id IS NULL")
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return count, nil
}

type resultTotals struct {
	TotalAttempts   int64
	CorrectAttempts int64
	PointsEarned    int64
	TimeSpent       int64
}

func (r *ResultPostgreSQL) GetStats(ctx context.Context, userID string) (*repositories.ResultStats, error) {
	var totals resultTotals
	err := r.db.WithContext(ctx).Model(&models.Result{}).
		Select(`COUNT(*) AS total_attempts,
			COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct_attempts,
			COALESCE(SUM(points_earned), 0) AS points_earned,
			COALESCE(SUM(time_spent), 0) AS time_spent`).
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate results: %w", err)
	}

	stats := repositories.ResultStats{
		TotalAttempts:   totals.TotalAttempts,
		CorrectAttempts: totals.CorrectAttempts,
		PointsEarned:    totals.PointsEarned,
		TimeSpent:       totals.TimeSpent,
		ByTopic:         []repositories.TopicStats{},
	}

	err = r.db.WithContext(ctx).Model(&models.Result{}).
		Select(`problems.topic AS topic,
			COUNT(*) AS total_attempts,
			COALESCE(SUM(CASE WHEN results.is_correct THEN 1 ELSE 0 END), 0) AS correct_attempts,
			COALESCE(SUM(results.points_earned), 0) AS points_earned`).
		Joins("JOIN problems ON problems.id = results.problem_id").
		Where("results.user_id = ?", userID).
		Group("problems.topic").
		Order("problems.topic ASC").
		Scan(&stats.ByTopic).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate results by topic: %w", err)
	}

	return &stats, nil
}

func (r *ResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.UserID != nil {
		query = query.Where("results.user_id = ?", *filters.UserID)
	}
	if filters.ProblemID != nil {
		query = query.Where("results.problem_id = ?", *filters.ProblemID)
	}
	if filters.AssignmentID != nil {
		query = query.Where("results.assignment_id = ?", *filters.AssignmentID)
	}
	return query
}
