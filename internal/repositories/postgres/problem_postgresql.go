package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"gorm.io/gorm"
)

const problemBatchSize = 100

var problemSortColumns = map[string]string{
	"created_at": "created_at",
	"topic":      "topic",
	"points":     "points",
	"difficulty": "difficulty",
}

type ProblemPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewProblemPostgreSQL(db *gorm.DB) repositories.ProblemRepository {
	return &ProblemPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(),
	}
}

func (p *ProblemPostgreSQL) Create(ctx context.Context, problem *models.Problem) error {
	if err := p.db.WithContext(ctx).Create(problem).Error; err != nil {
		return fmt.Errorf("failed to create problem: %w", err)
	}
	return nil
}

// CreateBatch inserts all problems or none.
func (p *ProblemPostgreSQL) CreateBatch(ctx context.Context, problems []*models.Problem) error {
	if len(problems) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(problems, problemBatchSize).Error; err != nil {
			return fmt.Errorf("failed to create problems: %w", err)
		}
		return nil
	})
}

func (p *ProblemPostgreSQL) GetByID(ctx context.Context, id string) (*models.Problem, error) {
	var problem models.Problem
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&problem).Error; err != nil {
		return nil, fmt.Errorf("failed to get problem %s: %w", id, err)
	}
	return &problem, nil
}

func (p *ProblemPostgreSQL) GetByIDs(ctx context.Context, ids []string) ([]models.Problem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var problems []models.Problem
	if err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&problems).Error; err != nil {
		return nil, fmt.Errorf("failed to get problems: %w", err)
	}
	return problems, nil
}

func (p *ProblemPostgreSQL) Update(ctx context.Context, problem *models.Problem) error {
	if err := p.db.WithContext(ctx).Save(problem).Error; err != nil {
		return fmt.Errorf("failed to update problem: %w", err)
	}
	return nil
}

func (p *ProblemPostgreSQL) List(ctx context.Context, filters repositories.ProblemFilters) ([]*models.Problem, int64, error) {
	var problems []*models.Problem
	var total int64

	// apply filter first
	query := p.db.WithContext(ctx).Model(&models.Problem{})
	query = p.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count problems: %w", err)
	}

	// then apply pagination and sorting
	query = p.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset, problemSortColumns, "created_at")

	if err := query.Find(&problems).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list problems: %w", err)
	}

	return problems, total, nil
}

func (p *ProblemPostgreSQL) GetTopics(ctx context.Context) ([]string, error) {
	var topics []string
	err := p.db.WithContext(ctx).Model(&models.Problem{}).
		Where("is_active = ?", true).
		Distinct("topic").
		Order("topic ASC").
		Pluck("topic", &topics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

func (p *ProblemPostgreSQL) FindByCreatorAndQuestion(ctx context.Context, creatorID, question string) (*models.Problem, error) {
	var problem models.Problem
	err := p.db.WithContext(ctx).
		Where("created_by = ? AND question = ?", creatorID, question).
		First(&problem).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find problem: %w", err)
	}
	return &problem, nil
}

func (p *ProblemPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ProblemFilters) *gorm.DB {
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.Topic != nil {
		query = query.Where("topic = ?", *filters.Topic)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	return query
}
