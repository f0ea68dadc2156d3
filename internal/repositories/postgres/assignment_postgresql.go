package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var assignmentSortColumns = map[string]string{
	"created_at": "created_at",
	"due_date":   "due_date",
	"title":      "title",
}

type AssignmentPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(),
	}
}

// Create creates the assignment row followed by its reference rows.
func (a *AssignmentPostgreSQL) Create(ctx context.Context, assignment *models.Assignment) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(assignment).Error; err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		assignment.SetProblems(assignment.ProblemIDs())
		if len(assignment.Problems) > 0 {
			if err := tx.Omit(clause.Associations).Create(&assignment.Problems).Error; err != nil {
				return fmt.Errorf("failed to create assignment problems: %w", err)
			}
		}

		assignment.SetStudents(assignment.StudentIDs())
		if len(assignment.Students) > 0 {
			if err := tx.Omit(clause.Associations).Create(&assignment.Students).Error; err != nil {
				return fmt.Errorf("failed to create assignment students: %w", err)
			}
		}
		return nil
	})
}

func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := a.withDetails(a.db.WithContext(ctx)).Where("id = ?", id).First(&assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to get assignment %s: %w", id, err)
	}
	return &assignment, nil
}

// GetByIDForUpdate locks the assignment row (SELECT ... FOR UPDATE) so that
// concurrent submissions against it are serialized.
func (a *AssignmentPostgreSQL) GetByIDForUpdate(ctx context.Context, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := a.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock assignment %s: %w", id, err)
	}

	// references are loaded separately; FOR UPDATE must not apply to them
	if err := a.db.WithContext(ctx).Where("assignment_id = ?", id).Order("position ASC").Find(&assignment.Problems).Error; err != nil {
		return nil, fmt.Errorf("failed to load assignment problems: %w", err)
	}
	if err := a.db.WithContext(ctx).Where("assignment_id = ?", id).Find(&assignment.Students).Error; err != nil {
		return nil, fmt.Errorf("failed to load assignment students: %w", err)
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) List(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	var assignments []*models.Assignment
	var total int64

	query := a.db.WithContext(ctx).Model(&models.Assignment{})
	query = a.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	query = a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset, assignmentSortColumns, "created_at")

	if err := a.withDetails(query).Find(&assignments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, total, nil
}

// ReplaceProblems swaps the problem references and persists TotalPoints.
func (a *AssignmentPostgreSQL) ReplaceProblems(ctx context.Context, assignment *models.Assignment) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", assignment.ID).Delete(&models.AssignmentProblem{}).Error; err != nil {
			return fmt.Errorf("failed to clear assignment problems: %w", err)
		}

		assignment.SetProblems(assignment.ProblemIDs())
		if len(assignment.Problems) > 0 {
			if err := tx.Omit(clause.Associations).Create(&assignment.Problems).Error; err != nil {
				return fmt.Errorf("failed to create assignment problems: %w", err)
			}
		}

		if err := tx.Model(&models.Assignment{}).
			Where("id = ?", assignment.ID).
			Update("total_points", assignment.TotalPoints).Error; err != nil {
			return fmt.Errorf("failed to update total points: %w", err)
		}
		return nil
	})
}

func (a *AssignmentPostgreSQL) FindByTeacherAndTitle(ctx context.Context, teacherID, title string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := a.withDetails(a.db.WithContext(ctx)).
		Where("teacher_id = ? AND title = ?", teacherID, title).
		First(&assignment).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) withDetails(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Teacher").
		Preload("Problems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Problems.Problem").
		Preload("Students").
		Preload("Students.Student")
}

func (a *AssignmentPostgreSQL) applyFilters(query *gorm.DB, filters repositories.AssignmentFilters) *gorm.DB {
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.StudentID != nil {
		assigned := a.db.Model(&models.AssignmentStudent{}).
			Select("assignment_id").
			Where("student_id = ?", *filters.StudentID)
		query = query.Where("id IN (?)", assigned)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	return query
}
