package postgres

import (
	"fmt"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Problem{},
		&models.Assignment{},
		&models.AssignmentProblem{},
		&models.AssignmentStudent{},
		&models.Result{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
