package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed repositories.Repository.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{db: db}
}

func (r *Repository) User() repositories.UserRepository {
	return NewUserPostgreSQL(r.db)
}

func (r *Repository) Problem() repositories.ProblemRepository {
	return NewProblemPostgreSQL(r.db)
}

func (r *Repository) Assignment() repositories.AssignmentRepository {
	return NewAssignmentPostgreSQL(r.db)
}

func (r *Repository) Result() repositories.ResultRepository {
	return NewResultPostgreSQL(r.db)
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database pool: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database pool: %w", err)
	}
	return sqlDB.Close()
}
