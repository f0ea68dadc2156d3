package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// GetStudents lists every student ordered by username.
func (u *UserPostgreSQL) GetStudents(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := u.db.WithContext(ctx).
		Where("role = ?", models.RoleStudent).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return users, nil
}

func (u *UserPostgreSQL) CountByIDsAndRole(ctx context.Context, ids []string, role models.UserRole) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN ? AND role = ?", ids, role).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
