package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

type User struct {
	ID           string   `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string   `json:"username" gorm:"not null;size:50;uniqueIndex"`
	Email        string   `json:"email" gorm:"not null;size:255;uniqueIndex"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserSummary is the abbreviated projection joined into other entities.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}
