package auth

import (
	"errors"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
)

var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrForbidden       = errors.New("access denied: teacher role required")
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID   string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

// CheckIdentity fails with ErrUnauthenticated when there is no caller.
func CheckIdentity(id *Identity) error {
	if id == nil || id.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// CheckRole fails with ErrUnauthenticated when there is no caller and with
// ErrForbidden when the caller's role differs from role.
func CheckRole(id *Identity, role models.UserRole) error {
	if err := CheckIdentity(id); err != nil {
		return err
	}
	if id.Role != role {
		return ErrForbidden
	}
	return nil
}
