package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/math-practice-service/internal/auth"
	"github.com/SAP-F-2025/math-practice-service/internal/cache"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/repositories"
	"github.com/SAP-F-2025/math-practice-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	cache     cache.CacheService
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, tokens *auth.TokenManager, cacheService cache.CacheService) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		cache:     cacheService,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.User().ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if user.Role == models.RoleStudent {
		if err := s.cache.Delete(ctx, cache.StudentsKey); err != nil {
			s.logger.Warn("Failed to invalidate students cache", "error", err)
		}
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) issue(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.Expiration().Seconds()),
		User:      user,
	}, nil
}
