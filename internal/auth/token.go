package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

const issuer = "math-practice-service"

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	errTokenSigningFailed = errors.New("failed to sign token")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

// TokenManager issues and verifies HS256 tokens.
type TokenManager struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, expiration time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

func (m *TokenManager) Expiration() time.Duration {
	return m.expiration
}

// GenerateToken generates a signed JWT token string for the user.
func (m *TokenManager) GenerateToken(user *models.User) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errTokenSigningFailed, err)
	}
	return signed, nil
}

// ParseToken verifies the signature and expiry of a token and returns the
// identity it carries.
func (m *TokenManager) ParseToken(tokenString string) (*Identity, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}
