package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/math-practice-service/internal/auth"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	// IdentityKey holds the *auth.Identity of the caller on the gin context.
	IdentityKey = "identity"
	// UserIDKey holds the caller's user id on the gin context.
	UserIDKey = "user_id"

	bearerPrefix = "Bearer "
)

const (
	MessageUnauthenticated = "User not authenticated"
	MessageTeacherRequired = "Access denied. Teacher role required."
)

// Authenticate attaches the identity carried by a valid bearer token. It
// never rejects a request; the gates below decide what an absent identity
// means for a route.
func Authenticate(tokens *auth.TokenManager, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}

		identity, err := tokens.ParseToken(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			logger.Debug("Ignoring invalid bearer token", "path", c.Request.URL.Path, "error", err)
			c.Next()
			return
		}

		c.Set(IdentityKey, identity)
		c.Set(UserIDKey, identity.UserID)
		c.Next()
	}
}

// RequireIdentity aborts with 401 unless Authenticate attached an identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.CheckIdentity(GetIdentity(c)); err != nil {
			abortWithAuthError(c, err)
			return
		}
		c.Next()
	}
}

// RequireRole aborts with 401 without an identity and 403 when the caller
// has a different role.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.CheckRole(GetIdentity(c), role); err != nil {
			abortWithAuthError(c, err)
			return
		}
		c.Next()
	}
}

// GetIdentity returns the caller attached by Authenticate, or nil.
func GetIdentity(c *gin.Context) *auth.Identity {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*auth.Identity)
	return identity
}

func abortWithAuthError(c *gin.Context, err error) {
	if errors.Is(err, auth.ErrForbidden) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": MessageTeacherRequired,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": MessageUnauthenticated,
	})
}
