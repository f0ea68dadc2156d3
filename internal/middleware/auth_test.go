package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/auth"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatedRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(utils.NewNopLogger()), Authenticate(tokens, utils.NewNopLogger()))

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "user_id": c.GetString(UserIDKey)})
	}
	router.GET("/open", ok)
	router.GET("/me", RequireIdentity(), ok)
	router.GET("/teacher", RequireIdentity(), RequireRole(models.RoleTeacher), ok)
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	return router
}

func TestAuthGates(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := newGatedRouter(tokens)

	token := func(role models.UserRole) string {
		signed, err := tokens.GenerateToken(&models.User{ID: "u-" + string(role), Username: "x", Email: "x@example.com", Role: role})
		require.NoError(t, err)
		return "Bearer " + signed
	}

	tests := []struct {
		name        string
		path        string
		auth        string
		wantStatus  int
		wantMessage string
	}{
		{name: "open route without token", path: "/open", wantStatus: http.StatusOK},
		{name: "invalid token is ignored on open route", path: "/open", auth: "Bearer garbage", wantStatus: http.StatusOK},
		{name: "identity gate without token", path: "/me", wantStatus: http.StatusUnauthorized, wantMessage: MessageUnauthenticated},
		{name: "identity gate with invalid token", path: "/me", auth: "Bearer garbage", wantStatus: http.StatusUnauthorized, wantMessage: MessageUnauthenticated},
		{name: "identity gate with student", path: "/me", auth: token(models.RoleStudent), wantStatus: http.StatusOK},
		{name: "role gate without token", path: "/teacher", wantStatus: http.StatusUnauthorized, wantMessage: MessageUnauthenticated},
		{name: "role gate with student", path: "/teacher", auth: token(models.RoleStudent), wantStatus: http.StatusForbidden, wantMessage: MessageTeacherRequired},
		{name: "role gate with teacher", path: "/teacher", auth: token(models.RoleTeacher), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantMessage != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantMessage, body["message"])
			}
		})
	}
}

func TestAuthenticate_SetsUserID(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := newGatedRouter(tokens)
	signed, err := tokens.GenerateToken(&models.User{ID: "teacher-1", Username: "t", Email: "t@example.com", Role: models.RoleTeacher})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/teacher", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.JSONEq(t, `{"success":true,"user_id":"teacher-1"}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	router := newGatedRouter(auth.NewTokenManager("test-secret", time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
}
