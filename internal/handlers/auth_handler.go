package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/math-practice-service/internal/services"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Register creates an account and returns a token for it
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param user body services.RegisterRequest true "Account data"
// @Success 201 {object} Response{data=services.AuthResponse}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondInvalidPayload(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "User registered successfully", resp)
}

// Login exchanges credentials for a token
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Credentials"
// @Success 200 {object} Response{data=services.AuthResponse}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Logging in")

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondInvalidPayload(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Login successful", resp)
}

// Me returns the caller's profile
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} Response{data=models.User}
// @Failure 401 {object} Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "User retrieved successfully", user)
}
