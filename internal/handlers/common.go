package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/math-practice-service/internal/auth"
	"github.com/SAP-F-2025/math-practice-service/internal/middleware"
	"github.com/SAP-F-2025/math-practice-service/internal/services"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// Response is the envelope of every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ValidationErrorData carries field errors of a 400 response.
type ValidationErrorData struct {
	Errors services.ValidationErrors `json:"errors"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"remote_addr", c.ClientIP(),
		"user_id", h.extractUserID(c),
	}
	fields = append(fields, additionalFields...)

	h.requestLogger(c).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"user_id", h.extractUserID(c),
	}
	fields = append(fields, additionalFields...)

	h.requestLogger(c).LogError(err, message, fields...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"user_id", h.extractUserID(c),
	}
	fields = append(fields, additionalFields...)

	h.requestLogger(c).Warn(message, fields...)
}

// Helper method to extract user ID from context
func (h *BaseHandler) extractUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// requestLogger already carries request_id, method and path.
func (h *BaseHandler) requestLogger(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger.With(
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	))
}

// currentUserID returns the caller's id. Routes using it sit behind the
// identity gate; the check here only guards against miswiring.
func (h *BaseHandler) currentUserID(c *gin.Context) (string, bool) {
	userID := h.extractUserID(c)
	if userID == "" {
		h.RespondWithError(c, http.StatusUnauthorized, middleware.MessageUnauthenticated, nil)
		return "", false
	}
	return userID, true
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, data ...interface{}) {
	resp := Response{
		Success: false,
		Message: message,
	}
	if len(data) > 0 {
		resp.Data = data[0]
	}

	if statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		if err != nil {
			resp.Error = err.Error()
		}
		h.LogWarn(c, message, "status_code", statusCode, "error", err)
	}

	c.JSON(statusCode, resp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondInvalidPayload reports a body that could not be decoded.
func (h *BaseHandler) respondInvalidPayload(c *gin.Context, err error) {
	h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", nil, ValidationErrorData{Errors: validationErrors})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, "Access denied", err)
		return
	}

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		h.RespondWithError(c, http.StatusUnauthorized, middleware.MessageUnauthenticated, nil)
	case errors.Is(err, auth.ErrForbidden):
		h.RespondWithError(c, http.StatusForbidden, middleware.MessageTeacherRequired, nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		h.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password", nil)

	case errors.Is(err, services.ErrUserNotFound):
		h.RespondWithError(c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, services.ErrProblemNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Problem not found", nil)
	case errors.Is(err, services.ErrAssignmentNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Assignment not found", nil)

	case errors.Is(err, services.ErrUserExists):
		h.RespondWithError(c, http.StatusConflict, "User with this email or username already exists", nil)
	case errors.Is(err, services.ErrAttemptLimitExceeded):
		h.RespondWithError(c, http.StatusConflict, "Maximum attempts reached for this problem", nil)
	case errors.Is(err, services.ErrAssignmentClosed):
		h.RespondWithError(c, http.StatusConflict, "Assignment is no longer accepting submissions", nil)

	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err)
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusUnauthorized, middleware.MessageUnauthenticated, nil)
	case services.IsForbidden(err):
		h.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", nil)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, "Conflict", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
