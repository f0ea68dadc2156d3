package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SAP-F-2025/math-practice-service/internal/auth"
	"github.com/SAP-F-2025/math-practice-service/internal/middleware"
	"github.com/SAP-F-2025/math-practice-service/internal/models"
	"github.com/SAP-F-2025/math-practice-service/internal/services"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const serviceName = "math-practice-service"

// ServiceProvider exposes the services the handlers depend on.
// *services.ServiceManager implements it.
type ServiceProvider interface {
	Auth() services.AuthService
	Problem() services.ProblemService
	Assignment() services.AssignmentService
	Result() services.ResultService
	Student() services.StudentService
	ImportExport() services.ImportExportService
}

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type HandlerManager struct {
	authHandler       *AuthHandler
	problemHandler    *ProblemHandler
	assignmentHandler *AssignmentHandler
	resultHandler     *ResultHandler
	studentHandler    *StudentHandler

	health HealthChecker
	tokens *auth.TokenManager
	logger utils.Logger
}

func NewHandlerManager(
	serviceManager ServiceProvider,
	health HealthChecker,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		problemHandler:    NewProblemHandler(serviceManager.Problem(), serviceManager.ImportExport(), logger),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignment(), serviceManager.ImportExport(), logger),
		resultHandler:     NewResultHandler(serviceManager.Result(), logger),
		studentHandler:    NewStudentHandler(serviceManager.Student(), logger),
		health:            health,
		tokens:            tokens,
		logger:            logger,
	}
}

// NewRouter builds the engine with the global middleware chain and all routes.
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(hm.logger),
		utils.ContextLogger(hm.logger),
		utils.LoggerMiddleware(hm.logger),
		middleware.Authenticate(hm.tokens, hm.logger),
	)

	hm.SetupRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{Success: false, Message: "Route not found"})
	})
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/login", hm.authHandler.Login)
			authRoutes.GET("/me", middleware.RequireIdentity(), hm.authHandler.Me)
		}

		problems := api.Group("/problems", middleware.RequireIdentity())
		{
			problems.GET("", hm.problemHandler.ListProblems)
			problems.GET("/topics", hm.problemHandler.GetTopics)
			problems.GET("/:id", hm.problemHandler.GetProblem)
		}

		assignments := api.Group("/assignments", middleware.RequireIdentity())
		{
			assignments.GET("", hm.assignmentHandler.ListStudentAssignments)
			assignments.GET("/:id", hm.assignmentHandler.GetStudentAssignment)
		}

		results := api.Group("/results", middleware.RequireIdentity())
		{
			results.POST("", hm.resultHandler.SubmitResult)
			results.GET("/me", hm.resultHandler.ListMyResults)
			results.GET("/stats", hm.resultHandler.GetMyStats)
		}

		teacher := api.Group("/teacher", middleware.RequireIdentity(), middleware.RequireRole(models.RoleTeacher))
		{
			teacher.POST("/problems", hm.problemHandler.CreateProblem)
			teacher.GET("/problems", hm.problemHandler.ListTeacherProblems)
			teacher.POST("/problems/bulk", hm.problemHandler.BulkCreateProblems)
			teacher.POST("/problems/import", hm.problemHandler.ImportProblems)
			teacher.PUT("/problems/:id", hm.problemHandler.UpdateProblem)
			teacher.DELETE("/problems/:id", hm.problemHandler.DeleteProblem)

			teacher.POST("/assignments", hm.assignmentHandler.CreateAssignment)
			teacher.GET("/assignments", hm.assignmentHandler.ListTeacherAssignments)
			teacher.PUT("/assignments/:id/problems", hm.assignmentHandler.ReplaceProblems)
			teacher.GET("/assignments/:id/results", hm.assignmentHandler.GetAssignmentResults)
			teacher.GET("/assignments/:id/results/export", hm.assignmentHandler.ExportAssignmentResults)

			teacher.GET("/students", hm.studentHandler.ListStudents)
		}
	}
}

// HealthCheck reports service and database status
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	data := gin.H{
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  "up",
	}

	if err := hm.health.Ping(ctx); err != nil {
		hm.logger.Warn("Health check failed", "error", err)
		data["database"] = "down"
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "Math Practice API is degraded",
			Data:    data,
			Error:   "database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Math Practice API is running",
		Data:    data,
	})
}
