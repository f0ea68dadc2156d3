package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/math-practice-service/internal/services"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// maxImportSize bounds multipart uploads of problem files.
const maxImportSize = 10 << 20

type ProblemHandler struct {
	BaseHandler
	problemService services.ProblemService
	importService  services.ImportExportService
}

func NewProblemHandler(
	problemService services.ProblemService,
	importService services.ImportExportService,
	logger utils.Logger,
) *ProblemHandler {
	return &ProblemHandler{
		BaseHandler:    NewBaseHandler(logger),
		problemService: problemService,
		importService:  importService,
	}
}

// ===== TEACHER ENDPOINTS =====

// CreateProblem creates a problem owned by the caller
// @Summary Create problem
// @Tags teacher
// @Accept json
// @Produce json
// @Param problem body services.CreateProblemRequest true "Problem data"
// @Success 201 {object} Response{data=models.Problem}
// @Failure 400 {object} Response
// @Router /teacher/problems [post]
func (h *ProblemHandler) CreateProblem(c *gin.Context) {
	h.LogRequest(c, "Creating problem")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondInvalidPayload(c, err)
		return
	}

	problem, err := h.problemService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Problem created successfully", problem)
}

// BulkCreateProblems stores every problem of the body or none of them
// @Summary Bulk create problems
// @Tags teacher
// @Accept json
// @Produce json
// @Param problems body services.BulkCreateProblemsRequest true "Problems"
// @Success 201 {object} Response{data=services.BulkCreateResponse}
// @Failure 400 {object} Response
// @Router /teacher/problems/bulk [post]
func (h *ProblemHandler) BulkCreateProblems(c *gin.Context) {
	h.LogRequest(c, "Bulk creating problems")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.BulkCreateProblemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondInvalidPayload(c, err)
		return
	}

	resp, err := h.problemService.BulkCreate(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, fmt.Sprintf("%d problems uploaded successfully", resp.CreatedCount), resp)
}

// ImportProblems creates problems from an uploaded .xlsx or .csv file
// @Summary Import problems
// @Tags teacher
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet"
// @Success 201 {object} Response{data=models.ImportSummary}
// @Failure 400 {object} Response
// @Router /teacher/problems/import [post]
func (h *ProblemHandler) ImportProblems(c *gin.Context) {
	h.LogRequest(c, "Importing problems")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportProblems(c.Request.Context(), fileHeader.Filename, file, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, fmt.Sprintf("%d problems imported successfully", summary.CreatedCount), summary)
}

// ListTeacherProblems lists the caller's problems
// @Summary List own problems
// @Tags teacher
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param topic query string false "Topic"
// @Param difficulty query string false "Difficulty level"
// @Param type query string false "Problem type"
// @Success 200 {object} Response{data=services.ProblemListResponse}
// @Router /teacher/problems [get]
func (h *ProblemHandler) ListTeacherProblems(c *gin.Context) {
	h.LogRequest(c, "Listing teacher problems")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.problemService.ListByTeacher(c.Request.Context(), userID, parseProblemListParams(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Problems retrieved successfully", resp)
}

// UpdateProblem partially updates an owned problem
// @Summary Update problem
// @Tags teacher
// @Accept json
// @Produce json
// @Param id path string true "Problem ID"
// @Param problem body services.UpdateProblemRequest true "Changed fields"
// @Success 200 {object} Response{data=models.Problem}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /teacher/problems/{id} [put]
func (h *ProblemHandler) UpdateProblem(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Updating problem", "problem_id", id)

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondInvalidPayload(c, err)
		return
	}

	problem, err := h.problemService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Problem updated successfully", problem)
}

// DeleteProblem deactivates an owned problem
// @Summary Delete problem
// @Tags teacher
// @Produce json
// @Param id path string true "Problem ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /teacher/problems/{id} [delete]
func (h *ProblemHandler) DeleteProblem(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deactivating problem", "problem_id", id)

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.problemService.Deactivate(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Problem deleted successfully", nil)
}

// ===== CATALOGUE ENDPOINTS =====

// ListProblems lists active problems without answer keys
// @Summary List problems
// @Tags problems
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} Response{data=services.ProblemCatalogResponse}
// @Router /problems [get]
func (h *ProblemHandler) ListProblems(c *gin.Context) {
	resp, err := h.problemService.ListActive(c.Request.Context(), parseProblemListParams(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Problems retrieved successfully", resp)
}

// GetTopics lists the distinct topics of active problems
// @Summary List topics
// @Tags problems
// @Produce json
// @Success 200 {object} Response{data=[]string}
// @Router /problems/topics [get]
func (h *ProblemHandler) GetTopics(c *gin.Context) {
	topics, err := h.problemService.GetTopics(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Topics retrieved successfully", topics)
}

// GetProblem returns one active problem without its answer key
// @Summary Get problem
// @Tags problems
// @Produce json
// @Param id path string true "Problem ID"
// @Success 200 {object} Response{data=models.ProblemView}
// @Failure 404 {object} Response
// @Router /problems/{id} [get]
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	problem, err := h.problemService.GetActive(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Problem retrieved successfully", problem)
}

func parseProblemListParams(c *gin.Context) services.ProblemListParams {
	page, limit := parsePageParams(c)
	return services.ProblemListParams{
		Page:       page,
		Limit:      limit,
		Topic:      c.Query("topic"),
		Difficulty: c.Query("difficulty"),
		Type:       c.Query("type"),
	}
}
