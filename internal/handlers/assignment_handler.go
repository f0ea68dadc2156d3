package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/math-practice-service/internal/services"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
	exportService     services.ImportExportService
}

func NewAssignmentHandler(
	assignmentService services.AssignmentService,
	exportService services.ImportExportService,
	logger utils.Logger,
) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
		exportService:     exportService,
	}
}

// ===== TEACHER ENDPOINTS =====

// CreateAssignment creates an assignment owned by the caller
// @Summary Create assignment
// @Tags teacher
// @Accept json
// @Produce json
// @Param assignment body services.CreateAssignmentRequest true "Assignment data"
// @Success 201 {object} Response{data=services.AssignmentResponse}
// @Failure 400 {object} Response
// @Router /teacher/assignments [post]
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	h.LogRequest(c, "Creating assignment")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondInvalidPayload(c, err)
		return
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Assignment created successfully", assignment)
}

// ListTeacherAssignments lists the caller's assignments, newest first
// @Summary List own assignments
// @Tags teacher
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} Response{data=services.AssignmentListResponse}
// @Router /teacher/assignments [get]
func (h *AssignmentHandler) ListTeacherAssignments(c *gin.Context) {
	h.LogRequest(c, "Listing teacher assignments")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	page, limit := parsePageParams(c)
	resp, err := h.assignmentService.ListByTeacher(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignments retrieved successfully", resp)
}

// ReplaceProblems sets the problem list of an owned assignment
// @Summary Replace assignment problems
// @Tags teacher
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param problems body services.ReplaceProblemsRequest true "Problem IDs"
// @Success 200 {object} Response{data=services.AssignmentResponse}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /teacher/assignments/{id}/problems [put]
func (h *AssignmentHandler) ReplaceProblems(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Replacing assignment problems", "assignment_id", id)

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.ReplaceProblemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondInvalidPayload(c, err)
		return
	}

	assignment, err := h.assignmentService.ReplaceProblems(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignment problems updated successfully", assignment)
}

// GetAssignmentResults returns the results recorded against an owned assignment
// @Summary Assignment results
// @Tags teacher
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} Response{data=services.AssignmentResultsResponse}
// @Failure 404 {object} Response
// @Router /teacher/assignments/{id}/results [get]
func (h *AssignmentHandler) GetAssignmentResults(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.assignmentService.GetResults(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignment results retrieved successfully", resp)
}

// ExportAssignmentResults downloads the results of an owned assignment as xlsx
// @Summary Export assignment results
// @Tags teacher
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Assignment ID"
// @Success 200 {file} file
// @Failure 404 {object} Response
// @Router /teacher/assignments/{id}/results/export [get]
func (h *AssignmentHandler) ExportAssignmentResults(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Exporting assignment results", "assignment_id", id)

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	fileName, err := h.exportService.ExportAssignmentResults(c.Request.Context(), id, userID, &buf)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ===== STUDENT ENDPOINTS =====

// ListStudentAssignments lists active assignments given to the caller, earliest due first
// @Summary List my assignments
// @Tags assignments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} Response{data=services.StudentAssignmentListResponse}
// @Router /assignments [get]
func (h *AssignmentHandler) ListStudentAssignments(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	page, limit := parsePageParams(c)
	resp, err := h.assignmentService.ListForStudent(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignments retrieved successfully", resp)
}

// GetStudentAssignment returns an assignment given to the caller with its problems
// @Summary Get my assignment
// @Tags assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} Response{data=services.StudentAssignmentDetail}
// @Failure 404 {object} Response
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) GetStudentAssignment(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	detail, err := h.assignmentService.GetForStudent(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignment retrieved successfully", detail)
}
