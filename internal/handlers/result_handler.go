package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/math-practice-service/internal/services"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	BaseHandler
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler:   NewBaseHandler(logger),
		resultService: resultService,
	}
}

// SubmitResult scores an answer and records the attempt
// @Summary Submit answer
// @Tags results
// @Accept json
// @Produce json
// @Param result body services.SubmitResultRequest true "Answer"
// @Success 201 {object} Response{data=services.SubmitResultResponse}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /results [post]
func (h *ResultHandler) SubmitResult(c *gin.Context) {
	h.LogRequest(c, "Submitting result")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondInvalidPayload(c, err)
		return
	}

	resp, err := h.resultService.Submit(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	message := "Incorrect answer"
	if resp.IsCorrect {
		message = "Correct answer"
	}
	h.RespondWithSuccess(c, http.StatusCreated, message, resp)
}

// ListMyResults lists the caller's results, newest first
// @Summary My results
// @Tags results
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param assignmentId query string false "Assignment ID"
// @Success 200 {object} Response{data=services.ResultListResponse}
// @Router /results/me [get]
func (h *ResultHandler) ListMyResults(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	page, limit := parsePageParams(c)
	resp, err := h.resultService.ListByUser(c.Request.Context(), userID, services.ResultListParams{
		Page:         page,
		Limit:        limit,
		AssignmentID: c.Query("assignmentId"),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Results retrieved successfully", resp)
}

// GetMyStats returns the caller's aggregate statistics
// @Summary My statistics
// @Tags results
// @Produce json
// @Success 200 {object} Response{data=services.StatsResponse}
// @Router /results/stats [get]
func (h *ResultHandler) GetMyStats(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.resultService.GetStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Statistics retrieved successfully", stats)
}
