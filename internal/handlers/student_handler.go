package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/math-practice-service/internal/services"
	"github.com/SAP-F-2025/math-practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
	}
}

// ListStudents lists every student
// @Summary List students
// @Tags teacher
// @Produce json
// @Success 200 {object} Response{data=[]models.UserSummary}
// @Router /teacher/students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentService.ListStudents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Students retrieved successfully", students)
}
