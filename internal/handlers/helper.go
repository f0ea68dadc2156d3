package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParseStringIDParam reads a UUID path parameter. On failure it writes a
// 400 envelope and returns "".
func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if _, err := uuid.Parse(idStr); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "Invalid " + param,
			Error:   "ID must be a valid UUID",
		})
		return ""
	}
	return idStr
}

// parseIntQuery returns defaultValue when the parameter is absent or not
// an integer. Range normalization happens in the repositories package.
func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func parsePageParams(c *gin.Context) (page, limit int) {
	return parseIntQuery(c, "page", 1), parseIntQuery(c, "limit", 10)
}
