package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-outreach/internal/core"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func respondError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: err.Error()})
}

// generateStatus maps a generation error to its HTTP status
func generateStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrModelCall):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// sendStatus maps a delivery error to its HTTP status
func sendStatus(err error) int {
	if errors.Is(err, core.ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
