package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-outreach/internal/core"
)

// Generator drafts email variants for a lead
type Generator interface {
	Generate(ctx context.Context, req *core.GenerationRequest) (*core.GenerationResult, error)
}

// Sender delivers a drafted email
type Sender interface {
	Send(ctx context.Context, req *core.SendRequest) (*core.SendResult, error)
}

// FailureRecorder counts failed generations
type FailureRecorder interface {
	RecordGenerationFailure(err error)
}

type handlers struct {
	generator Generator
	sender    Sender
	failures  FailureRecorder
}

func (h *handlers) generate(c *gin.Context) {
	var req core.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err))
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), &req)
	if err != nil {
		if h.failures != nil {
			h.failures.RecordGenerationFailure(err)
		}
		respondError(c, generateStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handlers) send(c *gin.Context) {
	var req core.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err))
		return
	}

	result, err := h.sender.Send(c.Request.Context(), &req)
	if err != nil {
		respondError(c, sendStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
