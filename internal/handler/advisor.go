package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type advisorRequest struct {
	ChatID   int64  `json:"chat_id"`
	Question string `json:"question" binding:"required"`
}

// AskAdvisor godoc
// @Summary      Ask the currency advisor a question
// @Description  Sends a free-form question to the LLM advisor with live rate and trend context
// @Tags         advisor
// @Accept       json
// @Produce      json
// @Param        request  body  advisorRequest  true  "Question payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/advisor/ask [post]
func (h *Handler) AskAdvisor(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.ask-advisor")
	defer span.End()

	if h.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisor is not configured"})
		return
	}

	var req advisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	answer, err := h.advisor.Ask(ctx, req.ChatID, req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
