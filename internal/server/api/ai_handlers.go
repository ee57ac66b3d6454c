package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/services"
)

func (h *Handler) promptCount(c *gin.Context) {
	count, err := h.Usage.PromptCount(c.Request.Context(), claimsFrom(c).UserID())
	if err != nil {
		h.fail(c, err, "Failed to get prompt count.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) usage(c *gin.Context) {
	u, err := h.Usage.Usage(c.Request.Context(), claimsFrom(c).UserID())
	if err != nil {
		h.fail(c, err, "Failed to get usage.", nil)
		return
	}
	c.JSON(http.StatusOK, u)
}

// aiAction binds the request into a fresh In, runs call and writes {text}.
func aiAction[In any](h *Handler, promptType, failure string, call func(context.Context, string, In) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c)
			return
		}

		text, err := call(c.Request.Context(), claimsFrom(c).UserID(), in)
		if err != nil {
			outcome := "error"
			if errors.Is(err, common.ErrorUsageLimit) {
				outcome = "denied"
			}
			h.Metrics.RecordAI(promptType, outcome)
			h.fail(c, err, failure, nil)
			return
		}

		h.Metrics.RecordAI(promptType, "ok")
		c.JSON(http.StatusOK, gin.H{"text": text})
	}
}

func (h *Handler) assistant() gin.HandlerFunc {
	return aiAction[services.AssistantInput](h, models.PromptAssistant, "Failed to generate response.", h.Advisor.Assistant)
}

func (h *Handler) farm() gin.HandlerFunc {
	return aiAction[services.FarmInput](h, models.PromptFarmAnalyzer, "Failed to generate farm analysis.", h.Advisor.Farm)
}

func (h *Handler) soil() gin.HandlerFunc {
	return aiAction[services.SoilInput](h, models.PromptSoilAnalyzer, "Failed to generate soil analysis.", h.Advisor.Soil)
}

func (h *Handler) crop() gin.HandlerFunc {
	return aiAction[services.CropInput](h, models.PromptCropAnalyzer, "Failed to generate crop analysis.", h.Advisor.Crop)
}
