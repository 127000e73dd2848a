package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReviewHandler handles content flagging endpoints.
type ReviewHandler struct {
	flagSvc ports.ReviewFlagService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(flagSvc ports.ReviewFlagService) *ReviewHandler {
	return &ReviewHandler{flagSvc: flagSvc}
}

// Evaluate handles POST /api/v1/reviews/:id/evaluate. Evaluation is pure
// and read-only; storing or hiding the review is the caller's job.
func (h *ReviewHandler) Evaluate(c *gin.Context) {
	reviewID := c.Param("id")

	var req dto.EvaluateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	decision := h.flagSvc.Evaluate(req.Text, language)
	response.OK(c, toFlagDecisionResponse(reviewID, decision, h.flagSvc.Version()))
}

// ReloadRules handles POST /api/v1/reviews/rules/reload.
func (h *ReviewHandler) ReloadRules(c *gin.Context) {
	if err := h.flagSvc.Reload(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RuleReloadResponse{Version: h.flagSvc.Version()})
}
