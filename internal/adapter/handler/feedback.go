package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	feedbackDTO "github.com/dcatrain/dca-feedback/internal/adapter/dto/feedback"
	"github.com/dcatrain/dca-feedback/internal/adapter/presenter"
	sessionUsecase "github.com/dcatrain/dca-feedback/internal/usecase/session"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// Feedback handles the strict post-session rating submission
type Feedback struct {
	service sessionUsecase.Service
	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service sessionUsecase.Service, m *metrics.Manager, logger *zap.Logger) *Feedback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feedback{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// Submit handles POST /feedback/submit. All four numeric ratings are
// required and must be in [1,5]; anything else is rejected without sealing
// the session.
func (h *Feedback) Submit(c echo.Context) error {
	var req feedbackDTO.SubmitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(h.metrics, c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(h.metrics, c, err.Error())
	}

	sealed, err := h.service.SubmitFeedback(c.Request().Context(), sessionUsecase.FeedbackInput{
		SessionID:     req.SessionID,
		ScenarioID:    req.ScenarioID,
		TrainingLevel: req.TrainingLevel,
		Ratings: sessionUsecase.RatingsInput{
			Difficulty:      req.DifficultyRating,
			AIHelpfulness:   req.AIHelpfulness,
			ScenarioRealism: req.ScenarioRealism,
			ConfidenceLevel: req.ConfidenceLevel,
		},
		WhatWorkedWell:        req.WhatWorkedWell,
		WhatWasConfusing:      req.WhatWasConfusing,
		SuggestedImprovements: req.SuggestedImprovements,
		AdditionalComments:    req.AdditionalComments,
	})
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToSubmitFeedbackResponse(sealed))
}
