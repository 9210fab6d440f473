package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	sessionDTO "github.com/dcatrain/dca-feedback/internal/adapter/dto/session"
	"github.com/dcatrain/dca-feedback/internal/adapter/presenter"
	sessionUsecase "github.com/dcatrain/dca-feedback/internal/usecase/session"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
	"github.com/dcatrain/dca-feedback/pkg/middleware"
)

// Session handles the training session lifecycle endpoints
type Session struct {
	service sessionUsecase.Service
	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service sessionUsecase.Service, m *metrics.Manager, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// Start handles POST /session/start
func (h *Session) Start(c echo.Context) error {
	var req sessionDTO.StartSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(h.metrics, c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(h.metrics, c, err.Error())
	}

	userID := req.UserID
	if userID == "" {
		userID = middleware.TraineeID(c)
	}

	sess, err := h.service.StartSession(c.Request().Context(), sessionUsecase.StartSessionInput{
		SessionID:     req.SessionID,
		ScenarioID:    req.ScenarioID,
		UserID:        userID,
		TrainingLevel: req.TrainingLevel,
	})
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToStartSessionResponse(sess))
}

// LogAction handles POST /session/action
func (h *Session) LogAction(c echo.Context) error {
	var req sessionDTO.LogActionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(h.metrics, c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(h.metrics, c, err.Error())
	}

	result, err := h.service.LogAction(c.Request().Context(), sessionUsecase.LogActionInput{
		SessionID:           req.SessionID,
		ScenarioCategory:    req.ScenarioCategory,
		UserAction:          req.UserAction,
		AIRecommendedAction: req.AIRecommendedAction,
		ResponseTimeMS:      req.ResponseTimeMS,
		IsCorrect:           req.IsCorrect,
		Reward:              req.Reward,
	})
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToActionResponse(result))
}

// Complete handles POST /session/complete. Missing ratings default to
// neutral, so a trainee who skips the form still seals the session.
func (h *Session) Complete(c echo.Context) error {
	var req sessionDTO.CompleteSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(h.metrics, c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(h.metrics, c, err.Error())
	}

	sealed, err := h.service.CompleteSession(c.Request().Context(), completeInput(&req))
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToCompleteSessionResponse(sealed))
}

// completeInput maps the lenient completion request onto the usecase input
func completeInput(req *sessionDTO.CompleteSessionRequest) sessionUsecase.FeedbackInput {
	return sessionUsecase.FeedbackInput{
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
	}
}
