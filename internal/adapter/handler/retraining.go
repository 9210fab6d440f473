package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	retrainingDTO "github.com/dcatrain/dca-feedback/internal/adapter/dto/retraining"
	retrainingUsecase "github.com/dcatrain/dca-feedback/internal/usecase/retraining"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// Retraining exposes the retraining policy and its signal queue
type Retraining struct {
	service retrainingUsecase.Service
	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewRetrainingHandler creates a new retraining handler
func NewRetrainingHandler(service retrainingUsecase.Service, m *metrics.Manager, logger *zap.Logger) *Retraining {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retraining{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// Evaluate handles POST /retraining/evaluate
func (h *Retraining) Evaluate(c echo.Context) error {
	result, err := h.service.EvaluateNow(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"retrain":      result.Decision.Retrain,
		"reason":       result.Decision.Reason(),
		"reasons":      result.Decision.Reasons,
		"priority":     result.Decision.Priority,
		"queued":       result.Queued,
		"record_count": result.RecordCount,
		"window_days":  result.WindowDays,
		"evaluated_at": result.EvaluatedAt,
	})
}

// Queue handles GET /retraining/queue
func (h *Retraining) Queue(c echo.Context) error {
	signals, err := h.service.ListQueue(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"signals": signals,
		"count":   len(signals),
	})
}

// Webhook handles POST /retraining/webhook, the pipeline status callback.
// Signature verification happens in middleware before this runs.
func (h *Retraining) Webhook(c echo.Context) error {
	var req retrainingDTO.WebhookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(h.metrics, c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(h.metrics, c, err.Error())
	}

	signalID, err := uuid.Parse(req.SignalID)
	if err != nil {
		return badRequest(h.metrics, c, "signal_id must be a valid UUID")
	}

	signal, err := h.service.HandleCompletion(c.Request().Context(), signalID, req.Status)
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"signal":  signal,
	})
}
