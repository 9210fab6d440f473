package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dcatrain/dca-feedback/internal/adapter/presenter"
	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	scenarioUsecase "github.com/dcatrain/dca-feedback/internal/usecase/scenario"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// Scenario serves the static training scenario catalog
type Scenario struct {
	service scenarioUsecase.Service
	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(service scenarioUsecase.Service, m *metrics.Manager, logger *zap.Logger) *Scenario {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scenario{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// List handles GET /scenarios
func (h *Scenario) List(c echo.Context) error {
	return c.JSON(http.StatusOK, presenter.ToScenarioListResponse(h.service.List(), scenarioUsecase.Actions))
}

// Get handles GET /scenarios/:id
func (h *Scenario) Get(c echo.Context) error {
	key := c.Param("id")

	sc, err := h.service.Get(key)
	if err != nil {
		return HandleError(h.logger, h.metrics, c, err)
	}

	var rec *entities.ActionRecommendation
	if r, err := h.service.Recommend(key); err == nil {
		rec = &r
	}

	return c.JSON(http.StatusOK, presenter.ToScenarioDetailResponse(sc, rec))
}
