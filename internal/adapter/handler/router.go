package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dcatrain/dca-feedback/internal/infrastructure/database"
	"github.com/dcatrain/dca-feedback/pkg/config"
	pkgmiddleware "github.com/dcatrain/dca-feedback/pkg/middleware"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	sessionHandler    *Session
	feedbackHandler   *Feedback
	analyticsHandler  *Analytics
	scenarioHandler   *Scenario
	retrainingHandler *Retraining
	metrics           *metrics.Manager
	db                *gorm.DB
	redis             *redis.Client
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	sessionHandler *Session,
	feedbackHandler *Feedback,
	analyticsHandler *Analytics,
	scenarioHandler *Scenario,
	retrainingHandler *Retraining,
	m *metrics.Manager,
	db *gorm.DB,
	redisClient *redis.Client,
) *Router {
	return &Router{
		cfg:               cfg,
		sessionHandler:    sessionHandler,
		feedbackHandler:   feedbackHandler,
		analyticsHandler:  analyticsHandler,
		scenarioHandler:   scenarioHandler,
		retrainingHandler: retrainingHandler,
		metrics:           m,
		db:                db,
		redis:             redisClient,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check and Prometheus scrape endpoints
	e.GET("/health", rt.healthCheck)
	if rt.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metrics.Handler()))
	}

	// Setup route groups
	rt.setupSessionRoutes(e)
	rt.setupFeedbackRoutes(e)
	rt.setupAnalyticsRoutes(e)
	rt.setupScenarioRoutes(e)
	rt.setupRetrainingRoutes(e)
}

// setupSessionRoutes configures the training session lifecycle routes
func (rt *Router) setupSessionRoutes(e *echo.Echo) {
	sessionGroup := e.Group("/session")

	sessionGroup.POST("/start", rt.sessionHandler.Start)
	sessionGroup.POST("/action", rt.sessionHandler.LogAction)
	sessionGroup.POST("/complete", rt.sessionHandler.Complete)
}

// setupFeedbackRoutes configures the standalone feedback route
func (rt *Router) setupFeedbackRoutes(e *echo.Echo) {
	feedbackGroup := e.Group("/feedback")

	feedbackGroup.POST("/submit", rt.feedbackHandler.Submit)
}

// setupAnalyticsRoutes configures the reporting routes
func (rt *Router) setupAnalyticsRoutes(e *echo.Echo) {
	analyticsGroup := e.Group("/analytics")

	analyticsGroup.GET("/summary", rt.analyticsHandler.Summary)
	analyticsGroup.GET("/export", rt.analyticsHandler.Export)
}

// setupScenarioRoutes configures the scenario catalog routes
func (rt *Router) setupScenarioRoutes(e *echo.Echo) {
	scenarioGroup := e.Group("/scenarios")

	scenarioGroup.GET("", rt.scenarioHandler.List)
	scenarioGroup.GET("/:id", rt.scenarioHandler.Get)
}

// setupRetrainingRoutes configures the retraining policy routes
func (rt *Router) setupRetrainingRoutes(e *echo.Echo) {
	retrainGroup := e.Group("/retraining")

	retrainGroup.POST("/evaluate", rt.retrainingHandler.Evaluate)
	retrainGroup.GET("/queue", rt.retrainingHandler.Queue)

	// The pipeline callback is only signature-checked when a secret is
	// configured, so local setups can post plain JSON.
	if rt.cfg != nil && rt.cfg.Trainer.WebhookSecret != "" {
		retrainGroup.POST("/webhook", rt.retrainingHandler.Webhook,
			pkgmiddleware.RequireWebhookSignature(rt.cfg.Trainer.WebhookSecret))
	} else {
		retrainGroup.POST("/webhook", rt.retrainingHandler.Webhook)
	}
}

// healthCheck returns health status.
// Session endpoints keep serving through storage outages in unsynced mode,
// so a down dependency reports in the body instead of failing the probe.
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	checks := map[string]string{}

	if rt.db != nil {
		if err := database.Ping(ctx, rt.db); err != nil {
			checks["database"] = "unreachable"
			status = "degraded"
		} else {
			checks["database"] = "ok"
		}
	}
	if rt.redis != nil {
		if err := rt.redis.Ping(ctx).Err(); err != nil {
			checks["session_store"] = "unreachable"
			status = "degraded"
		} else {
			checks["session_store"] = "ok"
		}
	}

	environment := "development"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      status,
		"time":        time.Now().Format(time.RFC3339),
		"environment": environment,
		"checks":      checks,
	})
}
