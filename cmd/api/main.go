package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/dcatrain/dca-feedback/pkg/validator"

	"github.com/dcatrain/dca-feedback/internal/adapter/handler"
	"github.com/dcatrain/dca-feedback/internal/adapter/repository"
	"github.com/dcatrain/dca-feedback/internal/domain/repositories"
	"github.com/dcatrain/dca-feedback/internal/infrastructure/cache"
	"github.com/dcatrain/dca-feedback/internal/infrastructure/database"
	httpmw "github.com/dcatrain/dca-feedback/internal/infrastructure/http/middleware"
	"github.com/dcatrain/dca-feedback/internal/infrastructure/storage"
	"github.com/dcatrain/dca-feedback/internal/usecase/analytics"
	"github.com/dcatrain/dca-feedback/internal/usecase/retraining"
	"github.com/dcatrain/dca-feedback/internal/usecase/scenario"
	"github.com/dcatrain/dca-feedback/internal/usecase/scoring"
	"github.com/dcatrain/dca-feedback/internal/usecase/session"
	"github.com/dcatrain/dca-feedback/pkg/config"
	"github.com/dcatrain/dca-feedback/pkg/metrics"
	pkgmiddleware "github.com/dcatrain/dca-feedback/pkg/middleware"
	"github.com/dcatrain/dca-feedback/pkg/trainer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware; PreflightOK rewrites echo's 204 preflight status to the
	// 200 the simulator UI checks for
	e.Use(pkgmiddleware.PreflightOK())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-User-ID", "X-Signature"},
	}))

	// Optional trainee identity from the simulator UI
	e.Use(pkgmiddleware.TraineeIdentity())

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Prometheus metrics, one registry per process
	metricsManager := metrics.NewManager("dca_feedback")
	e.Use(httpmw.RequestMetrics(metricsManager))

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping GORM AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize the session store. Redis being down does not stop the
	// service; sessions then live in process memory and records carry the
	// unsynced flag.
	log.Println("📦 Connecting to Redis...")
	memoryStore := cache.NewMemorySessionStore(cfg.Redis.SessionTTL)
	var sessionStore repositories.SessionStore = memoryStore
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, sessions held in memory only: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		sessionStore = cache.NewRedisSessionStore(redisClient, cfg.Redis.SessionTTL)
	}

	// Initialize the session archive when object storage is configured
	var archive repositories.SessionArchive
	if cfg.Storage.Endpoint != "" {
		log.Println("🗄️  Connecting to object storage...")
		minioArchive, err := storage.NewMinIOArchive(&cfg.Storage)
		if err != nil {
			log.Printf("⚠️  Object storage unavailable, session archive disabled: %v", err)
		} else {
			archive = minioArchive
		}
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	feedbackRepo := repository.NewFeedbackRepository(db)
	comparisonRepo := repository.NewComparisonRepository(db)
	retrainingRepo := repository.NewRetrainingRepository(db)

	// Initialize the evaluation engine and feedback aggregator
	log.Println("🎯 Initializing feedback aggregator...")
	calculator := scoring.NewCalculator(logger)
	tracker := session.NewTracker(cfg.Scoring.MaxRewardPerAction)
	forwarder := session.NewForwarder(feedbackRepo, archive, metricsManager, logger)
	sessionService := session.NewService(
		sessionStore,
		memoryStore,
		comparisonRepo,
		calculator,
		tracker,
		forwarder,
		metricsManager,
		logger,
	)

	// Initialize the retraining policy
	log.Println("🔔 Initializing retraining policy...")
	var notifier retraining.PipelineNotifier
	if cfg.Trainer.Enabled {
		notifier = trainer.NewClient(&cfg.Trainer)
		log.Printf("📨 Trainer notifications enabled: %s", cfg.Trainer.WebhookURL)
	}
	trigger := retraining.NewTrigger(cfg.Retraining)
	retrainingService := retraining.NewService(
		feedbackRepo,
		retrainingRepo,
		trigger,
		notifier,
		cfg.Retraining.MinRecentFeedback,
		cfg.Retraining.WindowDays,
		metricsManager,
		logger,
	)

	// Initialize reporting and the scenario catalog
	analyticsService := analytics.NewService(feedbackRepo, archive, logger)
	scenarioService := scenario.NewService()

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	sessionHandler := handler.NewSessionHandler(sessionService, metricsManager, logger)
	feedbackHandler := handler.NewFeedbackHandler(sessionService, metricsManager, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, metricsManager, logger)
	scenarioHandler := handler.NewScenarioHandler(scenarioService, metricsManager, logger)
	retrainingHandler := handler.NewRetrainingHandler(retrainingService, metricsManager, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		sessionHandler,
		feedbackHandler,
		analyticsHandler,
		scenarioHandler,
		retrainingHandler,
		metricsManager,
		db,
		redisClient,
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	// Drain in-flight record forwards before closing connections
	if err := forwarder.Stop(ctx); err != nil {
		log.Printf("⚠️  Feedback forwarder did not stop cleanly: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
