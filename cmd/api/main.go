package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cf-insight/backend/internal/codeforces"
	"github.com/cf-insight/backend/internal/data"
	"github.com/cf-insight/backend/internal/handler"
	"github.com/cf-insight/backend/internal/infrastructure"
	"github.com/cf-insight/backend/internal/middleware"
	"github.com/cf-insight/backend/internal/recommender"
	"github.com/cf-insight/backend/internal/repository"
	"github.com/cf-insight/backend/internal/service"
)

func main() {
	// Load configuration
	config := infrastructure.LoadConfig()

	// Initialize logger
	logger, err := infrastructure.NewLogger(config.Server.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.SyncLogger(logger)

	logger.Info("Starting cf-insight API",
		zap.String("environment", config.Server.Environment),
		zap.Int("port", config.Server.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize telemetry
	telemetry, err := infrastructure.NewTelemetry(ctx, &config.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	metrics, err := telemetry.CreateMetrics()
	if err != nil {
		logger.Error("Failed to create metrics", zap.Error(err))
		os.Exit(1)
	}

	// Initialize database
	database, err := infrastructure.NewDatabase(&config.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	// Seed the catalog cache from the embedded snapshot if empty
	seeder := data.NewSeeder(database.DB, logger)
	if err := seeder.SeedCatalog(); err != nil {
		logger.Error("Failed to seed catalog", zap.Error(err))
		os.Exit(1)
	}

	// Initialize outbound clients
	cfClient := codeforces.NewClient(&config.Upstream, metrics, telemetry.Tracer, logger)

	var scorer recommender.Scorer = recommender.NoopScorer{}
	if config.Scorer.Enabled {
		scorer = recommender.NewHTTPScorer(&config.Scorer, telemetry.Tracer, logger)
		logger.Info("External scorer enabled",
			zap.String("base_url", config.Scorer.BaseURL),
		)
	}

	// Initialize repositories and services
	problemRepo := repository.NewProblemRepository(database.DB)
	catalogService := service.NewCatalogService(problemRepo, cfClient, telemetry.Tracer, logger)
	statsService := service.NewStatsService(cfClient, telemetry.Tracer, logger)
	pathService := service.NewPathService(cfClient, catalogService, telemetry.Tracer, logger)
	recommendService := service.NewRecommendService(cfClient, catalogService, scorer, telemetry.Tracer, logger)

	if err := catalogService.Load(ctx); err != nil {
		logger.Error("Failed to load catalog snapshot", zap.Error(err))
		os.Exit(1)
	}

	// Initialize handlers
	statsHandler := handler.NewStatsHandler(statsService)
	pathHandler := handler.NewPathHandler(pathService, recommendService)
	recommendationHandler := handler.NewRecommendationHandler(recommendService, metrics)
	catalogHandler := handler.NewCatalogHandler(catalogService, metrics)

	// Setup Gin router
	if config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	router.Use(middleware.TracingMiddleware(telemetry.Tracer))
	router.Use(middleware.MetricsMiddleware(metrics))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": config.Telemetry.ServiceVersion,
		})
	})

	// Metrics endpoint for Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api")
	{
		problems := api.Group("/problems")
		{
			problems.GET("", catalogHandler.GetProblems)
			problems.GET("/stats", catalogHandler.GetCatalogStats)
			problems.POST("/refresh", catalogHandler.RefreshCatalog)
		}

		users := api.Group("/users")
		{
			users.GET("/:handle/stats", statsHandler.GetUserStats)
			users.GET("/:handle/path", pathHandler.GetLearningPath)
			users.GET("/:handle/suggestion", recommendationHandler.GetDailySuggestion)
		}
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server starting",
			zap.String("address", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
