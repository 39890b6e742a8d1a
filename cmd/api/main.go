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
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/hibiken/asynq"
	_ "github.com/messageflow/backend/docs"
	"github.com/messageflow/backend/internal/auth/middleware"
	"github.com/messageflow/backend/internal/bootstrap"
	"github.com/messageflow/backend/internal/config"
	"github.com/messageflow/backend/internal/handlers"
	"github.com/messageflow/backend/internal/logger"
	loggerMiddleware "github.com/messageflow/backend/internal/logger/middleware"
	"github.com/messageflow/backend/internal/middlewares"
	"github.com/messageflow/backend/internal/repositories"
	"github.com/messageflow/backend/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title MessageFlow API
// @version 1.0
// @description API for AI message schedules, their executions and generated messages

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key required by the cron endpoints
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting MessageFlow API")

	// Connect to database
	db, err := bootstrap.ConnectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := bootstrap.RunMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb, err := bootstrap.ConnectRedis(context.Background(), cfg)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	// Create Asynq client
	asynqClient := asynq.NewClient(bootstrap.AsynqRedisOpt(cfg))
	defer asynqClient.Close()

	// Initialize trigger cycles
	triggers, err := bootstrap.NewTriggers(cfg, db, rdb, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize triggers", zap.Error(err))
	}

	// Initialize repositories
	aiModelRepo := repositories.NewAIModelRepository(db)
	scheduledTaskRepo := repositories.NewScheduledTaskRepository(db)
	executionRepo := repositories.NewTaskExecutionRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	// Initialize services
	aiModelService := services.NewAIModelService(aiModelRepo, logger.Logger)
	scheduledTaskService := services.NewScheduledTaskService(scheduledTaskRepo, aiModelRepo, executionRepo, cfg.Scheduler.Timezone, logger.Logger)
	messageService := services.NewMessageService(messageRepo, logger.Logger)

	// Initialize handlers
	triggerHandler := handlers.NewTriggerHandler(triggers.Trigger, triggers.History, asynqClient, cfg.Scheduler.CycleTimeout, logger.Logger)
	aiModelHandler := handlers.NewAIModelHandler(aiModelService, logger.Logger)
	scheduleHandler := handlers.NewScheduleHandler(scheduledTaskService, logger.Logger)
	messageHandler := handlers.NewMessageHandler(messageService, logger.Logger)

	if cfg.APIKey == "" {
		logger.Logger.Warn("API_KEY is not set, cron endpoints are unprotected")
	}

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middlewares.RequestSizeLimitMiddleware(1 * 1024 * 1024)) // 1MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Cron endpoints (API key protected, not rate limited so a cycle is never dropped)
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyMiddleware(cfg.APIKey))
			triggerHandler.RegisterCronRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(100, time.Minute))
			triggerHandler.RegisterRoutes(r)
			aiModelHandler.RegisterRoutes(r)
			scheduleHandler.RegisterRoutes(r)
			messageHandler.RegisterRoutes(r)
		})
	})

	// Start server. The write timeout covers a whole synchronous cycle.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Scheduler.CycleTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
