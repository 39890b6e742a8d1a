package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/hibiken/asynq"
	"github.com/messageflow/backend/internal/bootstrap"
	"github.com/messageflow/backend/internal/config"
	"github.com/messageflow/backend/internal/logger"
	"go.uber.org/zap"
)

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

	logger.Logger.Info("Starting MessageFlow Scheduler", zap.String("timezone", cfg.Scheduler.Timezone))

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Logger.Fatal("Invalid SCHEDULER_TIMEZONE", zap.Error(err))
	}

	// Create Asynq client
	asynqClient := asynq.NewClient(bootstrap.AsynqRedisOpt(cfg))
	defer asynqClient.Close()

	// Create scheduler instance
	scheduler, err := NewScheduler(asynqClient, location, cfg.Scheduler.CycleTimeout, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	// Start scheduler
	scheduler.Start()
	defer func() {
		logger.Logger.Info("Shutting down scheduler...")
		scheduler.Stop()
		logger.Logger.Info("Scheduler exited")
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
