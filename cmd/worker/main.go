package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/hibiken/asynq"
	"github.com/messageflow/backend/internal/bootstrap"
	"github.com/messageflow/backend/internal/config"
	"github.com/messageflow/backend/internal/logger"
	"github.com/messageflow/backend/internal/queue"
	"go.uber.org/zap"
)

// dueCycleWorkers is how many due cycles may run at once. A cycle slower than a minute
// must not hold back the cycles of the following minutes.
const dueCycleWorkers = 4

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

	logger.Logger.Info("Starting MessageFlow Worker")

	// Connect to database
	db, err := bootstrap.ConnectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Connect to Redis
	rdb, err := bootstrap.ConnectRedis(context.Background(), cfg)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	// Initialize trigger cycles
	triggers, err := bootstrap.NewTriggers(cfg, db, rdb, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize triggers", zap.Error(err))
	}

	// Due cycles and maintenance (manual runs, sweeps) are served separately, so a long
	// manual run never occupies the slots of the per-minute cycles
	dueSrv := asynq.NewServer(
		bootstrap.AsynqRedisOpt(cfg),
		asynq.Config{
			Concurrency: dueCycleWorkers,
			Queues: map[string]int{
				queue.QueueCycles: 1,
			},
			Logger: logger.Logger.Sugar(),
		},
	)
	maintenanceSrv := asynq.NewServer(
		bootstrap.AsynqRedisOpt(cfg),
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				queue.QueueMaintenance: 1,
			},
			Logger: logger.Logger.Sugar(),
		},
	)

	// Create worker instance
	worker := NewWorker(triggers.Trigger, triggers.Reconciler, logger.Logger)

	// Register task handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeDueCycle, worker.HandleDueCycle)
	mux.HandleFunc(queue.TypeManualCycle, worker.HandleManualCycle)
	mux.HandleFunc(queue.TypeReconcile, worker.HandleReconcile)

	// Start workers
	if err := dueSrv.Start(mux); err != nil {
		logger.Logger.Fatal("Failed to start due cycle worker", zap.Error(err))
	}
	if err := maintenanceSrv.Start(mux); err != nil {
		dueSrv.Shutdown()
		logger.Logger.Fatal("Failed to start maintenance worker", zap.Error(err))
	}

	logger.Logger.Info("Worker started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down worker...")
	maintenanceSrv.Shutdown()
	dueSrv.Shutdown()
	logger.Logger.Info("Worker exited")
}
