// Package bootstrap builds the shared infrastructure of the api, scheduler and worker binaries
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	"github.com/messageflow/backend/internal/ai"
	"github.com/messageflow/backend/internal/clock"
	"github.com/messageflow/backend/internal/config"
	"github.com/messageflow/backend/internal/models"
	"github.com/messageflow/backend/internal/repositories"
	"github.com/messageflow/backend/internal/services"
	"go.uber.org/zap"
)

const migrationsTable = "messageflow_schema_migrations"

// ConnectDB connects to the database
func ConnectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// RunMigrations runs database migrations
func RunMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Binaries run from the repository root or from their cmd directory
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// ConnectRedis connects to Redis and checks the connection
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// AsynqRedisOpt returns the asynq connection settings for the configured Redis
func AsynqRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// NewAIExecutor creates the AI capability: OpenRouter by default, with models of the
// "ollama" company routed to a local Ollama server when OLLAMA_HOST is set
func NewAIExecutor(cfg *config.Config, logger *zap.Logger) (*ai.Executor, error) {
	if cfg.AI.APIKey == "" {
		logger.Warn("OPENROUTER_API_KEY is not set, AI requests will be rejected by the provider")
	}

	executor := ai.NewExecutor(
		ai.NewOpenRouterProvider(cfg.AI.APIKey, cfg.AI.BaseURL),
		cfg.AI.RequestTimeout,
		cfg.AI.UseOnline,
		logger.Named("ai"),
	)

	if cfg.AI.OllamaHost != "" {
		ollama, err := ai.NewOllamaProvider(cfg.AI.OllamaHost, &http.Client{})
		if err != nil {
			return nil, err
		}
		executor.Route(ai.OllamaCompany, ollama)
		logger.Info("ollama models routed to local server", zap.String("host", cfg.AI.OllamaHost))
	}

	return executor, nil
}

// Triggers holds the trigger cycle services shared by the api and the worker
type Triggers struct {
	Trigger interface {
		RunDueCycle(ctx context.Context) (*models.CycleSummary, error)
		RunDueCycleAt(ctx context.Context, at time.Time) (*models.CycleSummary, error)
		RunAllActive(ctx context.Context) (*models.ManualSummary, error)
	}
	History interface {
		Recent(ctx context.Context, limit int) ([]models.CycleRecord, error)
	}
	Reconciler interface {
		ReconcileStale(ctx context.Context) (int64, error)
		RefreshNextRuns(ctx context.Context) (int, error)
	}
}

// NewTriggers wires the due-schedule finder, the execution pipeline and the cycle history
// into the periodic and manual triggers
func NewTriggers(cfg *config.Config, db *sql.DB, rdb *redis.Client, logger *zap.Logger) (*Triggers, error) {
	executor, err := NewAIExecutor(cfg, logger)
	if err != nil {
		return nil, err
	}

	scheduledTaskRepo := repositories.NewScheduledTaskRepository(db)
	executionRepo := repositories.NewTaskExecutionRepository(db)

	var notifier services.MessageNotifier
	if cfg.SMTP.NotifyTo != "" {
		sender := services.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
		notifier = services.NewNotificationService(sender, cfg.SMTP.From, cfg.SMTP.NotifyTo, logger.Named("notify"))
	}

	history := services.NewCycleHistoryService(rdb, cfg.Scheduler.HistorySize, logger)
	trigger := services.NewTriggerService(
		clock.NewCalendar(logger),
		services.NewDueScheduleService(scheduledTaskRepo, logger),
		scheduledTaskRepo,
		services.NewExecutionService(executionRepo, executor, notifier, logger.Named("pipeline")),
		history,
		services.TriggerConfig{
			Timezone:     cfg.Scheduler.Timezone,
			Concurrency:  cfg.Scheduler.Concurrency,
			CycleTimeout: cfg.Scheduler.CycleTimeout,
		},
		logger.Named("trigger"),
	)

	return &Triggers{
		Trigger:    trigger,
		History:    history,
		Reconciler: services.NewReconcileService(executionRepo, scheduledTaskRepo, cfg.Scheduler.StaleExecutionAfter, logger.Named("reconcile")),
	}, nil
}
