package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/messageflow/backend/internal/models"
	"github.com/messageflow/backend/internal/queue"
	"go.uber.org/zap"
)

// TriggerService runs the trigger cycles
type TriggerService interface {
	RunDueCycleAt(ctx context.Context, at time.Time) (*models.CycleSummary, error)
	RunAllActive(ctx context.Context) (*models.ManualSummary, error)
}

// Reconciler repairs executions and next runs left behind by failures
type Reconciler interface {
	ReconcileStale(ctx context.Context) (int64, error)
	RefreshNextRuns(ctx context.Context) (int, error)
}

// lateCycleWarning is the start delay above which a due cycle is logged as late
const lateCycleWarning = 30 * time.Second

// Worker handles queued cycles
type Worker struct {
	trigger    TriggerService
	reconciler Reconciler
	now        func() time.Time
	logger     *zap.Logger
}

// NewWorker creates a new worker instance
func NewWorker(trigger TriggerService, reconciler Reconciler, logger *zap.Logger) *Worker {
	return &Worker{
		trigger:    trigger,
		reconciler: reconciler,
		now:        time.Now,
		logger:     logger,
	}
}

// HandleDueCycle handles the periodic cycle task
func (w *Worker) HandleDueCycle(ctx context.Context, t *asynq.Task) error {
	payload, err := queue.ParseCyclePayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	// A late cycle still evaluates the minute it was queued for
	if lag := w.now().Sub(payload.RequestedAt); lag > lateCycleWarning {
		w.logger.Warn("Due cycle started late",
			zap.Time("requested_at", payload.RequestedAt),
			zap.Duration("lag", lag),
		)
	}

	summary, err := w.trigger.RunDueCycleAt(ctx, payload.RequestedAt)
	if err != nil {
		return fmt.Errorf("due cycle failed: %w", err)
	}

	w.logger.Info("Due cycle processed",
		zap.String("source", payload.Source),
		zap.Int("executed", summary.Executed),
	)
	return nil
}

// HandleManualCycle handles a queued run of every active schedule
func (w *Worker) HandleManualCycle(ctx context.Context, t *asynq.Task) error {
	payload, err := queue.ParseCyclePayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	summary, err := w.trigger.RunAllActive(ctx)
	if err != nil {
		return fmt.Errorf("manual cycle failed: %w", err)
	}

	w.logger.Info("Manual cycle processed",
		zap.String("source", payload.Source),
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
	)
	return nil
}

// HandleReconcile marks abandoned executions as failed and refreshes outdated next runs
func (w *Worker) HandleReconcile(ctx context.Context, t *asynq.Task) error {
	if _, err := w.reconciler.ReconcileStale(ctx); err != nil {
		return fmt.Errorf("failed to reconcile stale executions: %w", err)
	}
	if _, err := w.reconciler.RefreshNextRuns(ctx); err != nil {
		return fmt.Errorf("failed to refresh next runs: %w", err)
	}
	return nil
}
