package services

import (
	"context"
	"fmt"
	"time"

	"github.com/messageflow/backend/internal/models"
	"github.com/messageflow/backend/internal/recurrence"
	"go.uber.org/zap"
)

// AbandonedExecutionMessage is stored on executions left running past the stale threshold
const AbandonedExecutionMessage = "execution abandoned"

// StaleExecutionRepository fails executions that never finished
type StaleExecutionRepository interface {
	MarkStaleRunningFailed(ctx context.Context, olderThan, finishedAt time.Time, errorMessage string) (int64, error)
}

// NextRunRepository stores the informational next run of active tasks
type NextRunRepository interface {
	GetAllActive(ctx context.Context) ([]models.ScheduledTaskWithModel, error)
	UpdateNextExecutionTime(ctx context.Context, id int, next *time.Time) error
}

type reconcileService struct {
	repo       StaleExecutionRepository
	schedules  NextRunRepository
	staleAfter time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewReconcileService creates a sweep for executions left running after staleAfter
func NewReconcileService(repo StaleExecutionRepository, schedules NextRunRepository, staleAfter time.Duration, logger *zap.Logger) *reconcileService {
	return &reconcileService{
		repo:       repo,
		schedules:  schedules,
		staleAfter: staleAfter,
		now:        time.Now,
		logger:     logger,
	}
}

// ReconcileStale marks running executions dispatched more than staleAfter ago as failed
// and returns how many were changed
func (s *reconcileService) ReconcileStale(ctx context.Context) (int64, error) {
	now := s.now()
	olderThan := now.Add(-s.staleAfter)

	count, err := s.repo.MarkStaleRunningFailed(ctx, olderThan, now, AbandonedExecutionMessage)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile stale executions: %w", err)
	}

	if count > 0 {
		s.logger.Warn("marked abandoned executions as failed",
			zap.Int64("count", count),
			zap.Time("older_than", olderThan),
		)
	}
	return count, nil
}

// RefreshNextRuns recomputes next_execution_time of every active task whose stored value
// is missing or already in the past, which happens after a failed run. Returns how many were updated.
func (s *reconcileService) RefreshNextRuns(ctx context.Context) (int, error) {
	tasks, err := s.schedules.GetAllActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get active schedules: %w", err)
	}

	now := s.now()
	updated := 0
	for i := range tasks {
		task := &tasks[i].ScheduledTask
		if task.NextExecutionTime != nil && task.NextExecutionTime.After(now) {
			continue
		}

		next, err := recurrence.CalculateNextRun(task, now)
		if err != nil {
			s.logger.Warn("failed to calculate next execution time",
				zap.Int("schedule_id", task.ID),
				zap.Error(err),
			)
			continue
		}
		if err := s.schedules.UpdateNextExecutionTime(ctx, task.ID, &next); err != nil {
			return updated, fmt.Errorf("failed to update next execution time of schedule %d: %w", task.ID, err)
		}
		updated++
	}

	if updated > 0 {
		s.logger.Info("refreshed next execution times", zap.Int("count", updated))
	}
	return updated, nil
}
