package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/messageflow/backend/internal/queue"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	dueCycleSpec  = "* * * * *"
	reconcileSpec = "*/5 * * * *"

	// Every replica enqueues the same minute with the same payload, asynq keeps one of them
	uniqueWindow = 50 * time.Second
)

// TaskEnqueuer places tasks on the asynq queue
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler enqueues a due cycle every minute and a reconcile sweep every five minutes
type Scheduler struct {
	cron         *cron.Cron
	enqueuer     TaskEnqueuer
	cycleTimeout time.Duration
	logger       *zap.Logger
}

// NewScheduler creates a scheduler whose minutes are evaluated in location
func NewScheduler(enqueuer TaskEnqueuer, location *time.Location, cycleTimeout time.Duration, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cron.PrintfLogger(zap.NewStdLog(logger)))),
		),
		enqueuer:     enqueuer,
		cycleTimeout: cycleTimeout,
		logger:       logger,
	}

	if _, err := s.cron.AddFunc(dueCycleSpec, func() { s.enqueueDueCycle(time.Now()) }); err != nil {
		return nil, fmt.Errorf("failed to register due cycle job: %w", err)
	}
	if _, err := s.cron.AddFunc(reconcileSpec, func() { s.enqueueReconcile(time.Now()) }); err != nil {
		return nil, fmt.Errorf("failed to register reconcile job: %w", err)
	}
	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for a running job
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// enqueueDueCycle enqueues the periodic cycle of the minute containing now
func (s *Scheduler) enqueueDueCycle(now time.Time) {
	task, err := queue.NewDueCycleTask(now.Truncate(time.Minute), "scheduler", s.cycleTimeout)
	if err != nil {
		s.logger.Error("Failed to create due cycle task", zap.Error(err))
		return
	}
	s.enqueue(task)
}

// enqueueReconcile enqueues a sweep of abandoned executions
func (s *Scheduler) enqueueReconcile(now time.Time) {
	task, err := queue.NewReconcileTask(now.Truncate(time.Minute), "scheduler")
	if err != nil {
		s.logger.Error("Failed to create reconcile task", zap.Error(err))
		return
	}
	s.enqueue(task)
}

func (s *Scheduler) enqueue(task *asynq.Task) {
	info, err := s.enqueuer.Enqueue(task, asynq.Unique(uniqueWindow))
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			s.logger.Debug("Task already enqueued by another scheduler", zap.String("type", task.Type()))
			return
		}
		s.logger.Error("Failed to enqueue task", zap.String("type", task.Type()), zap.Error(err))
		return
	}
	s.logger.Debug("Task enqueued", zap.String("type", task.Type()), zap.String("task_id", info.ID))
}
