package services

import (
	"context"
	"fmt"
	"time"

	"github.com/messageflow/backend/internal/models"
	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

// Clock resolves civil time in a zone
type Clock interface {
	Now(timezone string) models.CalendarInstant
	At(t time.Time, timezone string) models.CalendarInstant
}

// DueScheduleFinder selects the tasks due at a calendar instant
type DueScheduleFinder interface {
	FindDue(ctx context.Context, hour, minute, dayOfWeek, dayOfMonth int) ([]models.ScheduledTaskWithModel, error)
}

// ActiveScheduleRepository lists every active task for manual runs
type ActiveScheduleRepository interface {
	GetAllActive(ctx context.Context) ([]models.ScheduledTaskWithModel, error)
}

// ExecutionPipeline runs one task
type ExecutionPipeline interface {
	Execute(ctx context.Context, schedule *models.ScheduledTaskWithModel) (models.ExecutionResult, error)
}

// CycleHistory keeps the summaries of finished cycles
type CycleHistory interface {
	Record(ctx context.Context, record models.CycleRecord) error
}

// TriggerConfig holds the settings of trigger cycles
type TriggerConfig struct {
	Timezone     string
	Concurrency  int
	CycleTimeout time.Duration
}

type triggerService struct {
	clock    Clock
	finder   DueScheduleFinder
	active   ActiveScheduleRepository
	pipeline ExecutionPipeline
	history  CycleHistory
	cfg      TriggerConfig
	logger   *zap.Logger
}

// NewTriggerService creates the periodic and manual triggers. history may be nil.
func NewTriggerService(clock Clock, finder DueScheduleFinder, active ActiveScheduleRepository, pipeline ExecutionPipeline, history CycleHistory, cfg TriggerConfig, logger *zap.Logger) *triggerService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &triggerService{
		clock:    clock,
		finder:   finder,
		active:   active,
		pipeline: pipeline,
		history:  history,
		cfg:      cfg,
		logger:   logger,
	}
}

// RunDueCycle executes every task due now in the configured zone.
// Only a failure to select the due tasks fails the cycle, task failures are reported in the results.
func (s *triggerService) RunDueCycle(ctx context.Context) (*models.CycleSummary, error) {
	return s.runDueCycle(ctx, s.clock.Now(s.cfg.Timezone))
}

// RunDueCycleAt executes every task due at the minute of at, which may lie in the past
// when a queued cycle starts late
func (s *triggerService) RunDueCycleAt(ctx context.Context, at time.Time) (*models.CycleSummary, error) {
	return s.runDueCycle(ctx, s.clock.At(at, s.cfg.Timezone))
}

func (s *triggerService) runDueCycle(ctx context.Context, now models.CalendarInstant) (*models.CycleSummary, error) {
	ctx, cancel := s.withCycleTimeout(ctx)
	defer cancel()

	startedAt := time.Now()
	record := models.CycleRecord{Kind: models.CycleKindDue, StartedAt: startedAt, EvaluatedAt: now.Time, Timezone: now.Timezone}
	log := s.logger.With(zap.String("cycle", string(models.CycleKindDue)))
	log.Info("starting due cycle",
		zap.Time("evaluated_at", now.Time),
		zap.String("timezone", now.Timezone),
		zap.Int("hour", now.Hour),
		zap.Int("minute", now.Minute),
		zap.Int("day_of_week", now.DayOfWeek),
		zap.Int("day_of_month", now.DayOfMonth),
	)

	due, err := s.finder.FindDue(ctx, now.Hour, now.Minute, now.DayOfWeek, now.DayOfMonth)
	if err != nil {
		log.Error("failed to find due schedules", zap.Error(err))
		record.Error = err.Error()
		s.record(ctx, record, startedAt)
		return nil, err
	}
	log.Info("found due schedules", zap.Int("count", len(due)))

	results := s.runSchedules(ctx, log, due)

	record.Total = len(due)
	record.Results = results
	record.Successful, record.Failed = tally(results)
	s.record(ctx, record, startedAt)

	log.Info("due cycle completed",
		zap.Int("executed", len(due)),
		zap.Int("successful", record.Successful),
		zap.Int("failed", record.Failed),
		zap.Duration("duration", time.Since(startedAt)),
	)

	return &models.CycleSummary{Executed: len(due), Results: results}, nil
}

// RunAllActive executes every active task regardless of its time and day rules
func (s *triggerService) RunAllActive(ctx context.Context) (*models.ManualSummary, error) {
	ctx, cancel := s.withCycleTimeout(ctx)
	defer cancel()

	startedAt := time.Now()
	record := models.CycleRecord{Kind: models.CycleKindManual, StartedAt: startedAt}
	log := s.logger.With(zap.String("cycle", string(models.CycleKindManual)))
	log.Info("starting manual run")

	schedules, err := s.active.GetAllActive(ctx)
	if err != nil {
		log.Error("failed to get active schedules", zap.Error(err))
		record.Error = err.Error()
		s.record(ctx, record, startedAt)
		return nil, fmt.Errorf("failed to get active schedules: %w", err)
	}
	log.Info("found active schedules", zap.Int("count", len(schedules)))

	results := s.runSchedules(ctx, log, schedules)

	summary := &models.ManualSummary{Total: len(schedules)}
	summary.Successful, summary.Failed = tally(results)

	record.Total = summary.Total
	record.Successful = summary.Successful
	record.Failed = summary.Failed
	record.Results = results
	s.record(ctx, record, startedAt)

	log.Info("manual run completed",
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", time.Since(startedAt)),
	)

	return summary, nil
}

// runSchedules runs the pipeline for each schedule, at most cfg.Concurrency at a time.
// Every schedule gets a result in input order.
func (s *triggerService) runSchedules(ctx context.Context, log *zap.Logger, schedules []models.ScheduledTaskWithModel) []models.CycleResult {
	results := make([]models.CycleResult, len(schedules))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i := range schedules {
		g.Go(func() error {
			results[i] = s.runOne(ctx, log, &schedules[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *triggerService) runOne(ctx context.Context, log *zap.Logger, schedule *models.ScheduledTaskWithModel) (result models.CycleResult) {
	result = models.CycleResult{ScheduleID: schedule.ID, ScheduleName: schedule.Name}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("schedule execution panicked", zap.Int("schedule_id", schedule.ID), zap.Any("panic", rec))
			result.Status = models.ExecutionStatusFailed
			result.Message = fmt.Sprintf("execution panicked: %v", rec)
		}
	}()

	execResult, err := s.pipeline.Execute(ctx, schedule)
	switch {
	case err != nil:
		log.Error("schedule execution failed", zap.Int("schedule_id", schedule.ID), zap.Error(err))
		result.Status = models.ExecutionStatusFailed
		result.Message = err.Error()
	case execResult.Success:
		result.Status = models.ExecutionStatusSuccess
		result.Message = fmt.Sprintf("Message %d", execResult.MessageID)
	default:
		result.Status = models.ExecutionStatusFailed
		result.Message = execResult.Error
	}
	return result
}

// withCycleTimeout drops the caller's cancellation: once started, a cycle is bounded only by
// CycleTimeout, so a disconnecting HTTP caller cannot fail executions in flight
func (s *triggerService) withCycleTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.cfg.CycleTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.CycleTimeout)
}

// record stores the cycle summary. History is best effort and never fails a cycle.
func (s *triggerService) record(ctx context.Context, record models.CycleRecord, startedAt time.Time) {
	if s.history == nil {
		return
	}
	record.DurationMS = time.Since(startedAt).Milliseconds()

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.history.Record(recordCtx, record); err != nil {
		s.logger.Warn("failed to record cycle history", zap.String("kind", string(record.Kind)), zap.Error(err))
	}
}

func tally(results []models.CycleResult) (successful, failed int) {
	for _, r := range results {
		if r.Status == models.ExecutionStatusSuccess {
			successful++
		} else {
			failed++
		}
	}
	return successful, failed
}
