package services

import (
	"context"
	"fmt"
	"time"

	"github.com/messageflow/backend/internal/ai"
	"github.com/messageflow/backend/internal/models"
	"github.com/messageflow/backend/internal/recurrence"
	"go.uber.org/zap"
)

// failureMarkTimeout bounds the write that marks an execution failed
const failureMarkTimeout = 10 * time.Second

// ExecutionRepository is the write side of task executions used by the pipeline
type ExecutionRepository interface {
	CreateRunning(ctx context.Context, execution *models.TaskExecution) error
	MarkFailed(ctx context.Context, id int, finishedAt time.Time, errorMessage string) error
	CompleteWithMessage(ctx context.Context, executionID int, message *models.Message, finishedAt time.Time, nextExecution *time.Time) error
}

// AIExecutor runs a prompt on a model
type AIExecutor interface {
	Execute(ctx context.Context, companyName, modelName, prompt string, opts ...ai.Option) ai.Result
}

// MessageNotifier is told about every message the pipeline creates
type MessageNotifier interface {
	NotifyMessage(ctx context.Context, schedule *models.ScheduledTaskWithModel, message *models.Message) error
}

type executionService struct {
	repo     ExecutionRepository
	ai       AIExecutor
	notifier MessageNotifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewExecutionService creates the execution pipeline. notifier may be nil.
func NewExecutionService(repo ExecutionRepository, executor AIExecutor, notifier MessageNotifier, logger *zap.Logger) *executionService {
	return &executionService{
		repo:     repo,
		ai:       executor,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// Execute runs schedule once: it records a running execution, calls the AI model and
// stores either the resulting message or the failure.
//
// An AI failure is reported through the result with a nil error. Any other failure after the
// execution row exists marks it failed before the error is returned.
//
// The notifier runs after the message is committed and cannot change the outcome.
func (s *executionService) Execute(ctx context.Context, schedule *models.ScheduledTaskWithModel) (models.ExecutionResult, error) {
	log := s.logger.With(zap.Int("schedule_id", schedule.ID), zap.String("schedule_name", schedule.Name))

	result, message, err := s.execute(ctx, log, schedule)
	if err == nil && result.Success && s.notifier != nil {
		s.notify(ctx, log.With(zap.Int("execution_id", result.ExecutionID)), schedule, message)
	}
	return result, err
}

// execute runs the pipeline steps up to the committed outcome. A panic after the execution
// row exists marks the row failed.
func (s *executionService) execute(ctx context.Context, log *zap.Logger, schedule *models.ScheduledTaskWithModel) (result models.ExecutionResult, message *models.Message, err error) {
	startedAt := s.now()
	execution := &models.TaskExecution{
		ScheduledTaskID:        schedule.ID,
		AIModelID:              schedule.AIModelID,
		ScheduledExecutionTime: startedAt,
		ActualStartTime:        &startedAt,
		PromptSnapshot:         schedule.PromptContent,
	}
	if err := s.repo.CreateRunning(ctx, execution); err != nil {
		return models.ExecutionResult{Success: false, Error: err.Error()}, nil, fmt.Errorf("failed to create task execution: %w", err)
	}
	log = log.With(zap.Int("execution_id", execution.ID))
	log.Info("task execution created")

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("execution panicked: %v", rec)
			log.Error("task execution panicked", zap.Any("panic", rec), zap.Stack("stack"))
			s.markFailed(ctx, log, execution.ID, err.Error())
			result = models.ExecutionResult{Success: false, ExecutionID: execution.ID, Error: err.Error()}
			message = nil
		}
	}()

	log.Info("calling AI model",
		zap.String("company", schedule.AIModelCompany),
		zap.String("model", schedule.AIModelName),
	)
	aiResult := s.ai.Execute(ctx, schedule.AIModelCompany, schedule.AIModelName, schedule.PromptContent)
	finishedAt := s.now()

	if !aiResult.Success {
		log.Warn("AI execution failed", zap.String("error", aiResult.Error))
		markCtx, cancel := failureContext(ctx)
		defer cancel()
		if err := s.repo.MarkFailed(markCtx, execution.ID, finishedAt, aiResult.Error); err != nil {
			return models.ExecutionResult{Success: false, ExecutionID: execution.ID, Error: err.Error()}, nil,
				fmt.Errorf("failed to mark task execution as failed: %w", err)
		}
		return models.ExecutionResult{Success: false, ExecutionID: execution.ID, Error: aiResult.Error}, nil, nil
	}

	title := schedule.Name
	message = &models.Message{
		ScheduledTaskID: schedule.ID,
		Content:         aiResult.Content,
		ContentFormat:   models.ContentFormatText,
		Title:           &title,
	}
	if err := s.repo.CompleteWithMessage(ctx, execution.ID, message, finishedAt, s.nextExecution(log, schedule, finishedAt)); err != nil {
		log.Error("failed to record successful execution", zap.Error(err))
		s.markFailed(ctx, log, execution.ID, err.Error())
		return models.ExecutionResult{Success: false, ExecutionID: execution.ID, Error: err.Error()}, nil,
			fmt.Errorf("failed to record successful execution: %w", err)
	}
	log.Info("message created", zap.Int("message_id", message.ID), zap.Duration("duration", finishedAt.Sub(startedAt)))

	return models.ExecutionResult{Success: true, MessageID: message.ID, ExecutionID: execution.ID}, message, nil
}

// notify reports a committed message. Errors and panics are logged only.
func (s *executionService) notify(ctx context.Context, log *zap.Logger, schedule *models.ScheduledTaskWithModel, message *models.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("message notification panicked", zap.Int("message_id", message.ID), zap.Any("panic", rec))
		}
	}()

	if err := s.notifier.NotifyMessage(ctx, schedule, message); err != nil {
		log.Warn("failed to send message notification", zap.Int("message_id", message.ID), zap.Error(err))
	}
}

// markFailed stores the failure of an execution even when ctx is already done
func (s *executionService) markFailed(ctx context.Context, log *zap.Logger, executionID int, errorMessage string) {
	markCtx, cancel := failureContext(ctx)
	defer cancel()

	if err := s.repo.MarkFailed(markCtx, executionID, s.now(), errorMessage); err != nil {
		log.Error("failed to mark task execution as failed", zap.Error(err))
	}
}

func (s *executionService) nextExecution(log *zap.Logger, schedule *models.ScheduledTaskWithModel, from time.Time) *time.Time {
	next, err := recurrence.CalculateNextRun(&schedule.ScheduledTask, from)
	if err != nil {
		log.Warn("failed to calculate next execution time", zap.Error(err))
		return nil
	}
	return &next
}

// failureContext keeps the values of ctx but not its cancellation, so a failure is
// stored even after the cycle deadline has passed
func failureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), failureMarkTimeout)
}
