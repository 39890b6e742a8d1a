package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/messageflow/backend/internal/models"
	"github.com/messageflow/backend/internal/recurrence"
	"go.uber.org/zap"
)

const (
	defaultExecutionHour   = 9
	defaultExecutionMinute = 0
)

type ScheduledTaskRepository interface {
	Create(ctx context.Context, task *models.ScheduledTask) error
	GetByID(ctx context.Context, id int) (*models.ScheduledTaskWithModel, error)
	GetAll(ctx context.Context, page, count, aiModelID int, active *bool) ([]models.ScheduledTaskListItem, error)
	Update(ctx context.Context, task *models.ScheduledTask) error
	Delete(ctx context.Context, id int) error
}

// TaskExecutionReader lists the executions of a scheduled task
type TaskExecutionReader interface {
	GetByScheduledTask(ctx context.Context, scheduledTaskID, page, count int) ([]models.TaskExecution, error)
}

type scheduledTaskService struct {
	repo            ScheduledTaskRepository
	modelRepo       AIModelRepository
	executionRepo   TaskExecutionReader
	defaultTimezone string
	now             func() time.Time
	logger          *zap.Logger
}

// NewScheduledTaskService creates a new scheduled task service.
// Tasks created without a zone get defaultTimezone.
func NewScheduledTaskService(repo ScheduledTaskRepository, modelRepo AIModelRepository, executionRepo TaskExecutionReader, defaultTimezone string, logger *zap.Logger) *scheduledTaskService {
	return &scheduledTaskService{
		repo:            repo,
		modelRepo:       modelRepo,
		executionRepo:   executionRepo,
		defaultTimezone: defaultTimezone,
		now:             time.Now,
		logger:          logger,
	}
}

// Create validates and stores a new active scheduled task
func (s *scheduledTaskService) Create(ctx context.Context, req *models.CreateScheduledTaskRequest) (*models.ScheduledTask, error) {
	task := &models.ScheduledTask{
		Name:               strings.TrimSpace(req.Name),
		AIModelID:          req.AIModelID,
		PromptContent:      strings.TrimSpace(req.PromptContent),
		Remark:             req.Remark,
		IsActive:           true,
		ScheduleType:       req.ScheduleType,
		ExecutionHour:      defaultExecutionHour,
		ExecutionMinute:    defaultExecutionMinute,
		Timezone:           req.Timezone,
		DayOfWeek:          req.DayOfWeek,
		DayOfMonth:         req.DayOfMonth,
		EffectiveStartTime: req.EffectiveStartTime,
		EffectiveEndTime:   req.EffectiveEndTime,
	}
	if task.ScheduleType == "" {
		task.ScheduleType = models.ScheduleTypeDaily
	}
	if task.Timezone == "" {
		task.Timezone = s.defaultTimezone
	}
	if req.ExecutionHour != nil {
		task.ExecutionHour = *req.ExecutionHour
	}
	if req.ExecutionMinute != nil {
		task.ExecutionMinute = *req.ExecutionMinute
	}

	if err := s.prepare(ctx, task); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create scheduled task: %w", err)
	}

	s.logger.Info("scheduled task created",
		zap.Int("schedule_id", task.ID),
		zap.String("schedule_type", string(task.ScheduleType)),
	)
	return task, nil
}

// GetByID retrieves a scheduled task with its AI model
func (s *scheduledTaskService) GetByID(ctx context.Context, id int) (*models.ScheduledTaskWithModel, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid scheduled task id: %w", models.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

// GetAll retrieves a page of scheduled tasks
func (s *scheduledTaskService) GetAll(ctx context.Context, page, count, aiModelID int, active *bool) ([]models.ScheduledTaskListItem, error) {
	tasks, err := s.repo.GetAll(ctx, page, count, aiModelID, active)
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.ScheduledTaskListItem{}
	}
	return tasks, nil
}

// Update applies the non-nil fields of req to a scheduled task and revalidates it
func (s *scheduledTaskService) Update(ctx context.Context, id int, req *models.UpdateScheduledTaskRequest) (*models.ScheduledTask, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task := existing.ScheduledTask

	if req.Name != nil {
		task.Name = strings.TrimSpace(*req.Name)
	}
	if req.AIModelID != nil {
		task.AIModelID = *req.AIModelID
	}
	if req.PromptContent != nil {
		task.PromptContent = strings.TrimSpace(*req.PromptContent)
	}
	if req.Remark != nil {
		task.Remark = req.Remark
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}
	if req.ScheduleType != nil {
		task.ScheduleType = *req.ScheduleType
	}
	if req.ExecutionHour != nil {
		task.ExecutionHour = *req.ExecutionHour
	}
	if req.ExecutionMinute != nil {
		task.ExecutionMinute = *req.ExecutionMinute
	}
	if req.Timezone != nil {
		task.Timezone = *req.Timezone
	}
	if req.DayOfWeek != nil {
		task.DayOfWeek = req.DayOfWeek
	}
	if req.DayOfMonth != nil {
		task.DayOfMonth = req.DayOfMonth
	}
	if req.EffectiveStartTime != nil {
		task.EffectiveStartTime = req.EffectiveStartTime
	}
	if req.EffectiveEndTime != nil {
		task.EffectiveEndTime = req.EffectiveEndTime
	}

	if err := s.prepare(ctx, &task); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &task); err != nil {
		return nil, fmt.Errorf("failed to update scheduled task: %w", err)
	}

	return &task, nil
}

// Delete removes a scheduled task with its history
func (s *scheduledTaskService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid scheduled task id: %w", models.ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete scheduled task: %w", err)
	}
	return nil
}

// GetExecutions retrieves a page of executions of a scheduled task, newest first
func (s *scheduledTaskService) GetExecutions(ctx context.Context, id, page, count int) ([]models.TaskExecution, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	executions, err := s.executionRepo.GetByScheduledTask(ctx, id, page, count)
	if err != nil {
		return nil, fmt.Errorf("failed to get task executions: %w", err)
	}
	if executions == nil {
		executions = []models.TaskExecution{}
	}
	return executions, nil
}

// prepare normalizes task, validates it, checks its AI model and computes its next run
func (s *scheduledTaskService) prepare(ctx context.Context, task *models.ScheduledTask) error {
	// Day fields only carry meaning for their own schedule type
	if task.ScheduleType != models.ScheduleTypeWeekly {
		task.DayOfWeek = nil
	}
	if task.ScheduleType != models.ScheduleTypeMonthly {
		task.DayOfMonth = nil
	}

	if err := validateScheduledTask(task); err != nil {
		return err
	}

	if _, err := s.modelRepo.GetByID(ctx, task.AIModelID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("ai model %d does not exist: %w", task.AIModelID, models.ErrInvalidInput)
		}
		return fmt.Errorf("failed to check ai model: %w", err)
	}

	next, err := recurrence.CalculateNextRun(task, s.now())
	if err != nil {
		return fmt.Errorf("failed to calculate next execution time: %w", err)
	}
	task.NextExecutionTime = &next
	return nil
}

func validateScheduledTask(task *models.ScheduledTask) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf(format+": %w", append(args, models.ErrInvalidInput)...)
	}

	switch {
	case task.Name == "":
		return invalid("name is required")
	case task.PromptContent == "":
		return invalid("prompt content is required")
	case task.AIModelID <= 0:
		return invalid("ai model id is required")
	case !task.ScheduleType.Valid():
		return invalid("schedule type must be daily, weekly or monthly")
	case task.ExecutionHour < 0 || task.ExecutionHour > 23:
		return invalid("execution hour must be between 0 and 23")
	case task.ExecutionMinute < 0 || task.ExecutionMinute > 59:
		return invalid("execution minute must be between 0 and 59")
	case task.DayOfWeek != nil && (*task.DayOfWeek < 0 || *task.DayOfWeek > 6):
		return invalid("day of week must be between 0 and 6")
	case task.DayOfMonth != nil && (*task.DayOfMonth < 1 || *task.DayOfMonth > 31):
		return invalid("day of month must be between 1 and 31")
	case task.EffectiveStartTime != nil && task.EffectiveEndTime != nil && !task.EffectiveEndTime.After(*task.EffectiveStartTime):
		return invalid("effective end time must be after effective start time")
	}

	if _, err := time.LoadLocation(task.Timezone); err != nil {
		return invalid("unknown timezone %q", task.Timezone)
	}
	return nil
}
