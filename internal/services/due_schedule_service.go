package services

import (
	"context"
	"fmt"

	"github.com/messageflow/backend/internal/models"
	"github.com/messageflow/backend/internal/recurrence"
	"go.uber.org/zap"
)

// DueScheduleRepository is the read side of scheduled tasks used to find due tasks
type DueScheduleRepository interface {
	GetDueCandidates(ctx context.Context, hour, minute int) ([]models.ScheduledTaskWithModel, error)
}

type dueScheduleService struct {
	repo   DueScheduleRepository
	logger *zap.Logger
}

// NewDueScheduleService creates a new due schedule finder
func NewDueScheduleService(repo DueScheduleRepository, logger *zap.Logger) *dueScheduleService {
	return &dueScheduleService{
		repo:   repo,
		logger: logger,
	}
}

// FindDue returns the active tasks set to hour:minute whose day rule matches dayOfWeek and dayOfMonth.
// No match is an empty list, not an error.
func (s *dueScheduleService) FindDue(ctx context.Context, hour, minute, dayOfWeek, dayOfMonth int) ([]models.ScheduledTaskWithModel, error) {
	candidates, err := s.repo.GetDueCandidates(ctx, hour, minute)
	if err != nil {
		return nil, fmt.Errorf("failed to find due schedules: %w", err)
	}

	due := make([]models.ScheduledTaskWithModel, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.IsActive {
			continue
		}
		if !recurrence.Matches(&candidate.ScheduledTask, dayOfWeek, dayOfMonth) {
			s.logger.Debug("schedule skipped by day rule",
				zap.Int("schedule_id", candidate.ID),
				zap.String("schedule_type", string(candidate.ScheduleType)),
				zap.Int("day_of_week", dayOfWeek),
				zap.Int("day_of_month", dayOfMonth),
			)
			continue
		}
		due = append(due, candidate)
	}

	return due, nil
}
