package recurrence

import (
	"fmt"
	"time"

	"github.com/messageflow/backend/internal/models"
	"github.com/robfig/cron/v3"
)

// CronSpec renders the recurrence of task as a standard five-field cron expression
// prefixed with CRON_TZ so the expression is evaluated in the task's zone.
func CronSpec(task *models.ScheduledTask) (string, error) {
	dom, dow := "*", "*"

	switch task.ScheduleType {
	case models.ScheduleTypeDaily:
	case models.ScheduleTypeWeekly:
		if task.DayOfWeek != nil {
			dow = fmt.Sprintf("%d", *task.DayOfWeek)
		}
	case models.ScheduleTypeMonthly:
		if task.DayOfMonth != nil {
			dom = fmt.Sprintf("%d", *task.DayOfMonth)
		}
	default:
		return "", fmt.Errorf("unsupported schedule type %q", task.ScheduleType)
	}

	spec := fmt.Sprintf("%d %d %s * %s", task.ExecutionMinute, task.ExecutionHour, dom, dow)
	if task.Timezone != "" {
		spec = fmt.Sprintf("CRON_TZ=%s %s", task.Timezone, spec)
	}
	return spec, nil
}

// CalculateNextRun returns the first firing time of task strictly after fromTime
//
// A monthly task on day 31 skips months without that day rather than clamping.
func CalculateNextRun(task *models.ScheduledTask, fromTime time.Time) (time.Time, error) {
	spec, err := CronSpec(task)
	if err != nil {
		return time.Time{}, err
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression: %w", err)
	}

	next := schedule.Next(fromTime)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("schedule never fires")
	}
	return next, nil
}
