// Package recurrence decides whether a schedule fires at a calendar instant and when it fires next.
package recurrence

import "github.com/messageflow/backend/internal/models"

// Matches reports whether task fires on the given day
//
// Callers have already matched execution hour and minute. A weekly task without a day of week
// and a monthly task without a day of month fire every day. Unknown schedule types never fire.
func Matches(task *models.ScheduledTask, dayOfWeek, dayOfMonth int) bool {
	switch task.ScheduleType {
	case models.ScheduleTypeDaily:
		return true
	case models.ScheduleTypeWeekly:
		if task.DayOfWeek == nil {
			return true
		}
		return *task.DayOfWeek == dayOfWeek
	case models.ScheduleTypeMonthly:
		if task.DayOfMonth == nil {
			return true
		}
		return *task.DayOfMonth == dayOfMonth
	default:
		return false
	}
}

// IsDue combines the hour/minute match with Matches
func IsDue(task *models.ScheduledTask, now models.CalendarInstant) bool {
	return task.IsActive &&
		task.ExecutionHour == now.Hour &&
		task.ExecutionMinute == now.Minute &&
		Matches(task, now.DayOfWeek, now.DayOfMonth)
}
