package models

import "time"

// ScheduleType is the recurrence pattern of a scheduled task
type ScheduleType string

const (
	ScheduleTypeDaily   ScheduleType = "daily"
	ScheduleTypeWeekly  ScheduleType = "weekly"
	ScheduleTypeMonthly ScheduleType = "monthly"
)

// Valid reports whether t is one of the supported recurrence patterns
func (t ScheduleType) Valid() bool {
	switch t {
	case ScheduleTypeDaily, ScheduleTypeWeekly, ScheduleTypeMonthly:
		return true
	}
	return false
}

// ScheduledTask represents a recurring instruction to run a prompt against an AI model
//
// DayOfWeek (0 = Sunday) is meaningful only for weekly tasks and DayOfMonth only for monthly tasks.
// A nil day field fires on every day the hour and minute match.
type ScheduledTask struct {
	ID                 int          `json:"id"`
	Name               string       `json:"name"`
	AIModelID          int          `json:"ai_model_id"`
	PromptContent      string       `json:"prompt_content"`
	Remark             *string      `json:"remark,omitempty"`
	IsActive           bool         `json:"is_active"`
	ScheduleType       ScheduleType `json:"schedule_type"`
	ExecutionHour      int          `json:"execution_hour"`
	ExecutionMinute    int          `json:"execution_minute"`
	Timezone           string       `json:"timezone"`
	DayOfWeek          *int         `json:"day_of_week,omitempty"`
	DayOfMonth         *int         `json:"day_of_month,omitempty"`
	EffectiveStartTime *time.Time   `json:"effective_start_time,omitempty"`
	EffectiveEndTime   *time.Time   `json:"effective_end_time,omitempty"`
	LastExecutionTime  *time.Time   `json:"last_execution_time,omitempty"`
	NextExecutionTime  *time.Time   `json:"next_execution_time,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ScheduledTaskWithModel is a scheduled task joined with the company and name of its AI model
type ScheduledTaskWithModel struct {
	ScheduledTask
	AIModelCompany string `json:"ai_model_company"`
	AIModelName    string `json:"ai_model_name"`
}

// CreateScheduledTaskRequest represents a request to create a scheduled task
type CreateScheduledTaskRequest struct {
	Name               string       `json:"name"`
	AIModelID          int          `json:"ai_model_id"`
	PromptContent      string       `json:"prompt_content"`
	Remark             *string      `json:"remark,omitempty"`
	ScheduleType       ScheduleType `json:"schedule_type,omitempty"`
	ExecutionHour      *int         `json:"execution_hour,omitempty"`
	ExecutionMinute    *int         `json:"execution_minute,omitempty"`
	Timezone           string       `json:"timezone,omitempty"`
	DayOfWeek          *int         `json:"day_of_week,omitempty"`
	DayOfMonth         *int         `json:"day_of_month,omitempty"`
	EffectiveStartTime *time.Time   `json:"effective_start_time,omitempty"`
	EffectiveEndTime   *time.Time   `json:"effective_end_time,omitempty"`
}

// UpdateScheduledTaskRequest represents a request to update a scheduled task
//
// Nil fields are left untouched.
type UpdateScheduledTaskRequest struct {
	Name               *string       `json:"name,omitempty"`
	AIModelID          *int          `json:"ai_model_id,omitempty"`
	PromptContent      *string       `json:"prompt_content,omitempty"`
	Remark             *string       `json:"remark,omitempty"`
	IsActive           *bool         `json:"is_active,omitempty"`
	ScheduleType       *ScheduleType `json:"schedule_type,omitempty"`
	ExecutionHour      *int          `json:"execution_hour,omitempty"`
	ExecutionMinute    *int          `json:"execution_minute,omitempty"`
	Timezone           *string       `json:"timezone,omitempty"`
	DayOfWeek          *int          `json:"day_of_week,omitempty"`
	DayOfMonth         *int          `json:"day_of_month,omitempty"`
	EffectiveStartTime *time.Time    `json:"effective_start_time,omitempty"`
	EffectiveEndTime   *time.Time    `json:"effective_end_time,omitempty"`
}

// ScheduledTaskListItem represents a scheduled task in a list response
type ScheduledTaskListItem struct {
	ID                int          `json:"id"`
	Name              string       `json:"name"`
	AIModelID         int          `json:"ai_model_id"`
	AIModelCompany    string       `json:"ai_model_company"`
	AIModelName       string       `json:"ai_model_name"`
	IsActive          bool         `json:"is_active"`
	ScheduleType      ScheduleType `json:"schedule_type"`
	ExecutionHour     int          `json:"execution_hour"`
	ExecutionMinute   int          `json:"execution_minute"`
	DayOfWeek         *int         `json:"day_of_week,omitempty"`
	DayOfMonth        *int         `json:"day_of_month,omitempty"`
	LastExecutionTime *time.Time   `json:"last_execution_time,omitempty"`
	NextExecutionTime *time.Time   `json:"next_execution_time,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
}
