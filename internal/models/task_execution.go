package models

import "time"

// ExecutionStatus represents the lifecycle state of a task execution
type ExecutionStatus string

const (
	ExecutionStatusPending ExecutionStatus = "pending"
	ExecutionStatusRunning ExecutionStatus = "running"
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailed  ExecutionStatus = "failed"
	ExecutionStatusSkipped ExecutionStatus = "skipped"
)

// TaskExecution is one attempt to run a scheduled task's prompt
//
// PromptSnapshot freezes the prompt at dispatch time so later edits of the task
// do not rewrite history.
type TaskExecution struct {
	ID                     int             `json:"id"`
	ScheduledTaskID        int             `json:"scheduled_task_id"`
	AIModelID              int             `json:"ai_model_id"`
	ScheduledExecutionTime time.Time       `json:"scheduled_execution_time"`
	ActualStartTime        *time.Time      `json:"actual_start_time,omitempty"`
	ActualFinishTime       *time.Time      `json:"actual_finish_time,omitempty"`
	Status                 ExecutionStatus `json:"execution_status"`
	ErrorMessage           *string         `json:"error_message,omitempty"`
	PromptSnapshot         string          `json:"prompt_snapshot"`
	CreatedAt              time.Time       `json:"created_at"`
}
