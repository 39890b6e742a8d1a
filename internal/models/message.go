package models

import "time"

// ContentFormat tags how a message body should be rendered
type ContentFormat string

const (
	ContentFormatText     ContentFormat = "text"
	ContentFormatMarkdown ContentFormat = "markdown"
	ContentFormatJSON     ContentFormat = "json"
	ContentFormatHTML     ContentFormat = "html"
)

// Message is the durable artifact of a successful execution
type Message struct {
	ID                      int           `json:"id"`
	ScheduledTaskID         int           `json:"scheduled_task_id"`
	TaskExecutionID         int           `json:"task_execution_id"`
	Content                 string        `json:"content"`
	ContentFormat           ContentFormat `json:"content_format"`
	Title                   *string       `json:"title,omitempty"`
	Summary                 *string       `json:"summary,omitempty"`
	ExecutionCompletionTime time.Time     `json:"execution_completion_time"`
	IsRead                  bool          `json:"is_read"`
	ReadAt                  *time.Time    `json:"read_at,omitempty"`
	IsFavorite              bool          `json:"is_favorite"`
	FavoritedAt             *time.Time    `json:"favorited_at,omitempty"`
	Priority                int           `json:"priority"`
	CreatedAt               time.Time     `json:"created_at"`
}

// MessageWithDetails is a message joined with its scheduled task and AI model
type MessageWithDetails struct {
	Message
	TaskName        string       `json:"task_name"`
	AIModelCompany  string       `json:"ai_model_company"`
	AIModelName     string       `json:"ai_model_name"`
	ScheduleType    ScheduleType `json:"schedule_type"`
	ExecutionHour   int          `json:"execution_hour"`
	ExecutionMinute int          `json:"execution_minute"`
	PromptContent   string       `json:"prompt_content"`
}

// MessageFilter holds the optional filters of a message list request
type MessageFilter struct {
	ScheduledTaskID int
	IsRead          *bool
	IsFavorite      *bool
}

// UpdateMessageReadRequest represents a request to mark a message read or unread
type UpdateMessageReadRequest struct {
	IsRead bool `json:"is_read"`
}

// UpdateMessageFavoriteRequest represents a request to add or remove a message from favorites
type UpdateMessageFavoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}
