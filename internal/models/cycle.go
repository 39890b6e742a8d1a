package models

import "time"

// CalendarInstant is "now" resolved to civil time in a time zone
type CalendarInstant struct {
	Hour       int
	Minute     int
	DayOfWeek  int // 0 = Sunday .. 6 = Saturday
	DayOfMonth int
	Timezone   string
	Time       time.Time
}

// ExecutionResult is the outcome of one pipeline run
type ExecutionResult struct {
	Success     bool   `json:"success"`
	MessageID   int    `json:"message_id,omitempty"`
	ExecutionID int    `json:"execution_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CycleResult reports what happened to one schedule within a trigger cycle
type CycleResult struct {
	ScheduleID   int             `json:"schedule_id"`
	ScheduleName string          `json:"schedule_name"`
	Status       ExecutionStatus `json:"status"`
	Message      string          `json:"message,omitempty"`
}

// CycleSummary is returned by a periodic trigger cycle
type CycleSummary struct {
	Executed int           `json:"executed"`
	Results  []CycleResult `json:"results"`
}

// ManualSummary is returned by a manual run over all active schedules
type ManualSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// CycleKind tells which trigger started a cycle
type CycleKind string

const (
	CycleKindDue    CycleKind = "due"
	CycleKindManual CycleKind = "manual"
)

// CycleRecord is a finished cycle as kept in the cycle history
type CycleRecord struct {
	Kind        CycleKind     `json:"kind"`
	StartedAt   time.Time     `json:"started_at"`
	EvaluatedAt time.Time     `json:"evaluated_at,omitempty"` // minute a due cycle selected schedules for
	DurationMS  int64         `json:"duration_ms"`
	Timezone    string        `json:"timezone,omitempty"`
	Total       int           `json:"total"`
	Successful  int           `json:"successful"`
	Failed      int           `json:"failed"`
	Results     []CycleResult `json:"results,omitempty"`
	Error       string        `json:"error,omitempty"`
}
