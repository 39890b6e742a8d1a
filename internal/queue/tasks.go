package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names shared by the scheduler, the worker and the API
const (
	TypeDueCycle    = "cycle:due"
	TypeManualCycle = "cycle:manual"
	TypeReconcile   = "executions:reconcile"
)

// Queues. Due cycles have their own queue so manual runs and sweeps never delay them.
const (
	QueueCycles      = "cycles"
	QueueMaintenance = "maintenance"
)

// CyclePayload is the payload of trigger and reconcile tasks
type CyclePayload struct {
	RequestedAt time.Time `json:"requested_at"`
	Source      string    `json:"source"`
}

// NewDueCycleTask creates a task running one periodic trigger cycle.
// Cycles are never retried: a retry would run schedules of an already processed minute again.
func NewDueCycleTask(requestedAt time.Time, source string, timeout time.Duration) (*asynq.Task, error) {
	return newCycleTask(TypeDueCycle, QueueCycles, requestedAt, source, timeout)
}

// NewManualCycleTask creates a task running every active schedule once
func NewManualCycleTask(requestedAt time.Time, source string, timeout time.Duration) (*asynq.Task, error) {
	return newCycleTask(TypeManualCycle, QueueMaintenance, requestedAt, source, timeout)
}

// NewReconcileTask creates a task marking abandoned running executions as failed
func NewReconcileTask(requestedAt time.Time, source string) (*asynq.Task, error) {
	return newCycleTask(TypeReconcile, QueueMaintenance, requestedAt, source, time.Minute)
}

// ParseCyclePayload decodes the payload of a task created in this package
func ParseCyclePayload(t *asynq.Task) (CyclePayload, error) {
	var payload CyclePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return CyclePayload{}, fmt.Errorf("failed to parse %s payload: %w", t.Type(), err)
	}
	return payload, nil
}

func newCycleTask(typeName, queueName string, requestedAt time.Time, source string, timeout time.Duration) (*asynq.Task, error) {
	payload, err := json.Marshal(CyclePayload{RequestedAt: requestedAt.UTC(), Source: source})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", typeName, err)
	}

	opts := []asynq.Option{asynq.Queue(queueName), asynq.MaxRetry(0)}
	if timeout > 0 {
		opts = append(opts, asynq.Timeout(timeout))
	}
	return asynq.NewTask(typeName, payload, opts...), nil
}
