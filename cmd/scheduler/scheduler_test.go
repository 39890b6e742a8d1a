package main

import (
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/messageflow/backend/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (m *mockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	m.tasks = append(m.tasks, task)
	if m.err != nil {
		return nil, m.err
	}
	return &asynq.TaskInfo{ID: "1", Type: task.Type()}, nil
}

func TestScheduler_EnqueueDueCycle(t *testing.T) {
	enqueuer := &mockEnqueuer{}
	s, err := NewScheduler(enqueuer, time.UTC, 5*time.Minute, zap.NewNop())
	require.NoError(t, err)

	s.enqueueDueCycle(time.Date(2024, 5, 1, 9, 0, 42, 0, time.UTC))
	s.enqueueDueCycle(time.Date(2024, 5, 1, 9, 0, 58, 0, time.UTC))

	require.Len(t, enqueuer.tasks, 2)
	assert.Equal(t, queue.TypeDueCycle, enqueuer.tasks[0].Type())
	// Both ticks of the same minute carry the same payload so asynq can drop the duplicate
	assert.Equal(t, enqueuer.tasks[0].Payload(), enqueuer.tasks[1].Payload())

	payload, err := queue.ParseCyclePayload(enqueuer.tasks[0])
	require.NoError(t, err)
	assert.True(t, payload.RequestedAt.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))
}

func TestScheduler_EnqueueReconcile(t *testing.T) {
	enqueuer := &mockEnqueuer{}
	s, err := NewScheduler(enqueuer, time.UTC, 5*time.Minute, zap.NewNop())
	require.NoError(t, err)

	s.enqueueReconcile(time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC))

	require.Len(t, enqueuer.tasks, 1)
	assert.Equal(t, queue.TypeReconcile, enqueuer.tasks[0].Type())
}

func TestScheduler_EnqueueErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "duplicate", err: asynq.ErrDuplicateTask},
		{name: "redis down", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enqueuer := &mockEnqueuer{err: tt.err}
			s, err := NewScheduler(enqueuer, time.UTC, time.Minute, zap.NewNop())
			require.NoError(t, err)

			assert.NotPanics(t, func() { s.enqueueDueCycle(time.Now()) })
			assert.Len(t, enqueuer.tasks, 1)
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(&mockEnqueuer{}, time.UTC, time.Minute, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}
