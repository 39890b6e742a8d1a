package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/messageflow/backend/internal/clock"
	"github.com/messageflow/backend/internal/models"
	"github.com/messageflow/backend/internal/queue"
	"github.com/messageflow/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errDatabase = errors.New("database error")

type mockTrigger struct {
	dueCalls    int
	manualCalls int
	dueAt       []time.Time
	err         error
}

func (m *mockTrigger) RunDueCycleAt(ctx context.Context, at time.Time) (*models.CycleSummary, error) {
	m.dueCalls++
	m.dueAt = append(m.dueAt, at)
	if m.err != nil {
		return nil, m.err
	}
	return &models.CycleSummary{Executed: 1}, nil
}

func (m *mockTrigger) RunAllActive(ctx context.Context) (*models.ManualSummary, error) {
	m.manualCalls++
	if m.err != nil {
		return nil, m.err
	}
	return &models.ManualSummary{Total: 3, Successful: 2, Failed: 1}, nil
}

type mockReconciler struct {
	staleErr     error
	refreshErr   error
	staleCalls   int
	refreshCalls int
}

func (m *mockReconciler) ReconcileStale(ctx context.Context) (int64, error) {
	m.staleCalls++
	return 0, m.staleErr
}

func (m *mockReconciler) RefreshNextRuns(ctx context.Context) (int, error) {
	m.refreshCalls++
	return 0, m.refreshErr
}

func newTestWorker(trigger *mockTrigger, reconciler *mockReconciler, now time.Time) *Worker {
	w := NewWorker(trigger, reconciler, zap.NewNop())
	w.now = func() time.Time { return now }
	return w
}

func TestWorker_HandleDueCycle(t *testing.T) {
	requestedAt := time.Date(2024, 5, 1, 9, 1, 0, 0, time.UTC)
	task, err := queue.NewDueCycleTask(requestedAt, "scheduler", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name          string
		now           time.Time
		trigger       *mockTrigger
		expectedError error
	}{
		{name: "runs cycle", now: requestedAt.Add(2 * time.Second), trigger: &mockTrigger{}},
		{name: "late cycle runs its own minute", now: requestedAt.Add(90 * time.Second), trigger: &mockTrigger{}},
		{name: "very late cycle still runs", now: requestedAt.Add(10 * time.Minute), trigger: &mockTrigger{}},
		{name: "store failure", now: requestedAt, trigger: &mockTrigger{err: errDatabase}, expectedError: errDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorker(tt.trigger, &mockReconciler{}, tt.now)

			err := w.HandleDueCycle(context.Background(), task)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, tt.trigger.dueCalls)
			require.Len(t, tt.trigger.dueAt, 1)
			assert.True(t, requestedAt.Equal(tt.trigger.dueAt[0]), "cycle evaluated %s", tt.trigger.dueAt[0])
		})
	}
}

func TestWorker_HandleDueCycle_InvalidPayload(t *testing.T) {
	trigger := &mockTrigger{}
	w := newTestWorker(trigger, &mockReconciler{}, time.Now())

	err := w.HandleDueCycle(context.Background(), asynq.NewTask(queue.TypeDueCycle, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, trigger.dueCalls)
}

func TestWorker_HandleManualCycle(t *testing.T) {
	task, err := queue.NewManualCycleTask(time.Now(), "api", time.Minute)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		trigger := &mockTrigger{}
		w := newTestWorker(trigger, &mockReconciler{}, time.Now())

		assert.NoError(t, w.HandleManualCycle(context.Background(), task))
		assert.Equal(t, 1, trigger.manualCalls)
	})

	t.Run("store failure", func(t *testing.T) {
		w := newTestWorker(&mockTrigger{err: errDatabase}, &mockReconciler{}, time.Now())

		assert.ErrorIs(t, w.HandleManualCycle(context.Background(), task), errDatabase)
	})
}

func TestWorker_HandleReconcile(t *testing.T) {
	task, err := queue.NewReconcileTask(time.Now(), "scheduler")
	require.NoError(t, err)

	t.Run("runs both sweeps", func(t *testing.T) {
		reconciler := &mockReconciler{}
		w := newTestWorker(&mockTrigger{}, reconciler, time.Now())

		assert.NoError(t, w.HandleReconcile(context.Background(), task))
		assert.Equal(t, 1, reconciler.staleCalls)
		assert.Equal(t, 1, reconciler.refreshCalls)
	})

	t.Run("stale sweep failure stops", func(t *testing.T) {
		reconciler := &mockReconciler{staleErr: errDatabase}
		w := newTestWorker(&mockTrigger{}, reconciler, time.Now())

		assert.ErrorIs(t, w.HandleReconcile(context.Background(), task), errDatabase)
		assert.Zero(t, reconciler.refreshCalls)
	})
}

// scheduleTable returns the schedules whose hour and minute match, like the repository query
type scheduleTable []models.ScheduledTaskWithModel

func (s scheduleTable) GetDueCandidates(ctx context.Context, hour, minute int) ([]models.ScheduledTaskWithModel, error) {
	var due []models.ScheduledTaskWithModel
	for _, schedule := range s {
		if schedule.IsActive && schedule.ExecutionHour == hour && schedule.ExecutionMinute == minute {
			due = append(due, schedule)
		}
	}
	return due, nil
}

func (s scheduleTable) GetAllActive(ctx context.Context) ([]models.ScheduledTaskWithModel, error) {
	return s, nil
}

type recordingPipeline struct {
	executed []int
}

func (p *recordingPipeline) Execute(ctx context.Context, schedule *models.ScheduledTaskWithModel) (models.ExecutionResult, error) {
	p.executed = append(p.executed, schedule.ID)
	return models.ExecutionResult{Success: true, MessageID: schedule.ID}, nil
}

func TestWorker_HandleDueCycle_LateCycleRunsQueuedMinute(t *testing.T) {
	schedule := func(id, minute int) models.ScheduledTaskWithModel {
		return models.ScheduledTaskWithModel{ScheduledTask: models.ScheduledTask{
			ID: id, Name: "news", IsActive: true, ScheduleType: models.ScheduleTypeDaily,
			ExecutionHour: 9, ExecutionMinute: minute, Timezone: "UTC",
		}}
	}
	table := scheduleTable{schedule(1, 1), schedule(2, 2)}
	queuedFor := time.Date(2024, 5, 1, 9, 1, 0, 0, time.UTC)
	handledAt := time.Date(2024, 5, 1, 9, 2, 30, 0, time.UTC)

	pipeline := &recordingPipeline{}
	trigger := services.NewTriggerService(
		clock.NewCalendarWithClock(func() time.Time { return handledAt }, zap.NewNop()),
		services.NewDueScheduleService(table, zap.NewNop()),
		table,
		pipeline,
		nil,
		services.TriggerConfig{Timezone: "UTC", CycleTimeout: time.Minute},
		zap.NewNop(),
	)
	w := NewWorker(trigger, &mockReconciler{}, zap.NewNop())
	w.now = func() time.Time { return handledAt }

	task, err := queue.NewDueCycleTask(queuedFor, "scheduler", time.Minute)
	require.NoError(t, err)

	require.NoError(t, w.HandleDueCycle(context.Background(), task))
	assert.Equal(t, []int{1}, pipeline.executed)
}
