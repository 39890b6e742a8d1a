package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/messageflow/backend/internal/ai"
	"github.com/messageflow/backend/internal/bootstrap"
	"github.com/messageflow/backend/internal/clock"
	"github.com/messageflow/backend/internal/config"
	"github.com/messageflow/backend/internal/handlers"
	"github.com/messageflow/backend/internal/models"
	"github.com/messageflow/backend/internal/repositories"
	"github.com/messageflow/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB     *sql.DB
	testLogger *zap.Logger
)

// stubProvider answers every prompt with its upper-cased text and fails prompts starting with "fail"
type stubProvider struct{}

func (stubProvider) Generate(ctx context.Context, req ai.Request) (string, error) {
	if strings.HasPrefix(req.Prompt, "fail") {
		return "", errors.New("provider error (503): upstream unavailable")
	}
	return strings.ToUpper(req.Prompt), nil
}

// TestMain sets up and tears down the test environment
func TestMain(m *testing.M) {
	testLogger = zap.NewNop()

	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}
	if !cfg.HasDatabase() {
		fmt.Println("TEST_DB_* is not set, skipping integration tests")
		os.Exit(0)
	}

	testDB, err = bootstrap.ConnectDB(cfg.DSN())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}

	if err := bootstrap.RunMigrations(testDB); err != nil {
		panic(fmt.Sprintf("Failed to run migrations: %v", err))
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

// cleanupTestData removes every row in dependency order
func cleanupTestData(t *testing.T) {
	t.Helper()
	for _, table := range []string{"messages", "task_executions", "scheduled_tasks", "ai_models"} {
		_, err := testDB.Exec("DELETE FROM " + table)
		require.NoError(t, err, "Failed to clear %s", table)
	}
}

// seedModel inserts an active AI model
func seedModel(t *testing.T) *models.AIModel {
	t.Helper()
	model := &models.AIModel{CompanyName: "openai", ModelName: "gpt-4o", IsActive: true}
	require.NoError(t, repositories.NewAIModelRepository(testDB).Create(context.Background(), model))
	return model
}

// seedTask inserts a scheduled task running at 09:00 UTC
func seedTask(t *testing.T, modelID int, name, prompt string, mutate func(task *models.ScheduledTask)) *models.ScheduledTask {
	t.Helper()
	task := &models.ScheduledTask{
		Name:            name,
		AIModelID:       modelID,
		PromptContent:   prompt,
		IsActive:        true,
		ScheduleType:    models.ScheduleTypeDaily,
		ExecutionHour:   9,
		ExecutionMinute: 0,
		Timezone:        "UTC",
	}
	if mutate != nil {
		mutate(task)
	}
	require.NoError(t, repositories.NewScheduledTaskRepository(testDB).Create(context.Background(), task))
	return task
}

// setupTestRouter creates a router running cycles at now with the stub provider
func setupTestRouter(now time.Time) chi.Router {
	scheduledTaskRepo := repositories.NewScheduledTaskRepository(testDB)
	executionRepo := repositories.NewTaskExecutionRepository(testDB)

	executor := ai.NewExecutor(stubProvider{}, 5*time.Second, false, testLogger)
	trigger := services.NewTriggerService(
		clock.NewCalendarWithClock(func() time.Time { return now }, testLogger),
		services.NewDueScheduleService(scheduledTaskRepo, testLogger),
		scheduledTaskRepo,
		services.NewExecutionService(executionRepo, executor, nil, testLogger),
		nil,
		services.TriggerConfig{Timezone: "UTC", Concurrency: 2, CycleTimeout: time.Minute},
		testLogger,
	)
	triggerHandler := handlers.NewTriggerHandler(trigger, nil, nil, time.Minute, testLogger)

	r := chi.NewRouter()
	triggerHandler.RegisterCronRoutes(r)
	triggerHandler.RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r chi.Router, method, target string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestIntegration_FindDue(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cleanupTestData(t)
	defer cleanupTestData(t)

	model := seedModel(t)
	daily := seedTask(t, model.ID, "Daily", "daily", nil)
	wednesday := seedTask(t, model.ID, "Wednesday", "weekly", func(task *models.ScheduledTask) {
		task.ScheduleType = models.ScheduleTypeWeekly
		task.DayOfWeek = intPtr(3)
	})
	seedTask(t, model.ID, "Thursday", "weekly", func(task *models.ScheduledTask) {
		task.ScheduleType = models.ScheduleTypeWeekly
		task.DayOfWeek = intPtr(4)
	})
	seedTask(t, model.ID, "Last day", "monthly", func(task *models.ScheduledTask) {
		task.ScheduleType = models.ScheduleTypeMonthly
		task.DayOfMonth = intPtr(31)
	})
	seedTask(t, model.ID, "Inactive", "daily", func(task *models.ScheduledTask) { task.IsActive = false })
	seedTask(t, model.ID, "Later", "daily", func(task *models.ScheduledTask) { task.ExecutionMinute = 1 })

	finder := services.NewDueScheduleService(repositories.NewScheduledTaskRepository(testDB), testLogger)

	// Wednesday the 30th of a 30-day month
	due, err := finder.FindDue(context.Background(), 9, 0, 3, 30)

	require.NoError(t, err)
	ids := make([]int, 0, len(due))
	for _, task := range due {
		ids = append(ids, task.ID)
		assert.Equal(t, "openai", task.AIModelCompany)
	}
	assert.ElementsMatch(t, []int{daily.ID, wednesday.ID}, ids)
}

func TestIntegration_PeriodicCycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cleanupTestData(t)
	defer cleanupTestData(t)

	model := seedModel(t)
	ok := seedTask(t, model.ID, "News", "news please", nil)
	failing := seedTask(t, model.ID, "Broken", "fail please", nil)

	// Wednesday 1 May 2024, 09:00 UTC
	r := setupTestRouter(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	body := doRequest(t, r, http.MethodGet, "/cron/execute-schedules")

	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["executed"])

	// Success: one success execution, one message titled with the task name, last run recorded
	var status string
	require.NoError(t, testDB.QueryRow(
		"SELECT execution_status FROM task_executions WHERE scheduled_task_id = ?", ok.ID,
	).Scan(&status))
	assert.Equal(t, "success", status)

	var content, title string
	require.NoError(t, testDB.QueryRow(
		"SELECT content, title FROM messages WHERE scheduled_task_id = ?", ok.ID,
	).Scan(&content, &title))
	assert.Equal(t, "NEWS PLEASE", content)
	assert.Equal(t, "News", title)

	var lastExecution sql.NullTime
	require.NoError(t, testDB.QueryRow("SELECT last_execution_time FROM scheduled_tasks WHERE id = ?", ok.ID).Scan(&lastExecution))
	assert.True(t, lastExecution.Valid)

	// Failure: one failed execution with the provider error, no message, last run unchanged
	var errorMessage string
	require.NoError(t, testDB.QueryRow(
		"SELECT execution_status, error_message FROM task_executions WHERE scheduled_task_id = ?", failing.ID,
	).Scan(&status, &errorMessage))
	assert.Equal(t, "failed", status)
	assert.Equal(t, "provider error (503): upstream unavailable", errorMessage)

	var messageCount int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM messages WHERE scheduled_task_id = ?", failing.ID).Scan(&messageCount))
	assert.Zero(t, messageCount)

	require.NoError(t, testDB.QueryRow("SELECT last_execution_time FROM scheduled_tasks WHERE id = ?", failing.ID).Scan(&lastExecution))
	assert.False(t, lastExecution.Valid)
}

func TestIntegration_PeriodicCycle_NothingDue(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cleanupTestData(t)
	defer cleanupTestData(t)

	model := seedModel(t)
	seedTask(t, model.ID, "News", "news please", nil)

	r := setupTestRouter(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	body := doRequest(t, r, http.MethodGet, "/cron/execute-schedules")

	assert.Equal(t, float64(0), body["executed"])
	assert.Equal(t, handlers.NoSchedulesDue, body["message"])
}

func TestIntegration_ManualRun(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cleanupTestData(t)
	defer cleanupTestData(t)

	model := seedModel(t)
	seedTask(t, model.ID, "Morning", "morning", nil)
	seedTask(t, model.ID, "Evening", "evening", func(task *models.ScheduledTask) { task.ExecutionHour = 18 })
	seedTask(t, model.ID, "Broken", "fail now", func(task *models.ScheduledTask) {
		task.ScheduleType = models.ScheduleTypeMonthly
		task.DayOfMonth = intPtr(15)
	})

	r := setupTestRouter(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	body := doRequest(t, r, http.MethodPost, "/schedules/execute")

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(2), data["successful"])
	assert.Equal(t, float64(1), data["failed"])

	var executions int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM task_executions").Scan(&executions))
	assert.Equal(t, 3, executions)
}

func intPtr(v int) *int {
	return &v
}
