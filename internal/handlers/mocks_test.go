package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/messageflow/backend/internal/models"
	"github.com/stretchr/testify/require"
)

var errDatabase = errors.New("database error")

// serve routes a request through a chi router configured by register
func serve(register func(r chi.Router), method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	register(r)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// mockTriggerService is a mock implementation of TriggerService
type mockTriggerService struct {
	cycle     *models.CycleSummary
	cycleErr  error
	manual    *models.ManualSummary
	manualErr error
}

func (m *mockTriggerService) RunDueCycle(ctx context.Context) (*models.CycleSummary, error) {
	return m.cycle, m.cycleErr
}

func (m *mockTriggerService) RunAllActive(ctx context.Context) (*models.ManualSummary, error) {
	return m.manual, m.manualErr
}

// mockCycleHistory is a mock implementation of CycleHistoryReader
type mockCycleHistory struct {
	records []models.CycleRecord
	err     error
	limit   int
}

func (m *mockCycleHistory) Recent(ctx context.Context, limit int) ([]models.CycleRecord, error) {
	m.limit = limit
	return m.records, m.err
}

// mockEnqueuer is a mock implementation of TaskEnqueuer
type mockEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (m *mockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tasks = append(m.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: "cycles", Type: task.Type()}, nil
}

// mockAIModelService is a mock implementation of AIModelService
type mockAIModelService struct {
	model     *models.AIModel
	list      []models.AIModel
	err       error
	active    *bool
	createReq *models.CreateAIModelRequest
	updateReq *models.UpdateAIModelRequest
	deletedID int
}

func (m *mockAIModelService) Create(ctx context.Context, req *models.CreateAIModelRequest) (*models.AIModel, error) {
	m.createReq = req
	return m.model, m.err
}

func (m *mockAIModelService) GetByID(ctx context.Context, id int) (*models.AIModel, error) {
	return m.model, m.err
}

func (m *mockAIModelService) GetAll(ctx context.Context, active *bool) ([]models.AIModel, error) {
	m.active = active
	return m.list, m.err
}

func (m *mockAIModelService) Update(ctx context.Context, id int, req *models.UpdateAIModelRequest) (*models.AIModel, error) {
	m.updateReq = req
	return m.model, m.err
}

func (m *mockAIModelService) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.err
}

// mockScheduledTaskService is a mock implementation of ScheduledTaskService
type mockScheduledTaskService struct {
	task       *models.ScheduledTask
	withModel  *models.ScheduledTaskWithModel
	list       []models.ScheduledTaskListItem
	executions []models.TaskExecution
	err        error

	page, count, aiModelID int
	active                 *bool
	createReq              *models.CreateScheduledTaskRequest
	updateReq              *models.UpdateScheduledTaskRequest
}

func (m *mockScheduledTaskService) Create(ctx context.Context, req *models.CreateScheduledTaskRequest) (*models.ScheduledTask, error) {
	m.createReq = req
	return m.task, m.err
}

func (m *mockScheduledTaskService) GetByID(ctx context.Context, id int) (*models.ScheduledTaskWithModel, error) {
	return m.withModel, m.err
}

func (m *mockScheduledTaskService) GetAll(ctx context.Context, page, count, aiModelID int, active *bool) ([]models.ScheduledTaskListItem, error) {
	m.page, m.count, m.aiModelID, m.active = page, count, aiModelID, active
	return m.list, m.err
}

func (m *mockScheduledTaskService) Update(ctx context.Context, id int, req *models.UpdateScheduledTaskRequest) (*models.ScheduledTask, error) {
	m.updateReq = req
	return m.task, m.err
}

func (m *mockScheduledTaskService) Delete(ctx context.Context, id int) error {
	return m.err
}

func (m *mockScheduledTaskService) GetExecutions(ctx context.Context, id, page, count int) ([]models.TaskExecution, error) {
	m.page, m.count = page, count
	return m.executions, m.err
}

// mockMessageService is a mock implementation of MessageService
type mockMessageService struct {
	message  *models.MessageWithDetails
	messages []models.MessageWithDetails
	err      error

	page, count int
	filter      models.MessageFilter
	id          int
	flag        bool
}

func (m *mockMessageService) GetAll(ctx context.Context, page, count int, filter models.MessageFilter) ([]models.MessageWithDetails, error) {
	m.page, m.count, m.filter = page, count, filter
	return m.messages, m.err
}

func (m *mockMessageService) GetFavorites(ctx context.Context, page, count int) ([]models.MessageWithDetails, error) {
	m.page, m.count = page, count
	return m.messages, m.err
}

func (m *mockMessageService) GetByID(ctx context.Context, id int) (*models.MessageWithDetails, error) {
	return m.message, m.err
}

func (m *mockMessageService) MarkRead(ctx context.Context, id int, isRead bool) error {
	m.id, m.flag = id, isRead
	return m.err
}

func (m *mockMessageService) SetFavorite(ctx context.Context, id int, isFavorite bool) error {
	m.id, m.flag = id, isFavorite
	return m.err
}

func (m *mockMessageService) Delete(ctx context.Context, id int) error {
	m.id = id
	return m.err
}
