package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/messageflow/backend/internal/ai"
	"github.com/messageflow/backend/internal/models"
	"gopkg.in/mail.v2"
)

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

// newSchedule builds an active scheduled task joined with an openai model
func newSchedule(id int, name string, scheduleType models.ScheduleType, hour, minute int) models.ScheduledTaskWithModel {
	return models.ScheduledTaskWithModel{
		ScheduledTask: models.ScheduledTask{
			ID:              id,
			Name:            name,
			AIModelID:       1,
			PromptContent:   "prompt of " + name,
			IsActive:        true,
			ScheduleType:    scheduleType,
			ExecutionHour:   hour,
			ExecutionMinute: minute,
			Timezone:        "UTC",
		},
		AIModelCompany: "openai",
		AIModelName:    "gpt-4o",
	}
}

// fakeExecutionStore is an in-memory ExecutionRepository recording every row it writes
type fakeExecutionStore struct {
	mu             sync.Mutex
	executions     map[int]*models.TaskExecution
	messages       []models.Message
	lastExecution  map[int]time.Time
	nextExecution  map[int]*time.Time
	nextID         int
	createErr      error
	completeErr    error
	markFailedErr  error
	markFailedErrs []error
}

func newFakeExecutionStore() *fakeExecutionStore {
	return &fakeExecutionStore{
		executions:    make(map[int]*models.TaskExecution),
		lastExecution: make(map[int]time.Time),
		nextExecution: make(map[int]*time.Time),
	}
}

func (f *fakeExecutionStore) CreateRunning(ctx context.Context, execution *models.TaskExecution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	execution.ID = f.nextID
	execution.Status = models.ExecutionStatusRunning
	stored := *execution
	f.executions[execution.ID] = &stored
	return nil
}

func (f *fakeExecutionStore) MarkFailed(ctx context.Context, id int, finishedAt time.Time, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markFailedErrs = append(f.markFailedErrs, ctx.Err())
	if f.markFailedErr != nil {
		return f.markFailedErr
	}
	execution, ok := f.executions[id]
	if !ok {
		return models.ErrNotFound
	}
	if execution.Status != models.ExecutionStatusRunning {
		return nil
	}
	execution.Status = models.ExecutionStatusFailed
	execution.ActualFinishTime = &finishedAt
	execution.ErrorMessage = &errorMessage
	return nil
}

func (f *fakeExecutionStore) CompleteWithMessage(ctx context.Context, executionID int, message *models.Message, finishedAt time.Time, nextExecution *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	execution, ok := f.executions[executionID]
	if !ok {
		return models.ErrNotFound
	}
	message.ID = len(f.messages) + 100
	message.TaskExecutionID = executionID
	message.ExecutionCompletionTime = finishedAt
	f.messages = append(f.messages, *message)
	execution.Status = models.ExecutionStatusSuccess
	execution.ActualFinishTime = &finishedAt
	f.lastExecution[message.ScheduledTaskID] = finishedAt
	f.nextExecution[message.ScheduledTaskID] = nextExecution
	return nil
}

func (f *fakeExecutionStore) executionsOf(scheduleID int) []models.TaskExecution {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.TaskExecution
	for _, execution := range f.executions {
		if execution.ScheduledTaskID == scheduleID {
			result = append(result, *execution)
		}
	}
	return result
}

// mockAIExecutor is a mock implementation of AIExecutor answering per prompt
type mockAIExecutor struct {
	mu        sync.Mutex
	results   map[string]ai.Result
	fallback  ai.Result
	panicWith any
	calls     int
}

func (m *mockAIExecutor) Execute(ctx context.Context, companyName, modelName, prompt string, opts ...ai.Option) ai.Result {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	if result, ok := m.results[prompt]; ok {
		return result
	}
	return m.fallback
}

// mockNotifier is a mock implementation of MessageNotifier
type mockNotifier struct {
	notified []int
	err      error
	panicMsg string
}

func (m *mockNotifier) NotifyMessage(ctx context.Context, schedule *models.ScheduledTaskWithModel, message *models.Message) error {
	m.notified = append(m.notified, message.ID)
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.err
}

// mockDueScheduleRepository is a mock implementation of DueScheduleRepository
type mockDueScheduleRepository struct {
	candidates []models.ScheduledTaskWithModel
	err        error
	hour       int
	minute     int
}

func (m *mockDueScheduleRepository) GetDueCandidates(ctx context.Context, hour, minute int) ([]models.ScheduledTaskWithModel, error) {
	m.hour, m.minute = hour, minute
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

// mockClock is a mock implementation of Clock returning a fixed instant
type mockClock struct {
	instant  models.CalendarInstant
	timezone string
	at       time.Time
}

func (m *mockClock) Now(timezone string) models.CalendarInstant {
	m.timezone = timezone
	return m.instant
}

func (m *mockClock) At(t time.Time, timezone string) models.CalendarInstant {
	m.timezone = timezone
	m.at = t
	return m.instant
}

// mockFinder is a mock implementation of DueScheduleFinder
type mockFinder struct {
	schedules []models.ScheduledTaskWithModel
	err       error
	args      []int
}

func (m *mockFinder) FindDue(ctx context.Context, hour, minute, dayOfWeek, dayOfMonth int) ([]models.ScheduledTaskWithModel, error) {
	m.args = []int{hour, minute, dayOfWeek, dayOfMonth}
	if m.err != nil {
		return nil, m.err
	}
	return m.schedules, nil
}

// mockActiveScheduleRepository is a mock implementation of ActiveScheduleRepository
type mockActiveScheduleRepository struct {
	schedules []models.ScheduledTaskWithModel
	err       error
}

func (m *mockActiveScheduleRepository) GetAllActive(ctx context.Context) ([]models.ScheduledTaskWithModel, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.schedules, nil
}

// mockPipeline is a mock implementation of ExecutionPipeline keyed by schedule ID
type mockPipeline struct {
	mu       sync.Mutex
	results  map[int]models.ExecutionResult
	errs     map[int]error
	panics   map[int]bool
	executed []int
	delay    time.Duration
	running  int
	peak     int
}

func (m *mockPipeline) Execute(ctx context.Context, schedule *models.ScheduledTaskWithModel) (models.ExecutionResult, error) {
	m.mu.Lock()
	m.executed = append(m.executed, schedule.ID)
	m.running++
	if m.running > m.peak {
		m.peak = m.running
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running--
		m.mu.Unlock()
	}()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.panics[schedule.ID] {
		panic("pipeline exploded")
	}
	if err := m.errs[schedule.ID]; err != nil {
		return models.ExecutionResult{Success: false, Error: err.Error()}, err
	}
	if result, ok := m.results[schedule.ID]; ok {
		return result, nil
	}
	return models.ExecutionResult{Success: true, MessageID: schedule.ID * 10}, nil
}

// mockCycleHistory is a mock implementation of CycleHistory
type mockCycleHistory struct {
	records []models.CycleRecord
	err     error
}

func (m *mockCycleHistory) Record(ctx context.Context, record models.CycleRecord) error {
	m.records = append(m.records, record)
	return m.err
}

// mockStaleExecutionRepository is a mock implementation of StaleExecutionRepository
type mockStaleExecutionRepository struct {
	count        int64
	err          error
	olderThan    time.Time
	finishedAt   time.Time
	errorMessage string
}

func (m *mockStaleExecutionRepository) MarkStaleRunningFailed(ctx context.Context, olderThan, finishedAt time.Time, errorMessage string) (int64, error) {
	m.olderThan, m.finishedAt, m.errorMessage = olderThan, finishedAt, errorMessage
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

// mockNextRunRepository is a mock implementation of NextRunRepository
type mockNextRunRepository struct {
	schedules []models.ScheduledTaskWithModel
	err       error
	updateErr error
	updates   map[int]time.Time
}

func (m *mockNextRunRepository) GetAllActive(ctx context.Context) ([]models.ScheduledTaskWithModel, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.schedules, nil
}

func (m *mockNextRunRepository) UpdateNextExecutionTime(ctx context.Context, id int, next *time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updates == nil {
		m.updates = make(map[int]time.Time)
	}
	m.updates[id] = *next
	return nil
}

// mockMailSender is a mock implementation of MailSender
type mockMailSender struct {
	sent []*mail.Message
	err  error
}

func (m *mockMailSender) DialAndSend(messages ...*mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, messages...)
	return nil
}

// mockAIModelRepository is a mock implementation of AIModelRepository
type mockAIModelRepository struct {
	model     *models.AIModel
	list      []models.AIModel
	err       error
	createErr error
	updateErr error
	deleteErr error
	updated   *models.AIModel
}

func (m *mockAIModelRepository) Create(ctx context.Context, model *models.AIModel) error {
	if m.createErr != nil {
		return m.createErr
	}
	model.ID = 1
	return nil
}

func (m *mockAIModelRepository) GetByID(ctx context.Context, id int) (*models.AIModel, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.model == nil {
		return nil, models.ErrNotFound
	}
	copied := *m.model
	return &copied, nil
}

func (m *mockAIModelRepository) GetAll(ctx context.Context, active *bool) ([]models.AIModel, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

func (m *mockAIModelRepository) Update(ctx context.Context, model *models.AIModel) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = model
	return nil
}

func (m *mockAIModelRepository) Delete(ctx context.Context, id int) error {
	return m.deleteErr
}

// mockScheduledTaskRepository is a mock implementation of ScheduledTaskRepository
type mockScheduledTaskRepository struct {
	task      *models.ScheduledTaskWithModel
	tasks     []models.ScheduledTaskListItem
	err       error
	createErr error
	updateErr error
	deleteErr error
	created   *models.ScheduledTask
	updated   *models.ScheduledTask
}

func (m *mockScheduledTaskRepository) Create(ctx context.Context, task *models.ScheduledTask) error {
	if m.createErr != nil {
		return m.createErr
	}
	task.ID = 1
	m.created = task
	return nil
}

func (m *mockScheduledTaskRepository) GetByID(ctx context.Context, id int) (*models.ScheduledTaskWithModel, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.task == nil {
		return nil, models.ErrNotFound
	}
	copied := *m.task
	return &copied, nil
}

func (m *mockScheduledTaskRepository) GetAll(ctx context.Context, page, count, aiModelID int, active *bool) ([]models.ScheduledTaskListItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tasks, nil
}

func (m *mockScheduledTaskRepository) Update(ctx context.Context, task *models.ScheduledTask) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = task
	return nil
}

func (m *mockScheduledTaskRepository) Delete(ctx context.Context, id int) error {
	return m.deleteErr
}

// mockTaskExecutionReader is a mock implementation of TaskExecutionReader
type mockTaskExecutionReader struct {
	executions []models.TaskExecution
	err        error
}

func (m *mockTaskExecutionReader) GetByScheduledTask(ctx context.Context, scheduledTaskID, page, count int) ([]models.TaskExecution, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.executions, nil
}

// mockMessageRepository is a mock implementation of MessageRepository
type mockMessageRepository struct {
	message    *models.MessageWithDetails
	messages   []models.MessageWithDetails
	err        error
	filter     models.MessageFilter
	readID     int
	isRead     bool
	favoriteID int
	isFavorite bool
	at         time.Time
}

func (m *mockMessageRepository) GetAll(ctx context.Context, page, count int, filter models.MessageFilter) ([]models.MessageWithDetails, error) {
	m.filter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.messages, nil
}

func (m *mockMessageRepository) GetByID(ctx context.Context, id int) (*models.MessageWithDetails, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.message == nil {
		return nil, models.ErrNotFound
	}
	return m.message, nil
}

func (m *mockMessageRepository) SetRead(ctx context.Context, id int, isRead bool, at time.Time) error {
	m.readID, m.isRead, m.at = id, isRead, at
	return m.err
}

func (m *mockMessageRepository) SetFavorite(ctx context.Context, id int, isFavorite bool, at time.Time) error {
	m.favoriteID, m.isFavorite, m.at = id, isFavorite, at
	return m.err
}

func (m *mockMessageRepository) Delete(ctx context.Context, id int) error {
	return m.err
}

var errDatabase = errors.New("database error")
