package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/messageflow/backend/internal/models"
)

type taskExecutionRepository struct {
	db *sql.DB
}

// NewTaskExecutionRepository creates a new task execution repository
func NewTaskExecutionRepository(db *sql.DB) *taskExecutionRepository {
	return &taskExecutionRepository{db: db}
}

// CreateRunning inserts execution in the running state. It is committed on its own
// so the attempt is recorded before the AI call starts.
func (r *taskExecutionRepository) CreateRunning(ctx context.Context, execution *models.TaskExecution) error {
	query := `
		INSERT INTO task_executions (
			scheduled_task_id, ai_model_id, scheduled_execution_time, actual_start_time,
			execution_status, prompt_snapshot
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		execution.ScheduledTaskID,
		execution.AIModelID,
		execution.ScheduledExecutionTime,
		execution.ActualStartTime,
		models.ExecutionStatusRunning,
		execution.PromptSnapshot,
	)
	if err != nil {
		return fmt.Errorf("failed to create task execution: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	execution.ID = int(id)
	execution.Status = models.ExecutionStatusRunning
	return nil
}

// MarkFailed moves a running execution to failed with its finish time and error text.
// An execution that already finished keeps its outcome.
func (r *taskExecutionRepository) MarkFailed(ctx context.Context, id int, finishedAt time.Time, errorMessage string) error {
	query := `
		UPDATE task_executions
		SET execution_status = ?, actual_finish_time = ?, error_message = ?
		WHERE id = ? AND execution_status = ?
	`

	if _, err := r.db.ExecContext(ctx, query, models.ExecutionStatusFailed, finishedAt, errorMessage, id, models.ExecutionStatusRunning); err != nil {
		return fmt.Errorf("failed to mark task execution as failed: %w", err)
	}
	return nil
}

// CompleteWithMessage records a successful execution in one transaction: it inserts message,
// moves the execution to success and stores the run on the scheduled task.
// message.ID is set on success.
func (r *taskExecutionRepository) CompleteWithMessage(ctx context.Context, executionID int, message *models.Message, finishedAt time.Time, nextExecution *time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertMessage := `
		INSERT INTO messages (
			scheduled_task_id, task_execution_id, content, content_format, title, summary,
			execution_completion_time, priority
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, insertMessage,
		message.ScheduledTaskID,
		executionID,
		message.Content,
		message.ContentFormat,
		message.Title,
		message.Summary,
		finishedAt,
		message.Priority,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	messageID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	updateExecution := `
		UPDATE task_executions
		SET execution_status = ?, actual_finish_time = ?
		WHERE id = ?
	`
	if _, err = tx.ExecContext(ctx, updateExecution, models.ExecutionStatusSuccess, finishedAt, executionID); err != nil {
		return fmt.Errorf("failed to mark task execution as successful: %w", err)
	}

	updateTask := `
		UPDATE scheduled_tasks
		SET last_execution_time = ?, next_execution_time = ?
		WHERE id = ?
	`
	if _, err = tx.ExecContext(ctx, updateTask, finishedAt, nextExecution, message.ScheduledTaskID); err != nil {
		return fmt.Errorf("failed to update scheduled task last execution time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	message.ID = int(messageID)
	message.TaskExecutionID = executionID
	message.ExecutionCompletionTime = finishedAt
	return nil
}

// MarkStaleRunningFailed fails every running execution dispatched before olderThan
// and returns how many rows were changed
func (r *taskExecutionRepository) MarkStaleRunningFailed(ctx context.Context, olderThan, finishedAt time.Time, errorMessage string) (int64, error) {
	query := `
		UPDATE task_executions
		SET execution_status = ?, actual_finish_time = ?, error_message = ?
		WHERE execution_status = ? AND scheduled_execution_time < ?
	`

	result, err := r.db.ExecContext(ctx, query,
		models.ExecutionStatusFailed, finishedAt, errorMessage,
		models.ExecutionStatusRunning, olderThan,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark stale task executions as failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// GetByID retrieves a task execution by ID
func (r *taskExecutionRepository) GetByID(ctx context.Context, id int) (*models.TaskExecution, error) {
	query := `
		SELECT id, scheduled_task_id, ai_model_id, scheduled_execution_time, actual_start_time,
			actual_finish_time, execution_status, error_message, prompt_snapshot, created_at
		FROM task_executions
		WHERE id = ?
		LIMIT 1
	`

	execution := &models.TaskExecution{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&execution.ID,
		&execution.ScheduledTaskID,
		&execution.AIModelID,
		&execution.ScheduledExecutionTime,
		&execution.ActualStartTime,
		&execution.ActualFinishTime,
		&execution.Status,
		&execution.ErrorMessage,
		&execution.PromptSnapshot,
		&execution.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task execution %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task execution by ID: %w", err)
	}

	return execution, nil
}

// GetByScheduledTask retrieves a paginated list of executions of a scheduled task, newest first
func (r *taskExecutionRepository) GetByScheduledTask(ctx context.Context, scheduledTaskID, page, count int) ([]models.TaskExecution, error) {
	query := `
		SELECT id, scheduled_task_id, ai_model_id, scheduled_execution_time, actual_start_time,
			actual_finish_time, execution_status, error_message, prompt_snapshot, created_at
		FROM task_executions
		WHERE scheduled_task_id = ?
		ORDER BY scheduled_execution_time DESC, id DESC
		LIMIT ? OFFSET ?
	`

	offset := (page - 1) * count
	rows, err := r.db.QueryContext(ctx, query, scheduledTaskID, count, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query task executions: %w", err)
	}
	defer rows.Close()

	var executions []models.TaskExecution
	for rows.Next() {
		var execution models.TaskExecution
		if err := rows.Scan(
			&execution.ID,
			&execution.ScheduledTaskID,
			&execution.AIModelID,
			&execution.ScheduledExecutionTime,
			&execution.ActualStartTime,
			&execution.ActualFinishTime,
			&execution.Status,
			&execution.ErrorMessage,
			&execution.PromptSnapshot,
			&execution.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task execution: %w", err)
		}
		executions = append(executions, execution)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return executions, nil
}
