package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/messageflow/backend/internal/models"
)

// scheduledTaskWithModelColumns selects a scheduled task joined with its AI model, in scanScheduledTaskWithModel order
const scheduledTaskWithModelColumns = `
	st.id, st.name, st.ai_model_id, st.prompt_content, st.remark, st.is_active,
	st.schedule_type, st.execution_hour, st.execution_minute, st.timezone,
	st.day_of_week, st.day_of_month, st.effective_start_time, st.effective_end_time,
	st.last_execution_time, st.next_execution_time, st.created_at, st.updated_at,
	am.company_name, am.model_name
`

type rowScanner interface {
	Scan(dest ...any) error
}

type scheduledTaskRepository struct {
	db *sql.DB
}

// NewScheduledTaskRepository creates a new scheduled task repository
func NewScheduledTaskRepository(db *sql.DB) *scheduledTaskRepository {
	return &scheduledTaskRepository{db: db}
}

func scanScheduledTaskWithModel(row rowScanner) (*models.ScheduledTaskWithModel, error) {
	task := &models.ScheduledTaskWithModel{}
	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.AIModelID,
		&task.PromptContent,
		&task.Remark,
		&task.IsActive,
		&task.ScheduleType,
		&task.ExecutionHour,
		&task.ExecutionMinute,
		&task.Timezone,
		&task.DayOfWeek,
		&task.DayOfMonth,
		&task.EffectiveStartTime,
		&task.EffectiveEndTime,
		&task.LastExecutionTime,
		&task.NextExecutionTime,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.AIModelCompany,
		&task.AIModelName,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *scheduledTaskRepository) queryWithModel(ctx context.Context, query string, args ...any) ([]models.ScheduledTaskWithModel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.ScheduledTaskWithModel
	for rows.Next() {
		task, err := scanScheduledTaskWithModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

// Create inserts a new scheduled task
func (r *scheduledTaskRepository) Create(ctx context.Context, task *models.ScheduledTask) error {
	query := `
		INSERT INTO scheduled_tasks (
			name, ai_model_id, prompt_content, remark, is_active, schedule_type,
			execution_hour, execution_minute, timezone, day_of_week, day_of_month,
			effective_start_time, effective_end_time, next_execution_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		task.Name, task.AIModelID, task.PromptContent, task.Remark, task.IsActive, task.ScheduleType,
		task.ExecutionHour, task.ExecutionMinute, task.Timezone, task.DayOfWeek, task.DayOfMonth,
		task.EffectiveStartTime, task.EffectiveEndTime, task.NextExecutionTime,
	)
	if err != nil {
		if isReferenceViolation(err) {
			return fmt.Errorf("ai model %d does not exist: %w", task.AIModelID, models.ErrInvalidInput)
		}
		return fmt.Errorf("failed to create scheduled task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = int(id)
	return nil
}

// GetByID retrieves a scheduled task with its AI model by ID
func (r *scheduledTaskRepository) GetByID(ctx context.Context, id int) (*models.ScheduledTaskWithModel, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM scheduled_tasks st
		JOIN ai_models am ON st.ai_model_id = am.id
		WHERE st.id = ?
		LIMIT 1
	`, scheduledTaskWithModelColumns)

	task, err := scanScheduledTaskWithModel(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scheduled task %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled task by ID: %w", err)
	}

	return task, nil
}

// GetAll retrieves a paginated list of scheduled tasks with optional filters, newest first
func (r *scheduledTaskRepository) GetAll(ctx context.Context, page, count, aiModelID int, active *bool) ([]models.ScheduledTaskListItem, error) {
	var whereConditions []string
	var args []any

	if aiModelID != 0 {
		whereConditions = append(whereConditions, "st.ai_model_id = ?")
		args = append(args, aiModelID)
	}

	if active != nil {
		whereConditions = append(whereConditions, "st.is_active = ?")
		args = append(args, *active)
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	offset := (page - 1) * count

	query := fmt.Sprintf(`
		SELECT st.id, st.name, st.ai_model_id, am.company_name, am.model_name, st.is_active,
			st.schedule_type, st.execution_hour, st.execution_minute, st.day_of_week, st.day_of_month,
			st.last_execution_time, st.next_execution_time, st.created_at
		FROM scheduled_tasks st
		JOIN ai_models am ON st.ai_model_id = am.id
		%s
		ORDER BY st.created_at DESC
		LIMIT ? OFFSET ?
	`, whereClause)

	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.ScheduledTaskListItem
	for rows.Next() {
		var task models.ScheduledTaskListItem
		err := rows.Scan(
			&task.ID,
			&task.Name,
			&task.AIModelID,
			&task.AIModelCompany,
			&task.AIModelName,
			&task.IsActive,
			&task.ScheduleType,
			&task.ExecutionHour,
			&task.ExecutionMinute,
			&task.DayOfWeek,
			&task.DayOfMonth,
			&task.LastExecutionTime,
			&task.NextExecutionTime,
			&task.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

// GetDueCandidates retrieves active scheduled tasks set to run at hour:minute, joined with their AI model.
// Day rules are not applied here.
func (r *scheduledTaskRepository) GetDueCandidates(ctx context.Context, hour, minute int) ([]models.ScheduledTaskWithModel, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM scheduled_tasks st
		JOIN ai_models am ON st.ai_model_id = am.id
		WHERE st.is_active = TRUE
			AND st.execution_hour = ?
			AND st.execution_minute = ?
		ORDER BY st.created_at DESC
	`, scheduledTaskWithModelColumns)

	tasks, err := r.queryWithModel(ctx, query, hour, minute)
	if err != nil {
		return nil, fmt.Errorf("failed to get due candidates: %w", err)
	}
	return tasks, nil
}

// GetAllActive retrieves every active scheduled task joined with its AI model
func (r *scheduledTaskRepository) GetAllActive(ctx context.Context) ([]models.ScheduledTaskWithModel, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM scheduled_tasks st
		JOIN ai_models am ON st.ai_model_id = am.id
		WHERE st.is_active = TRUE
		ORDER BY st.created_at DESC
	`, scheduledTaskWithModelColumns)

	tasks, err := r.queryWithModel(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active scheduled tasks: %w", err)
	}
	return tasks, nil
}

// Update writes every mutable field of task. The caller checks that the task exists.
func (r *scheduledTaskRepository) Update(ctx context.Context, task *models.ScheduledTask) error {
	query := `
		UPDATE scheduled_tasks
		SET name = ?, ai_model_id = ?, prompt_content = ?, remark = ?, is_active = ?, schedule_type = ?,
			execution_hour = ?, execution_minute = ?, timezone = ?, day_of_week = ?, day_of_month = ?,
			effective_start_time = ?, effective_end_time = ?, next_execution_time = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		task.Name, task.AIModelID, task.PromptContent, task.Remark, task.IsActive, task.ScheduleType,
		task.ExecutionHour, task.ExecutionMinute, task.Timezone, task.DayOfWeek, task.DayOfMonth,
		task.EffectiveStartTime, task.EffectiveEndTime, task.NextExecutionTime,
		task.ID,
	)
	if err != nil {
		if isReferenceViolation(err) {
			return fmt.Errorf("ai model %d does not exist: %w", task.AIModelID, models.ErrInvalidInput)
		}
		return fmt.Errorf("failed to update scheduled task: %w", err)
	}

	return nil
}

// UpdateNextExecutionTime stores the informational next run of a scheduled task
func (r *scheduledTaskRepository) UpdateNextExecutionTime(ctx context.Context, id int, next *time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE scheduled_tasks SET next_execution_time = ? WHERE id = ?", next, id)
	if err != nil {
		return fmt.Errorf("failed to update next execution time: %w", err)
	}
	return nil
}

// Delete removes a scheduled task together with its executions and messages
func (r *scheduledTaskRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM scheduled_tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled task: %w", err)
	}

	return requireDeleted(result, "scheduled task", id)
}
