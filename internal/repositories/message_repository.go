package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/messageflow/backend/internal/models"
)

const messageWithDetailsColumns = `
	m.id, m.scheduled_task_id, m.task_execution_id, m.content, m.content_format,
	m.title, m.summary, m.execution_completion_time, m.is_read, m.read_at,
	m.is_favorite, m.favorited_at, m.priority, m.created_at,
	st.name, st.schedule_type, st.execution_hour, st.execution_minute, st.prompt_content,
	am.company_name, am.model_name
`

type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sql.DB) *messageRepository {
	return &messageRepository{db: db}
}

func scanMessageWithDetails(row rowScanner) (*models.MessageWithDetails, error) {
	message := &models.MessageWithDetails{}
	err := row.Scan(
		&message.ID,
		&message.ScheduledTaskID,
		&message.TaskExecutionID,
		&message.Content,
		&message.ContentFormat,
		&message.Title,
		&message.Summary,
		&message.ExecutionCompletionTime,
		&message.IsRead,
		&message.ReadAt,
		&message.IsFavorite,
		&message.FavoritedAt,
		&message.Priority,
		&message.CreatedAt,
		&message.TaskName,
		&message.ScheduleType,
		&message.ExecutionHour,
		&message.ExecutionMinute,
		&message.PromptContent,
		&message.AIModelCompany,
		&message.AIModelName,
	)
	if err != nil {
		return nil, err
	}
	return message, nil
}

// GetAll retrieves a paginated list of messages with their task and model, newest first
func (r *messageRepository) GetAll(ctx context.Context, page, count int, filter models.MessageFilter) ([]models.MessageWithDetails, error) {
	var whereConditions []string
	var args []any

	if filter.IsRead != nil {
		whereConditions = append(whereConditions, "m.is_read = ?")
		args = append(args, *filter.IsRead)
	}

	if filter.IsFavorite != nil {
		whereConditions = append(whereConditions, "m.is_favorite = ?")
		args = append(args, *filter.IsFavorite)
	}

	if filter.ScheduledTaskID != 0 {
		whereConditions = append(whereConditions, "m.scheduled_task_id = ?")
		args = append(args, filter.ScheduledTaskID)
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	// Favorites are listed in the order they were favorited
	orderBy := "m.created_at DESC"
	if filter.IsFavorite != nil && *filter.IsFavorite {
		orderBy = "m.favorited_at DESC"
	}

	offset := (page - 1) * count

	query := fmt.Sprintf(`
		SELECT %s
		FROM messages m
		JOIN scheduled_tasks st ON m.scheduled_task_id = st.id
		JOIN ai_models am ON st.ai_model_id = am.id
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, messageWithDetailsColumns, whereClause, orderBy)

	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.MessageWithDetails
	for rows.Next() {
		message, err := scanMessageWithDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return messages, nil
}

// GetByID retrieves a message with its task and model by ID
func (r *messageRepository) GetByID(ctx context.Context, id int) (*models.MessageWithDetails, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM messages m
		JOIN scheduled_tasks st ON m.scheduled_task_id = st.id
		JOIN ai_models am ON st.ai_model_id = am.id
		WHERE m.id = ?
		LIMIT 1
	`, messageWithDetailsColumns)

	message, err := scanMessageWithDetails(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("message %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message by ID: %w", err)
	}

	return message, nil
}

// SetRead marks a message read at the given time, or unread when isRead is false
func (r *messageRepository) SetRead(ctx context.Context, id int, isRead bool, at time.Time) error {
	var readAt *time.Time
	if isRead {
		readAt = &at
	}

	result, err := r.db.ExecContext(ctx, "UPDATE messages SET is_read = ?, read_at = ? WHERE id = ?", isRead, readAt, id)
	if err != nil {
		return fmt.Errorf("failed to update message read state: %w", err)
	}

	return r.requireMessage(ctx, result, id)
}

// SetFavorite adds a message to favorites at the given time, or removes it when isFavorite is false
func (r *messageRepository) SetFavorite(ctx context.Context, id int, isFavorite bool, at time.Time) error {
	var favoritedAt *time.Time
	if isFavorite {
		favoritedAt = &at
	}

	result, err := r.db.ExecContext(ctx, "UPDATE messages SET is_favorite = ?, favorited_at = ? WHERE id = ?", isFavorite, favoritedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update message favorite state: %w", err)
	}

	return r.requireMessage(ctx, result, id)
}

// Delete removes a message
func (r *messageRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return requireDeleted(result, "message", id)
}

// requireMessage reports ErrNotFound for an update that touched no row of a message that does not exist.
// The timestamps always change when a flag is set, so zero affected rows is rare and checked with a lookup.
func (r *messageRepository) requireMessage(ctx context.Context, result sql.Result, id int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM messages WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check message existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("message %d: %w", id, models.ErrNotFound)
	}
	return nil
}
