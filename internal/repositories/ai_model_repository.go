package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/messageflow/backend/internal/models"
)

type aiModelRepository struct {
	db *sql.DB
}

// NewAIModelRepository creates a new AI model repository
func NewAIModelRepository(db *sql.DB) *aiModelRepository {
	return &aiModelRepository{db: db}
}

// Create inserts a new AI model
func (r *aiModelRepository) Create(ctx context.Context, model *models.AIModel) error {
	query := `
		INSERT INTO ai_models (company_name, model_name, remark, is_active)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, model.CompanyName, model.ModelName, model.Remark, model.IsActive)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("ai model %s/%s already exists: %w", model.CompanyName, model.ModelName, models.ErrConflict)
		}
		return fmt.Errorf("failed to create ai model: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	model.ID = int(id)
	return nil
}

// GetByID retrieves an AI model by ID
func (r *aiModelRepository) GetByID(ctx context.Context, id int) (*models.AIModel, error) {
	query := `
		SELECT id, company_name, model_name, remark, is_active, created_at, updated_at
		FROM ai_models
		WHERE id = ?
		LIMIT 1
	`

	model := &models.AIModel{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&model.ID,
		&model.CompanyName,
		&model.ModelName,
		&model.Remark,
		&model.IsActive,
		&model.CreatedAt,
		&model.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ai model %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ai model by ID: %w", err)
	}

	return model, nil
}

// GetAll retrieves AI models, newest first. A nil active returns models regardless of their flag.
func (r *aiModelRepository) GetAll(ctx context.Context, active *bool) ([]models.AIModel, error) {
	query := `
		SELECT id, company_name, model_name, remark, is_active, created_at, updated_at
		FROM ai_models
	`
	var args []any
	if active != nil {
		query += " WHERE is_active = ?"
		args = append(args, *active)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai models: %w", err)
	}
	defer rows.Close()

	var result []models.AIModel
	for rows.Next() {
		var model models.AIModel
		if err := rows.Scan(
			&model.ID,
			&model.CompanyName,
			&model.ModelName,
			&model.Remark,
			&model.IsActive,
			&model.CreatedAt,
			&model.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ai model: %w", err)
		}
		result = append(result, model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// Update writes every mutable field of model. The caller checks that the model exists,
// MySQL reports zero affected rows for an update that changes nothing.
func (r *aiModelRepository) Update(ctx context.Context, model *models.AIModel) error {
	query := `
		UPDATE ai_models
		SET company_name = ?, model_name = ?, remark = ?, is_active = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, model.CompanyName, model.ModelName, model.Remark, model.IsActive, model.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("ai model %s/%s already exists: %w", model.CompanyName, model.ModelName, models.ErrConflict)
		}
		return fmt.Errorf("failed to update ai model: %w", err)
	}

	return nil
}

// Delete removes an AI model. Models still referenced by scheduled tasks cannot be deleted.
func (r *aiModelRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM ai_models WHERE id = ?", id)
	if err != nil {
		if isReferenceViolation(err) {
			return fmt.Errorf("ai model %d is used by scheduled tasks: %w", id, models.ErrConflict)
		}
		return fmt.Errorf("failed to delete ai model: %w", err)
	}

	return requireDeleted(result, "ai model", id)
}

// requireDeleted turns a delete that removed no row into ErrNotFound
func requireDeleted(result sql.Result, entity string, id int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, models.ErrNotFound)
	}
	return nil
}
