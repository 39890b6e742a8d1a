package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/messageflow/backend/internal/models"
	"go.uber.org/zap"
)

type AIModelRepository interface {
	Create(ctx context.Context, model *models.AIModel) error
	GetByID(ctx context.Context, id int) (*models.AIModel, error)
	GetAll(ctx context.Context, active *bool) ([]models.AIModel, error)
	Update(ctx context.Context, model *models.AIModel) error
	Delete(ctx context.Context, id int) error
}

type aiModelService struct {
	repo   AIModelRepository
	logger *zap.Logger
}

// NewAIModelService creates a new AI model service
func NewAIModelService(repo AIModelRepository, logger *zap.Logger) *aiModelService {
	return &aiModelService{
		repo:   repo,
		logger: logger,
	}
}

// Create creates a new active AI model
func (s *aiModelService) Create(ctx context.Context, req *models.CreateAIModelRequest) (*models.AIModel, error) {
	companyName := strings.TrimSpace(req.CompanyName)
	modelName := strings.TrimSpace(req.ModelName)
	if companyName == "" || modelName == "" {
		return nil, fmt.Errorf("company name and model name are required: %w", models.ErrInvalidInput)
	}

	model := &models.AIModel{
		CompanyName: companyName,
		ModelName:   modelName,
		Remark:      req.Remark,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to create ai model: %w", err)
	}

	return model, nil
}

// GetByID retrieves an AI model by ID
func (s *aiModelService) GetByID(ctx context.Context, id int) (*models.AIModel, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid ai model id: %w", models.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

// GetAll retrieves AI models, optionally only active or inactive ones
func (s *aiModelService) GetAll(ctx context.Context, active *bool) ([]models.AIModel, error) {
	result, err := s.repo.GetAll(ctx, active)
	if err != nil {
		return nil, fmt.Errorf("failed to get ai models: %w", err)
	}
	if result == nil {
		result = []models.AIModel{}
	}
	return result, nil
}

// Update applies the non-nil fields of req to an AI model
func (s *aiModelService) Update(ctx context.Context, id int, req *models.UpdateAIModelRequest) (*models.AIModel, error) {
	if req.CompanyName == nil && req.ModelName == nil && req.Remark == nil && req.IsActive == nil {
		return nil, fmt.Errorf("at least one field must be provided: %w", models.ErrInvalidInput)
	}

	model, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		model.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.ModelName != nil {
		model.ModelName = strings.TrimSpace(*req.ModelName)
	}
	if req.Remark != nil {
		model.Remark = req.Remark
	}
	if req.IsActive != nil {
		model.IsActive = *req.IsActive
	}
	if model.CompanyName == "" || model.ModelName == "" {
		return nil, fmt.Errorf("company name and model name cannot be empty: %w", models.ErrInvalidInput)
	}

	if err := s.repo.Update(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to update ai model: %w", err)
	}

	return model, nil
}

// Delete removes an AI model that no scheduled task uses
func (s *aiModelService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid ai model id: %w", models.ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ai model: %w", err)
	}
	return nil
}
