package services

import (
	"context"
	"fmt"
	"time"

	"github.com/messageflow/backend/internal/models"
	"go.uber.org/zap"
)

type MessageRepository interface {
	GetAll(ctx context.Context, page, count int, filter models.MessageFilter) ([]models.MessageWithDetails, error)
	GetByID(ctx context.Context, id int) (*models.MessageWithDetails, error)
	SetRead(ctx context.Context, id int, isRead bool, at time.Time) error
	SetFavorite(ctx context.Context, id int, isFavorite bool, at time.Time) error
	Delete(ctx context.Context, id int) error
}

type messageService struct {
	repo   MessageRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewMessageService creates a new message service
func NewMessageService(repo MessageRepository, logger *zap.Logger) *messageService {
	return &messageService{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// GetAll retrieves a page of messages matching filter, newest first
func (s *messageService) GetAll(ctx context.Context, page, count int, filter models.MessageFilter) ([]models.MessageWithDetails, error) {
	messages, err := s.repo.GetAll(ctx, page, count, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	if messages == nil {
		messages = []models.MessageWithDetails{}
	}
	return messages, nil
}

// GetFavorites retrieves a page of favorite messages, most recently favorited first
func (s *messageService) GetFavorites(ctx context.Context, page, count int) ([]models.MessageWithDetails, error) {
	favorite := true
	return s.GetAll(ctx, page, count, models.MessageFilter{IsFavorite: &favorite})
}

// GetByID retrieves a message with its task and model
func (s *messageService) GetByID(ctx context.Context, id int) (*models.MessageWithDetails, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid message id: %w", models.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

// MarkRead marks a message read or unread
func (s *messageService) MarkRead(ctx context.Context, id int, isRead bool) error {
	if id <= 0 {
		return fmt.Errorf("invalid message id: %w", models.ErrInvalidInput)
	}
	if err := s.repo.SetRead(ctx, id, isRead, s.now()); err != nil {
		return fmt.Errorf("failed to update message read state: %w", err)
	}
	return nil
}

// SetFavorite adds a message to favorites or removes it
func (s *messageService) SetFavorite(ctx context.Context, id int, isFavorite bool) error {
	if id <= 0 {
		return fmt.Errorf("invalid message id: %w", models.ErrInvalidInput)
	}
	if err := s.repo.SetFavorite(ctx, id, isFavorite, s.now()); err != nil {
		return fmt.Errorf("failed to update message favorite state: %w", err)
	}
	return nil
}

// Delete removes a message
func (s *messageService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid message id: %w", models.ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
