package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/messageflow/backend/internal/models"
	"go.uber.org/zap"
)

// MessageService is the interface that wraps methods for message business logic
type MessageService interface {
	GetAll(ctx context.Context, page, count int, filter models.MessageFilter) ([]models.MessageWithDetails, error)
	// GetFavorites lists favorite messages, most recently favorited first.
	GetFavorites(ctx context.Context, page, count int) ([]models.MessageWithDetails, error)
	GetByID(ctx context.Context, id int) (*models.MessageWithDetails, error)
	// MarkRead sets or clears the read flag and its timestamp.
	MarkRead(ctx context.Context, id int, isRead bool) error
	// SetFavorite sets or clears the favorite flag and its timestamp.
	SetFavorite(ctx context.Context, id int, isFavorite bool) error
	Delete(ctx context.Context, id int) error
}

// MessageHandler handles HTTP requests for generated messages
type MessageHandler struct {
	BaseHandler
	service MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(svc MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all message handler routes
func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Get("/{id}", h.GetByID)
		r.Delete("/{id}", h.Delete)
		r.Put("/{id}/read", h.MarkRead)
		r.Put("/{id}/favorite", h.SetFavorite)
	})
	r.Get("/favorites", h.GetFavorites)
}

// GetAll handles GET /messages
// @Summary List messages
// @Description List generated messages with their schedule and model, newest first
// @Tags messages
// @Produce json
// @Param page query int false "Page number, default 1"
// @Param count query int false "Items per page, default 20"
// @Param schedule_id query int false "Filter by scheduled task"
// @Param is_read query bool false "Filter by read flag"
// @Param is_favorite query bool false "Filter by favorite flag"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /messages [get]
func (h *MessageHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, count, ok := parsePagination(r)
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid page or count parameter")
		return
	}

	var filter models.MessageFilter
	if filter.ScheduledTaskID, ok = parseOptionalInt(r, "schedule_id"); !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid schedule_id parameter")
		return
	}
	if filter.IsRead, ok = parseOptionalBool(r, "is_read"); !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid is_read parameter")
		return
	}
	if filter.IsFavorite, ok = parseOptionalBool(r, "is_favorite"); !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid is_favorite parameter")
		return
	}

	messages, err := h.service.GetAll(r.Context(), page, count, filter)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get messages")
		return
	}

	h.RespondData(w, http.StatusOK, messages)
}

// GetFavorites handles GET /favorites
// @Summary List favorite messages
// @Tags messages
// @Produce json
// @Param page query int false "Page number, default 1"
// @Param count query int false "Items per page, default 20"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /favorites [get]
func (h *MessageHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	page, count, ok := parsePagination(r)
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid page or count parameter")
		return
	}

	messages, err := h.service.GetFavorites(r.Context(), page, count)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get favorite messages")
		return
	}

	h.RespondData(w, http.StatusOK, messages)
}

// GetByID handles GET /messages/{id}
// @Summary Get message by ID
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /messages/{id} [get]
func (h *MessageHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	message, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get message")
		return
	}

	h.RespondData(w, http.StatusOK, message)
}

// MarkRead handles PUT /messages/{id}/read
// @Summary Mark message read or unread
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param request body models.UpdateMessageReadRequest true "Read flag"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req models.UpdateMessageReadRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.MarkRead(r.Context(), id, req.IsRead); err != nil {
		h.RespondServiceError(w, err, "failed to update message")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"id": id, "is_read": req.IsRead})
}

// SetFavorite handles PUT /messages/{id}/favorite
// @Summary Add or remove a message from favorites
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param request body models.UpdateMessageFavoriteRequest true "Favorite flag"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /messages/{id}/favorite [put]
func (h *MessageHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req models.UpdateMessageFavoriteRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetFavorite(r.Context(), id, req.IsFavorite); err != nil {
		h.RespondServiceError(w, err, "failed to update message")
		return
	}

	h.RespondData(w, http.StatusOK, map[string]any{"id": id, "is_favorite": req.IsFavorite})
}

// Delete handles DELETE /messages/{id}
// @Summary Delete message
// @Tags messages
// @Param id path int true "Message ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "failed to delete message")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
