package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/messageflow/backend/internal/models"
	"go.uber.org/zap"
)

// AIModelService is the interface that wraps methods for AI model business logic
type AIModelService interface {
	// Create stores a new active AI model.
	//
	// A duplicate company and model pair is reported as models.ErrConflict.
	Create(ctx context.Context, req *models.CreateAIModelRequest) (*models.AIModel, error)
	GetByID(ctx context.Context, id int) (*models.AIModel, error)
	// GetAll lists AI models, filtered by their active flag when "active" is not nil.
	GetAll(ctx context.Context, active *bool) ([]models.AIModel, error)
	Update(ctx context.Context, id int, req *models.UpdateAIModelRequest) (*models.AIModel, error)
	// Delete removes an AI model.
	//
	// A model still used by a scheduled task is reported as models.ErrConflict.
	Delete(ctx context.Context, id int) error
}

// AIModelHandler handles HTTP requests for AI models
type AIModelHandler struct {
	BaseHandler
	service AIModelService
}

// NewAIModelHandler creates a new AI model handler
func NewAIModelHandler(svc AIModelService, logger *zap.Logger) *AIModelHandler {
	return &AIModelHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all AI model handler routes
func (h *AIModelHandler) RegisterRoutes(r chi.Router) {
	r.Route("/ai-models", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// GetAll handles GET /ai-models
// @Summary List AI models
// @Description List AI models, newest first
// @Tags ai-models
// @Produce json
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /ai-models [get]
func (h *AIModelHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	active, ok := parseOptionalBool(r, "is_active")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid is_active parameter")
		return
	}

	result, err := h.service.GetAll(r.Context(), active)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get ai models")
		return
	}

	h.RespondData(w, http.StatusOK, result)
}

// Create handles POST /ai-models
// @Summary Create AI model
// @Tags ai-models
// @Accept json
// @Produce json
// @Param model body models.CreateAIModelRequest true "AI model"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /ai-models [post]
func (h *AIModelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAIModelRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	model, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create ai model")
		return
	}

	h.RespondData(w, http.StatusCreated, model)
}

// GetByID handles GET /ai-models/{id}
// @Summary Get AI model by ID
// @Tags ai-models
// @Produce json
// @Param id path int true "AI model ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /ai-models/{id} [get]
func (h *AIModelHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	model, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get ai model")
		return
	}

	h.RespondData(w, http.StatusOK, model)
}

// Update handles PUT /ai-models/{id}
// @Summary Update AI model
// @Description Update the provided fields of an AI model
// @Tags ai-models
// @Accept json
// @Produce json
// @Param id path int true "AI model ID"
// @Param model body models.UpdateAIModelRequest true "Fields to update"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /ai-models/{id} [put]
func (h *AIModelHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req models.UpdateAIModelRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	model, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update ai model")
		return
	}

	h.RespondData(w, http.StatusOK, model)
}

// Delete handles DELETE /ai-models/{id}
// @Summary Delete AI model
// @Description Delete an AI model no scheduled task uses
// @Tags ai-models
// @Param id path int true "AI model ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /ai-models/{id} [delete]
func (h *AIModelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "failed to delete ai model")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
