package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/messageflow/backend/internal/models"
	"go.uber.org/zap"
)

// ScheduledTaskService is the interface that wraps methods for scheduled task business logic
type ScheduledTaskService interface {
	// Create validates a new scheduled task, computes its next run and stores it as active.
	Create(ctx context.Context, req *models.CreateScheduledTaskRequest) (*models.ScheduledTask, error)
	GetByID(ctx context.Context, id int) (*models.ScheduledTaskWithModel, error)
	// GetAll lists a page of scheduled tasks.
	//
	// "aiModelID" filters by model when positive and "active" filters by the active flag when not nil.
	GetAll(ctx context.Context, page, count, aiModelID int, active *bool) ([]models.ScheduledTaskListItem, error)
	Update(ctx context.Context, id int, req *models.UpdateScheduledTaskRequest) (*models.ScheduledTask, error)
	// Delete removes a scheduled task together with its executions and messages.
	Delete(ctx context.Context, id int) error
	GetExecutions(ctx context.Context, id, page, count int) ([]models.TaskExecution, error)
}

// ScheduleHandler handles HTTP requests for scheduled tasks
type ScheduleHandler struct {
	BaseHandler
	service ScheduledTaskService
}

// NewScheduleHandler creates a new scheduled task handler
func NewScheduleHandler(svc ScheduledTaskService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all scheduled task handler routes
func (h *ScheduleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/schedules", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/executions", h.GetExecutions)
	})
}

// GetAll handles GET /schedules
// @Summary List scheduled tasks
// @Tags schedules
// @Produce json
// @Param page query int false "Page number, default 1"
// @Param count query int false "Items per page, default 20"
// @Param ai_model_id query int false "Filter by AI model"
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /schedules [get]
func (h *ScheduleHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, count, ok := parsePagination(r)
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid page or count parameter")
		return
	}
	aiModelID, ok := parseOptionalInt(r, "ai_model_id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid ai_model_id parameter")
		return
	}
	active, ok := parseOptionalBool(r, "is_active")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid is_active parameter")
		return
	}

	tasks, err := h.service.GetAll(r.Context(), page, count, aiModelID, active)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get scheduled tasks")
		return
	}

	h.RespondData(w, http.StatusOK, tasks)
}

// Create handles POST /schedules
// @Summary Create scheduled task
// @Description Create an active scheduled task. Defaults: daily at 09:00 in the server zone.
// @Tags schedules
// @Accept json
// @Produce json
// @Param task body models.CreateScheduledTaskRequest true "Scheduled task"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /schedules [post]
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScheduledTaskRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create scheduled task")
		return
	}

	h.RespondData(w, http.StatusCreated, task)
}

// GetByID handles GET /schedules/{id}
// @Summary Get scheduled task by ID
// @Tags schedules
// @Produce json
// @Param id path int true "Scheduled task ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	task, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get scheduled task")
		return
	}

	h.RespondData(w, http.StatusOK, task)
}

// Update handles PUT /schedules/{id}
// @Summary Update scheduled task
// @Description Update the provided fields of a scheduled task and recompute its next run
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path int true "Scheduled task ID"
// @Param task body models.UpdateScheduledTaskRequest true "Fields to update"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var req models.UpdateScheduledTaskRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update scheduled task")
		return
	}

	h.RespondData(w, http.StatusOK, task)
}

// Delete handles DELETE /schedules/{id}
// @Summary Delete scheduled task
// @Description Delete a scheduled task with its executions and messages
// @Tags schedules
// @Param id path int true "Scheduled task ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "failed to delete scheduled task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetExecutions handles GET /schedules/{id}/executions
// @Summary List executions of a scheduled task
// @Description List the executions of a scheduled task, newest first
// @Tags schedules
// @Produce json
// @Param id path int true "Scheduled task ID"
// @Param page query int false "Page number, default 1"
// @Param count query int false "Items per page, default 20"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /schedules/{id}/executions [get]
func (h *ScheduleHandler) GetExecutions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}
	page, count, ok := parsePagination(r)
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid page or count parameter")
		return
	}

	executions, err := h.service.GetExecutions(r.Context(), id, page, count)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get task executions")
		return
	}

	h.RespondData(w, http.StatusOK, executions)
}
