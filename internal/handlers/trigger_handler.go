package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/messageflow/backend/internal/models"
	"github.com/messageflow/backend/internal/queue"
	"go.uber.org/zap"
)

const (
	// NoSchedulesDue is the message of a periodic cycle that found nothing to run
	NoSchedulesDue = "No schedules due"
	// NoActiveSchedules is the message of a manual run with no active schedules
	NoActiveSchedules = "No active schedules to execute"

	defaultHistoryLimit = 20
)

// TriggerService is the interface that wraps the trigger cycles
type TriggerService interface {
	// RunDueCycle executes every schedule due at the current minute.
	//
	// An error is returned only when the due schedules cannot be selected.
	RunDueCycle(ctx context.Context) (*models.CycleSummary, error)
	// RunAllActive executes every active schedule once.
	RunAllActive(ctx context.Context) (*models.ManualSummary, error)
}

// CycleHistoryReader reads recently finished cycles
type CycleHistoryReader interface {
	Recent(ctx context.Context, limit int) ([]models.CycleRecord, error)
}

// TaskEnqueuer places tasks on the asynq queue
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TriggerHandler exposes the periodic and manual trigger entrypoints
type TriggerHandler struct {
	BaseHandler
	trigger      TriggerService
	history      CycleHistoryReader
	enqueuer     TaskEnqueuer
	cycleTimeout time.Duration
}

// NewTriggerHandler creates a new trigger handler
func NewTriggerHandler(trigger TriggerService, history CycleHistoryReader, enqueuer TaskEnqueuer, cycleTimeout time.Duration, logger *zap.Logger) *TriggerHandler {
	return &TriggerHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		trigger:      trigger,
		history:      history,
		enqueuer:     enqueuer,
		cycleTimeout: cycleTimeout,
	}
}

// RegisterCronRoutes registers the routes called by external cron services
func (h *TriggerHandler) RegisterCronRoutes(r chi.Router) {
	r.Route("/cron", func(r chi.Router) {
		r.Get("/execute-schedules", h.ExecuteDueSchedules)
		r.Get("/cycles", h.GetRecentCycles)
	})
}

// RegisterRoutes registers the manual trigger routes
func (h *TriggerHandler) RegisterRoutes(r chi.Router) {
	r.Post("/schedules/execute", h.ExecuteAllActive)
	r.Post("/schedules/execute/async", h.EnqueueAllActive)
}

// ExecuteDueSchedules handles GET /cron/execute-schedules
// @Summary Run the periodic trigger cycle
// @Description Execute every active schedule due at the current minute of the configured zone. Requires API key authentication.
// @Tags cron
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]any "Cycle summary"
// @Failure 401 {object} map[string]any "Invalid or missing API key"
// @Failure 500 {object} map[string]any "Due schedules could not be selected"
// @Router /cron/execute-schedules [get]
func (h *TriggerHandler) ExecuteDueSchedules(w http.ResponseWriter, r *http.Request) {
	summary, err := h.trigger.RunDueCycle(r.Context())
	if err != nil {
		h.Logger.Error("periodic cycle failed", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := map[string]any{
		"success":  true,
		"executed": summary.Executed,
		"results":  summary.Results,
	}
	if summary.Executed == 0 {
		response["message"] = NoSchedulesDue
	}
	h.RespondJSON(w, http.StatusOK, response)
}

// GetRecentCycles handles GET /cron/cycles
// @Summary List recent trigger cycles
// @Description List the most recent periodic and manual cycles, newest first. Requires API key authentication.
// @Tags cron
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Number of cycles, default 20"
// @Success 200 {object} map[string]any "Recent cycles"
// @Failure 400 {object} map[string]any "Invalid limit"
// @Failure 500 {object} map[string]any "Internal server error"
// @Router /cron/cycles [get]
func (h *TriggerHandler) GetRecentCycles(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			h.RespondError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = v
	}

	records, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get recent cycles")
		return
	}

	h.RespondData(w, http.StatusOK, records)
}

// ExecuteAllActive handles POST /schedules/execute
// @Summary Run every active schedule now
// @Description Execute every active schedule once regardless of its time and day rules and wait for the result.
// @Tags schedules
// @Produce json
// @Success 200 {object} map[string]any "Manual run summary"
// @Failure 500 {object} map[string]any "Active schedules could not be selected"
// @Router /schedules/execute [post]
func (h *TriggerHandler) ExecuteAllActive(w http.ResponseWriter, r *http.Request) {
	summary, err := h.trigger.RunAllActive(r.Context())
	if err != nil {
		h.Logger.Error("manual run failed", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := map[string]any{
		"success": true,
		"data":    summary,
	}
	if summary.Total == 0 {
		response["message"] = NoActiveSchedules
	}
	h.RespondJSON(w, http.StatusOK, response)
}

// EnqueueAllActive handles POST /schedules/execute/async
// @Summary Queue a run of every active schedule
// @Description Enqueue a manual run on the worker queue and return immediately.
// @Tags schedules
// @Produce json
// @Success 202 {object} map[string]any "Run queued"
// @Failure 500 {object} map[string]any "Internal server error"
// @Router /schedules/execute/async [post]
func (h *TriggerHandler) EnqueueAllActive(w http.ResponseWriter, r *http.Request) {
	task, err := queue.NewManualCycleTask(time.Now(), "api", h.cycleTimeout)
	if err != nil {
		h.Logger.Error("failed to create manual cycle task", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to queue manual run")
		return
	}

	info, err := h.enqueuer.Enqueue(task)
	if err != nil {
		h.Logger.Error("failed to enqueue manual cycle", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to queue manual run")
		return
	}

	h.RespondJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"task_id": info.ID,
		"queue":   info.Queue,
	})
}
