package handlers

import (
	"net/http"

	"github.com/crivelaro/garimpo/internal/scheduler"
	"github.com/crivelaro/garimpo/pkg/logger"
)

// jobRunner is the scheduler surface the API needs.
type jobRunner interface {
	RunNow(name string) error
	Jobs() []string
	History(name string) (*scheduler.JobHistory, error)
}

// AdminHandler exposes the operational endpoints.
type AdminHandler struct {
	jobs jobRunner
	log  *logger.Logger
}

func NewAdminHandler(jobs jobRunner, log *logger.Logger) *AdminHandler {
	return &AdminHandler{jobs: jobs, log: log}
}

// Refresh triggers the universe refresh job outside its schedule.
// POST /api/admin/refresh
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.RunNow("universe_refresh"); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	h.log.Info("Universe refresh triggered via API")
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"data":    map[string]string{"job": "universe_refresh", "status": "started"},
	})
}

// Jobs reports the registered jobs and their recent outcomes.
// GET /api/admin/jobs
func (h *AdminHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	type jobStatus struct {
		Name        string               `json:"name"`
		SuccessRate float64              `json:"success_rate"`
		LastRun     *scheduler.JobResult `json:"last_run,omitempty"`
	}

	statuses := make([]jobStatus, 0)
	for _, name := range h.jobs.Jobs() {
		status := jobStatus{Name: name}
		if history, err := h.jobs.History(name); err == nil {
			status.SuccessRate = history.SuccessRate()
			status.LastRun = history.Last()
		}
		statuses = append(statuses, status)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    statuses,
	})
}
