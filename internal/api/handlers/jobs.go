package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/g2g/internal/scheduler"
)

// JobScheduler reports and triggers background jobs
type JobScheduler interface {
	GetJobStats() map[string]scheduler.JobStats
	RunJob(jobName string) error
}

// JobsHandler exposes background job statistics
type JobsHandler struct {
	source JobScheduler
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(source JobScheduler) *JobsHandler {
	return &JobsHandler{source: source}
}

// GetJobs returns statistics for every scheduled job
// GET /api/jobs
func (h *JobsHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.source.GetJobStats())
}

// RunJob starts a job in the background
// POST /api/jobs/{name}/run
func (h *JobsHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.source.RunJob(name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to start job")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"job":     name,
		"message": "job started",
	})
}
