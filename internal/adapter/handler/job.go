package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/internal/adapter/presenter"
	jobUsecase "github.com/slidecast-team/slidecast/internal/usecase/job"
)

// Job handles job HTTP requests
type Job struct {
	orchestrator *jobUsecase.Orchestrator
	logger       *zap.Logger
}

// NewJobHandler creates a job handler
func NewJobHandler(orchestrator *jobUsecase.Orchestrator, logger *zap.Logger) *Job {
	return &Job{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// ListPending handles GET /jobs/pending
// @Summary      List pending jobs
// @Description  Gets all queued and processing jobs, oldest first. Terminal jobs are observed through their slide pack's status.
// @Tags         Jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  slidepack.PendingJobsResponse  "Pending jobs"
// @Router       /jobs/pending [get]
func (h *Job) ListPending(c echo.Context) error {
	jobs, err := h.orchestrator.ListPending(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToPendingJobsResponse(jobs))
}
