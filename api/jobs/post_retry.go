package jobs

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
	"github.com/killallgit/autocut/internal/logging"
	jobsService "github.com/killallgit/autocut/internal/services/jobs"
)

// Retry puts a failed job back in the queue
// @Summary      Retry a failed job
// @Tags         jobs
// @Produce      json
// @Param        id path int true "Job ID" minimum(1)
// @Success      202 {object} types.JobResponse "Job requeued"
// @Failure      400 {object} types.ErrorResponse "Invalid job ID"
// @Failure      404 {object} types.ErrorResponse "Job not found"
// @Failure      409 {object} types.ErrorResponse "Job is not in a failed state"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/jobs/{id}/retry [post]
func Retry(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		job, err := deps.JobService.RetryFailedJob(c.Request.Context(), id)
		switch {
		case errors.Is(err, jobsService.ErrJobNotFound):
			c.JSON(http.StatusNotFound, types.NewErrorResponse("Job not found", err))
			return
		case errors.Is(err, jobsService.ErrJobNotRetryable):
			c.JSON(http.StatusConflict, types.NewErrorResponse("Only failed jobs can be retried", err))
			return
		case err != nil:
			logging.NewComponent(deps.Logger, "api").Error("failed to retry job",
				slog.Uint64("job_id", uint64(id)), logging.Error(err))
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to retry job", err))
			return
		}

		c.JSON(http.StatusAccepted, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Job requeued"},
			Job:          types.FromJob(job),
		})
	}
}
