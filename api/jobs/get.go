package jobs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
	"github.com/killallgit/autocut/internal/logging"
	apperrors "github.com/killallgit/autocut/pkg/errors"
)

// DefaultListLimit is used when the limit query parameter is absent.
const DefaultListLimit = 20

// MaxListLimit caps the limit query parameter.
const MaxListLimit = 100

// GetByID returns a job's status and progress
// @Summary      Get a job
// @Description  Returns a job's status and progress.
// @Tags         jobs
// @Produce      json
// @Param        id path int true "Job ID" minimum(1)
// @Success      200 {object} types.JobResponse "Job status"
// @Failure      400 {object} types.ErrorResponse "Invalid job ID"
// @Failure      404 {object} types.ErrorResponse "Job not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/jobs/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), id)
		if err != nil {
			status := apperrors.HTTPStatus(err)
			if status == http.StatusNotFound {
				c.JSON(status, types.NewErrorResponse("Job not found", err))
				return
			}
			logging.NewComponent(deps.Logger, "api").Error("failed to fetch job", logging.Error(err))
			c.JSON(status, types.NewErrorResponse("Failed to fetch job", err))
			return
		}

		c.JSON(http.StatusOK, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Job retrieved"},
			Job:          types.FromJob(job),
		})
	}
}

// List returns the most recent jobs
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Param        limit query int false "Maximum jobs to return" minimum(1) maximum(100) default(20)
// @Success      200 {object} types.JobsResponse "Recent jobs"
// @Failure      400 {object} types.ErrorResponse "Invalid limit"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/jobs [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := parseLimit(c)
		if !ok {
			return
		}

		jobs, err := deps.JobService.ListJobs(c.Request.Context(), limit)
		if err != nil {
			logging.NewComponent(deps.Logger, "api").Error("failed to list jobs", logging.Error(err))
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list jobs", err))
			return
		}

		out := make([]types.Job, 0, len(jobs))
		for _, job := range jobs {
			out = append(out, *types.FromJob(job))
		}
		c.JSON(http.StatusOK, types.JobsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Jobs retrieved"},
			Jobs:         out,
			Count:        len(out),
		})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid job ID", nil))
		return 0, false
	}
	return uint(id), true
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return DefaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("limit must be a positive integer", nil))
		return 0, false
	}
	return min(limit, MaxListLimit), true
}
