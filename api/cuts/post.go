package cuts

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/models"
	"github.com/killallgit/autocut/internal/services/jobs"
	apperrors "github.com/killallgit/autocut/pkg/errors"
)

// Create queues a silence cut. A request for an input that already has a
// pending or running job returns that job instead of a new one.
// @Summary      Queue a silence cut
// @Description  Queues a job that removes silent segments from input_path. Both paths must be absolute.
// @Tags         cuts
// @Accept       json
// @Produce      json
// @Param        request body types.CreateCutRequest true "Cut parameters"
// @Success      202 {object} types.JobResponse "Job queued"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      413 {object} types.ErrorResponse "Request body too large"
// @Failure      429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/cuts [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CreateCutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, types.NewErrorResponse("Request body too large", nil))
				return
			}
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request: "+err.Error(),
				apperrors.New(apperrors.ErrCodeValidation, err.Error())))
			return
		}

		for field, path := range map[string]string{"input_path": req.InputPath, "output_path": req.OutputPath} {
			if path != "" && !filepath.IsAbs(path) {
				c.JSON(http.StatusBadRequest, types.NewErrorResponse(field+" must be an absolute path",
					apperrors.ValidationError(field, "must be an absolute path")))
				return
			}
		}
		req.InputPath = filepath.Clean(req.InputPath)
		if req.OutputPath != "" {
			req.OutputPath = filepath.Clean(req.OutputPath)
		}

		job, err := deps.JobService.EnqueueUniqueJob(
			c.Request.Context(),
			models.JobTypeSilenceCut,
			req.Payload(),
			models.PayloadInputPath,
			jobs.WithPriority(req.Priority),
			jobs.WithCreatedBy("api"),
		)
		if err != nil {
			logging.NewComponent(deps.Logger, "api").Error("failed to enqueue silence cut",
				slog.String("input", req.InputPath), logging.Error(err))
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to queue silence cut", err))
			return
		}

		c.JSON(http.StatusAccepted, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Silence cut queued"},
			Job:          types.FromJob(job),
		})
	}
}
