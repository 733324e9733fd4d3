package cuts

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
	"github.com/killallgit/autocut/internal/logging"
	apperrors "github.com/killallgit/autocut/pkg/errors"
)

// GetByID returns a cut record together with its intervals
// @Summary      Get a cut
// @Description  Returns a finished cut with its classified intervals.
// @Tags         cuts
// @Produce      json
// @Param        id path int true "Cut ID" minimum(1)
// @Success      200 {object} types.CutResponse "Cut with intervals"
// @Failure      400 {object} types.ErrorResponse "Invalid cut ID"
// @Failure      404 {object} types.ErrorResponse "Cut not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/cuts/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid cut ID", nil))
			return
		}

		record, err := deps.CutService.GetCut(c.Request.Context(), uint(id))
		if err != nil {
			status := apperrors.HTTPStatus(err)
			if status == http.StatusNotFound {
				c.JSON(status, types.NewErrorResponse("Cut not found", err))
				return
			}
			logging.NewComponent(deps.Logger, "api").Error("failed to fetch cut", logging.Error(err))
			c.JSON(status, types.NewErrorResponse("Failed to fetch cut", err))
			return
		}

		cut, err := types.FromCut(record, true)
		if err != nil {
			logging.NewComponent(deps.Logger, "api").Error("failed to decode cut intervals", logging.Error(err))
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to decode cut intervals", err))
			return
		}

		c.JSON(http.StatusOK, types.CutResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Cut retrieved"},
			Cut:          cut,
		})
	}
}

// List returns recent cut records without their intervals
// @Summary      List cuts
// @Description  Returns the most recent cuts, newest first, without intervals.
// @Tags         cuts
// @Produce      json
// @Param        limit query int false "Maximum cuts to return" minimum(1)
// @Success      200 {object} types.CutsResponse "Recent cuts"
// @Failure      400 {object} types.ErrorResponse "Invalid limit"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/cuts [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 {
				c.JSON(http.StatusBadRequest, types.NewErrorResponse("limit must be a positive integer", nil))
				return
			}
			limit = v
		}

		records, err := deps.CutService.ListRecent(c.Request.Context(), limit)
		if err != nil {
			logging.NewComponent(deps.Logger, "api").Error("failed to list cuts", logging.Error(err))
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to list cuts", err))
			return
		}

		out := make([]types.Cut, 0, len(records))
		for _, record := range records {
			cut, _ := types.FromCut(record, false)
			out = append(out, *cut)
		}
		c.JSON(http.StatusOK, types.CutsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Cuts retrieved"},
			Cuts:         out,
			Count:        len(out),
		})
	}
}
