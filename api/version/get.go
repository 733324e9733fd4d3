package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
)

// Get handles version requests
// @Summary      Version information
// @Description  Returns build metadata for the running binary.
// @Tags         version
// @Produce      json
// @Success      200 {object} object{name=string,version=string,gitCommit=string,buildTime=string,description=string,status=string} "Build metadata"
// @Router       /version [get]
func Get(build types.BuildInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "autocut",
			"version":     build.Version,
			"gitCommit":   build.GitCommit,
			"buildTime":   build.BuildTime,
			"description": "Removes silent segments from recorded video",
			"status":      "running",
		})
	}
}
