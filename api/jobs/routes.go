package jobs

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
)

// RegisterRoutes registers job routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", List(deps))
	router.GET("/:id", GetByID(deps))
	router.POST("/:id/retry", Retry(deps))
}
