package cuts

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
)

// RegisterRoutes registers cut routes. submit guards job creation with its
// own rate limit.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, submit gin.HandlerFunc) {
	if submit != nil {
		router.POST("", submit, Create(deps))
	} else {
		router.POST("", Create(deps))
	}
	router.GET("", List(deps))
	router.GET("/:id", GetByID(deps))
}
