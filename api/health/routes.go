package health

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
)

// RegisterRoutes mounts GET and HEAD /health. Neither is rate limited.
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	handler := Get(deps)
	engine.GET("/health", handler)
	engine.HEAD("/health", handler)
}
