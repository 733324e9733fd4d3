package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/autocut/api/cuts"
	"github.com/killallgit/autocut/api/health"
	"github.com/killallgit/autocut/api/jobs"
	"github.com/killallgit/autocut/api/types"
	"github.com/killallgit/autocut/api/version"
	_ "github.com/killallgit/autocut/docs/swagger"
)

// RegisterRoutes registers all API routes. rateLimit is requests per minute
// per client for the read endpoints; job submission gets a tenth of it.
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limiters *clientLimiters, rateLimit int) {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	engine.Group("/docs").GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	v1 := engine.Group("/api/v1")
	v1.Use(limiters.Middleware("api", rateLimit, max(rateLimit/6, 1)))

	submitLimit := max(rateLimit/10, 1)
	if rateLimit <= 0 {
		submitLimit = 0
	}
	cuts.RegisterRoutes(v1.Group("/cuts"), deps, limiters.Middleware("submit", submitLimit, 2))
	jobs.RegisterRoutes(v1.Group("/jobs"), deps)
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  types.StatusError,
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
