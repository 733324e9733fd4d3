package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
)

const (
	stateHealthy       = "healthy"
	stateUnhealthy     = "unhealthy"
	stateNotConfigured = "not configured"
)

// Component is the state of one dependency.
type Component struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Response is the /health body.
type Response struct {
	Status    string               `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
	Checks    map[string]Component `json:"checks"`
	Workers   int                  `json:"workers,omitempty"`
}

// Get reports the service state. Any unhealthy component answers 503.
// @Summary      Health check
// @Description  Reports database connectivity and the number of workers.
// @Tags         health
// @Produce      json
// @Success      200 {object} health.Response "Service is healthy"
// @Failure      503 {object} health.Response "A component is unhealthy"
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := Response{
			Status:    stateHealthy,
			Timestamp: time.Now().UTC(),
			Checks:    map[string]Component{"database": checkDatabase(deps)},
		}
		if deps != nil && deps.WorkerPool != nil {
			resp.Workers = deps.WorkerPool.Size()
		}

		code := http.StatusOK
		for _, check := range resp.Checks {
			if check.Status == stateUnhealthy {
				resp.Status = stateUnhealthy
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, resp)
	}
}

func checkDatabase(deps *types.Dependencies) Component {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return Component{Status: stateNotConfigured}
	}
	if err := deps.DB.HealthCheck(); err != nil {
		return Component{Status: stateUnhealthy, Error: err.Error()}
	}
	return Component{Status: stateHealthy}
}
