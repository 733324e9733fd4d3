package api

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/killallgit/autocut/api/types"
)

// DefaultMaxRequestSize bounds POST bodies when no size is configured.
const DefaultMaxRequestSize = 1 << 20

const (
	limiterSweepInterval = 5 * time.Minute
	limiterMaxIdle       = 10 * time.Minute
)

// CORS allows the configured origins. An empty list or "*" allows any origin.
func CORS(origins ...string) gin.HandlerFunc {
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestLogger logs one line per request. Server errors log at warn.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(started)),
			slog.String("client", c.ClientIP()))
	}
}

// RequestSizeLimit caps request bodies at maxBytes. A non-positive size uses
// DefaultMaxRequestSize.
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// clientLimiters keys a token bucket per client IP and forgets idle clients.
type clientLimiters struct {
	limiters sync.Map
	stop     chan struct{}
	stopOnce sync.Once
	start    sync.Once
}

func newClientLimiters() *clientLimiters {
	return &clientLimiters{stop: make(chan struct{})}
}

// Middleware limits each client to perMinute requests with the given burst.
// Limits are tracked per scope so stacked middlewares do not share buckets.
// A non-positive perMinute disables limiting.
func (l *clientLimiters) Middleware(scope string, perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	every := time.Minute / time.Duration(perMinute)

	l.start.Do(func() { go l.sweepLoop() })

	return func(c *gin.Context) {
		now := time.Now()
		value, _ := l.limiters.LoadOrStore(scope+"|"+c.ClientIP(), newClientLimiter(every, burst, now))
		cl := value.(*clientLimiter)
		cl.lastSeen.Store(now.UnixNano())

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Rate limit exceeded. Please slow down your requests.",
			})
			return
		}
		c.Next()
	}
}

func newClientLimiter(every time.Duration, burst int, now time.Time) *clientLimiter {
	cl := &clientLimiter{limiter: rate.NewLimiter(rate.Every(every), burst)}
	cl.lastSeen.Store(now.UnixNano())
	return cl
}

// Stop ends the idle sweep. Safe to call more than once.
func (l *clientLimiters) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *clientLimiters) sweepLoop() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.sweep(now, limiterMaxIdle)
		case <-l.stop:
			return
		}
	}
}

// sweep drops clients idle for longer than maxIdle.
func (l *clientLimiters) sweep(now time.Time, maxIdle time.Duration) {
	l.limiters.Range(func(key, value interface{}) bool {
		cl := value.(*clientLimiter)
		if now.Sub(time.Unix(0, cl.lastSeen.Load())) > maxIdle {
			l.limiters.Delete(key)
		}
		return true
	})
}
