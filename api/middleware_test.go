package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origins        []string
		method         string
		origin         string
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "preflight request",
			method:         http.MethodOptions,
			origin:         "https://example.com",
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "*",
		},
		{
			name:           "wildcard origin",
			origins:        []string{"*"},
			method:         http.MethodGet,
			origin:         "https://example.com",
			expectedStatus: http.StatusOK,
			expectedOrigin: "*",
		},
		{
			name:           "listed origin is echoed",
			origins:        []string{"https://studio.local"},
			method:         http.MethodGet,
			origin:         "https://studio.local",
			expectedStatus: http.StatusOK,
			expectedOrigin: "https://studio.local",
		},
		{
			name:           "unlisted origin gets no header",
			origins:        []string{"https://studio.local"},
			method:         http.MethodGet,
			origin:         "https://elsewhere.local",
			expectedStatus: http.StatusOK,
			expectedOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.origins...))
			router.Any("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestSizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		limit          int64
		bodySize       int
		expectedStatus int
	}{
		{"small request under default limit", 0, 100, http.StatusOK},
		{"request at default limit", 0, DefaultMaxRequestSize, http.StatusOK},
		{"request over default limit", 0, DefaultMaxRequestSize + 1, http.StatusRequestEntityTooLarge},
		{"request over custom limit", 512, 1024, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestSizeLimit(tt.limit))
			router.POST("/test", func(c *gin.Context) {
				_, err := io.ReadAll(c.Request.Body)
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					c.Status(http.StatusRequestEntityTooLarge)
					return
				}
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestClientLimiters_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		perMinute    int
		burst        int
		requestCount int
		wantBlocked  bool
	}{
		{"under burst", 60, 5, 3, false},
		{"over burst", 60, 3, 6, true},
		{"disabled", 0, 0, 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiters := newClientLimiters()
			defer limiters.Stop()

			router := gin.New()
			router.Use(limiters.Middleware("test", tt.perMinute, tt.burst))
			router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			blocked := 0
			for i := 0; i < tt.requestCount; i++ {
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.RemoteAddr = "127.0.0.1:12345"
				router.ServeHTTP(w, req)
				if w.Code == http.StatusTooManyRequests {
					blocked++
				}
			}

			if tt.wantBlocked {
				assert.Greater(t, blocked, 0)
			} else {
				assert.Zero(t, blocked)
			}
		})
	}
}

func TestClientLimiters_DifferentClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiters := newClientLimiters()
	defer limiters.Stop()

	router := gin.New()
	router.Use(limiters.Middleware("test", 1, 1))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		router.ServeHTTP(w, req)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientLimiters_Sweep(t *testing.T) {
	limiters := newClientLimiters()
	defer limiters.Stop()

	now := time.Now()
	limiters.limiters.Store("idle", newClientLimiter(time.Second, 1, now.Add(-time.Hour)))
	limiters.limiters.Store("active", newClientLimiter(time.Second, 1, now))

	limiters.sweep(now, limiterMaxIdle)

	_, idle := limiters.limiters.Load("idle")
	_, active := limiters.limiters.Load("active")
	assert.False(t, idle)
	assert.True(t, active)

}

func TestClientLimiters_ScopesAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiters := newClientLimiters()
	defer limiters.Stop()

	router := gin.New()
	router.GET("/read", limiters.Middleware("read", 60, 5), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/submit", limiters.Middleware("submit", 1, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "127.0.0.1:12345"
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("/submit"))
	assert.Equal(t, http.StatusTooManyRequests, call("/submit"))
	assert.Equal(t, http.StatusOK, call("/read"))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path      string
		wantLevel string
		wantCode  float64
	}{
		{"/ok", "INFO", 200},
		{"/boom", "WARN", 500},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "request", entry["msg"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, tt.wantCode, entry["status"])
		})
	}
}
