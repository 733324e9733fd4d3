package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
	"github.com/killallgit/autocut/internal/database"
	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/services/cuts"
	"github.com/killallgit/autocut/internal/services/jobs"
	"github.com/killallgit/autocut/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, rateLimit int) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(database.MemoryPath, false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	logger := logging.NewNop()
	deps := &types.Dependencies{
		DB:         db,
		JobService: jobs.NewService(jobs.NewRepository(db.DB), logger),
		CutService: cuts.NewService(cuts.NewRepository(db.DB), logger),
		Build:      types.BuildInfo{Version: "test"},
	}

	srv := NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 8080, ReadTimeout: time.Second, WriteTimeout: time.Second, RateLimit: rateLimit},
		config.SecurityConfig{EnableCORS: true, CORSOrigins: []string{"*"}, MaxRequestSize: 1024},
		deps,
		logger,
	)
	require.NoError(t, srv.Initialize())
	t.Cleanup(func() { srv.limiters.Stop() })
	return srv
}

func serve(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.1:4000"
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	srv := testServer(t, 600)
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"version", http.MethodGet, "/version", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
		{"docs redirect", http.MethodGet, "/docs", "", http.StatusMovedPermanently},
		{"swagger ui", http.MethodGet, "/docs/index.html", "", http.StatusOK},
		{"list cuts", http.MethodGet, "/api/v1/cuts", "", http.StatusOK},
		{"list jobs", http.MethodGet, "/api/v1/jobs", "", http.StatusOK},
		{"oversized body", http.MethodPost, "/api/v1/cuts", `{"input_path":"/` + strings.Repeat("a", 2048) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServer_SwaggerDocument(t *testing.T) {
	srv := testServer(t, 600)

	w := serve(srv, http.MethodGet, "/docs/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc), w.Body.String())
	assert.Equal(t, "autocut API", doc.Info.Title)

	tests := []struct {
		path   string
		method string
	}{
		{"/health", "get"},
		{"/version", "get"},
		{"/api/v1/cuts", "get"},
		{"/api/v1/cuts", "post"},
		{"/api/v1/cuts/{id}", "get"},
		{"/api/v1/jobs", "get"},
		{"/api/v1/jobs/{id}", "get"},
		{"/api/v1/jobs/{id}/retry", "post"},
	}
	for _, tt := range tests {
		assert.Contains(t, doc.Paths[tt.path], tt.method, "%s %s", tt.method, tt.path)
	}
}

func TestServer_SubmitAndPoll(t *testing.T) {
	srv := testServer(t, 600)

	w := serve(srv, http.MethodPost, "/api/v1/cuts", `{"input_path":"/videos/talk.mp4","frame_margin":2}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var created types.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = serve(srv, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", created.Job.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	var polled types.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &polled))
	assert.Equal(t, created.Job.ID, polled.Job.ID)
	assert.Equal(t, "pending", polled.Job.Status)
}

func TestServer_SubmitIsRateLimited(t *testing.T) {
	srv := testServer(t, 10)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		body := fmt.Sprintf(`{"input_path":"/videos/%d.mp4"}`, i)
		codes = append(codes, serve(srv, http.MethodPost, "/api/v1/cuts", body).Code)
	}
	assert.Contains(t, codes, http.StatusTooManyRequests)
	assert.Equal(t, http.StatusAccepted, codes[0])
}

func TestServer_InitializeRequiresServices(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 8080}, config.SecurityConfig{}, nil, logging.NewNop())
	defer srv.limiters.Stop()
	assert.Error(t, srv.Initialize())
}
