package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/autocut/api/types"
	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/pkg/config"
)

// Server serves the job and cut API.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	limiters   *clientLimiters
	security   config.SecurityConfig
	rateLimit  int
	logger     *slog.Logger
	deps       *types.Dependencies
}

// NewServer builds the server. Handlers without a logger in deps use logger.
func NewServer(server config.ServerConfig, security config.SecurityConfig, deps *types.Dependencies, logger *slog.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	if deps == nil {
		deps = &types.Dependencies{}
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}

	return &Server{
		engine:    engine,
		limiters:  newClientLimiters(),
		security:  security,
		rateLimit: server.RateLimit,
		logger:    logging.NewComponent(logger, "http"),
		deps:      deps,
		httpServer: &http.Server{
			Addr:           net.JoinHostPort(server.Host, strconv.Itoa(server.Port)),
			Handler:        engine,
			ReadTimeout:    server.ReadTimeout,
			WriteTimeout:   server.WriteTimeout,
			IdleTimeout:    server.ReadTimeout,
			MaxHeaderBytes: server.MaxHeaderBytes,
		},
	}
}

// Engine exposes the router to tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Initialize installs middleware and routes. Both services are required.
func (s *Server) Initialize() error {
	if s.deps.JobService == nil || s.deps.CutService == nil {
		return fmt.Errorf("job and cut services are required")
	}

	s.setupMiddleware()
	RegisterRoutes(s.engine, s.deps, s.limiters, s.rateLimit)
	return nil
}

func (s *Server) setupMiddleware() {
	s.engine.Use(RequestLogger(s.logger))

	if s.security.EnableCORS {
		s.engine.Use(CORS(s.security.CORSOrigins...))
	}

	s.engine.Use(RequestSizeLimit(s.security.MaxRequestSize))
}

// Start serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiters.Stop()
	return s.httpServer.Shutdown(ctx)
}
