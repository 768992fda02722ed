// Package server exposes the issue tracker over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Art-of-Technology/collab/internal/app"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultAddr is the listen address used when none is configured
const DefaultAddr = "localhost:8080"

// Config holds HTTP server configuration
type Config struct {
	Addr string
}

// Server serves the REST API
type Server struct {
	echo     *echo.Echo
	app      *app.App
	logger   *slog.Logger
	config   *Config
	registry *prometheus.Registry
}

// New creates a server over the application services. A nil config uses
// DefaultAddr.
func New(a *app.App, logger *slog.Logger, cfg *Config) (*Server, error) {
	if a == nil {
		return nil, errors.New("app is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		app:      a,
		logger:   logger,
		config:   cfg,
		registry: prometheus.NewRegistry(),
	}
	e.HTTPErrorHandler = s.handleError

	metrics := newHTTPMetrics(s.registry)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.middleware())
	e.Use(s.requestLogger())

	s.registerRoutes()
	return s, nil
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			s.logger.Info("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration", time.Since(start),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return nil
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := s.echo.Group("/api")

	ws := api.Group("/workspaces/:ws")
	ws.GET("/issues", s.handleListIssues)
	ws.GET("/issues/:key", s.handleGetIssue)
	ws.GET("/issues/:key/relations", s.handleGetRelations)
	ws.POST("/issues/:key/relations/bulk", s.handleAddRelations)
	ws.DELETE("/issues/:key/relations/:id", s.handleRemoveRelation)
	ws.GET("/views", s.handleListViews)
	ws.POST("/views", s.handleCreateView)
	ws.GET("/views/:id", s.handleGetView)
	ws.PUT("/views/:id", s.handleUpdateView)

	api.GET("/issues/search", s.handleSearch)
	api.PUT("/issues/:id", s.handleUpdateIssue)

	api.GET("/projects/:id/statuses", s.handleListStatuses)
	api.PATCH("/projects/:id/statuses/reorder", s.handleReorderStatuses)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.config.Addr
}

// Start starts the HTTP server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting http server", "addr", s.config.Addr)
	return s.echo.Start(s.config.Addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
