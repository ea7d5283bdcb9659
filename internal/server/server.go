// Package server exposes the workspace over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/metrics"
	"github.com/alexanderramin/saad/internal/service"
	"github.com/gin-gonic/gin"
)

// Workspace is the part of service.Workspace the API drives.
type Workspace interface {
	Projects() []*domain.Project
	Project(id string) (*domain.Project, error)
	Metrics(projectID string) (metrics.Snapshot, error)
	Busy() bool
	CreateProject(ctx context.Context, name, description string) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	SetProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	UpdateProject(ctx context.Context, id, name, description string) error
	CreateTask(ctx context.Context, projectID string, in service.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, projectID, taskID string, patch service.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, projectID, taskID string) error
	MoveTask(ctx context.Context, projectID, taskID string, col domain.Column) (*domain.Task, error)
	SendMessage(ctx context.Context, projectID, content string) (*service.Turn, error)
}

// Server provides HTTP handlers for the project board.
type Server struct {
	engine *gin.Engine
	ws     Workspace
	logger *slog.Logger
}

// envelope is the shape of every response body.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// New constructs the HTTP server with routes and middleware configured.
func New(ws Workspace, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	srv := &Server{
		engine: router,
		ws:     ws,
		logger: logger,
	}
	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		projects := api.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.POST("", s.handleCreateProject)
			projects.GET(":id", s.handleGetProject)
			projects.PATCH(":id", s.handleUpdateProject)
			projects.DELETE(":id", s.handleDeleteProject)
			projects.PUT(":id/status", s.handleSetStatus)
			projects.GET(":id/metrics", s.handleMetrics)

			projects.POST(":id/tasks", s.handleCreateTask)
			projects.PUT(":id/tasks/:taskID", s.handleUpdateTask)
			projects.DELETE(":id/tasks/:taskID", s.handleDeleteTask)
			projects.POST(":id/tasks/:taskID/move", s.handleMoveTask)

			projects.POST(":id/messages", s.handleSendMessage)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"status": "ok", "busy": s.ws.Busy()})
}

// requestLogger logs one line per API request through slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("http_request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
		)
	}
}

// statusFor maps workspace errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProjectNotFound), errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTurnInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidTask),
		errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs server-side failures and writes the error envelope.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(status, envelope{Success: false, Error: err.Error()})
}

func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}
