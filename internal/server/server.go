package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"taskcal/internal/apperr"
	"taskcal/internal/auth"
	"taskcal/internal/storage"
)

// Server provides the HTTP handlers for the task calendar backend.
type Server struct {
	engine    *gin.Engine
	store     *storage.Store
	auth      *auth.Service
	logger    *slog.Logger
	staticDir string
	loc       *time.Location
	now       func() time.Time
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *storage.Store, authSvc *auth.Service, logger *slog.Logger, staticDir string, loc *time.Location) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	srv := &Server{
		engine:    router,
		store:     store,
		auth:      authSvc,
		logger:    logger,
		staticDir: staticDir,
		loc:       loc,
		now:       func() time.Time { return time.Now().In(loc) },
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	api.Use(rateLimit(rate.Limit(50), 100))
	{
		api.GET("/healthz", s.handleHealth)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
			authGroup.GET("/me", s.requireAuth(), s.handleMe)
		}

		tasks := api.Group("/tasks", s.requireAuth())
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET("/today", s.handleToday)
			tasks.GET("/this-week", s.handleThisWeek)
			tasks.GET("/this-month", s.handleThisMonth)
			tasks.GET("/date-range", s.handleDateRange)
			tasks.GET("/upcoming", s.handleUpcoming)
			tasks.GET("/overdue", s.handleOverdue)
			tasks.GET("/search", s.handleSearch)
			tasks.GET("/calendar", s.handleCalendar)
			tasks.GET("/status/:status", s.handleByStatus)
			tasks.GET("/priority/:priority", s.handleByPriority)
			tasks.GET("/category/:category", s.handleByCategory)

			tasks.GET("/:id", s.handleGetTask)
			tasks.PUT("/:id", s.handleUpdateTask)
			tasks.DELETE("/:id", s.handleDeleteTask)
			tasks.PATCH("/:id/complete", s.handleCompleteTask)
			tasks.PATCH("/:id/status", s.handleUpdateStatus)

			tasks.POST("/:id/repeat", s.handleExpandRepeat)
			tasks.GET("/:id/repeat", s.handleListOccurrences)
			tasks.DELETE("/:id/repeat", s.handleDeleteOccurrences)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError logs the failure and maps it onto the right status code.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest reports malformed request bodies and parameters.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
