// Package server implements the FocusHub companion backend: account auth,
// offline sync ingestion, stats, and the leaderboard. It keeps accounts in
// memory and exists for self-hosting and development against the client.
package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/project"
)

// Server is the sync backend.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by username
	sessions map[string]*session // keyed by token

	echo *echo.Echo
}

type account struct {
	User         models.User
	PasswordHash []byte
	Stats        models.UserStats
	Records      []models.SessionRecord
	Projects     []project.Project
	OptIn        bool
}

type session struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}

// New creates a server with its routes registered.
func New() *Server {
	s := &Server{
		accounts: make(map[string]*account),
		sessions: make(map[string]*session),
	}

	s.setupEcho()

	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()

			slog.Info("http request",
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.Int("status", res.Status),
				slog.Duration("duration", time.Since(start)))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)

	api := e.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.GET("/leaderboard", s.handleLeaderboard)

	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/user/stats", s.handleStats)
	protected.POST("/timer/sync", s.handleSyncPush)
	protected.POST("/user/leaderboard-opt-in", s.handleOptIn)
	protected.GET("/projects", s.handleProjects)
	protected.POST("/projects", s.handleCreateProject)
	protected.GET("/achievements", s.handleAchievements)

	s.echo = e
}

// Router returns the HTTP handler, mostly for tests.
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start serves until the listener fails.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
