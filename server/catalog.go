package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/focushub/focushub/achievement"
	"github.com/focushub/focushub/project"
)

// achievementCatalog is the built-in set of unlockable achievements, each
// gated on a completed-session count.
var achievementCatalog = []struct {
	Achievement achievement.Achievement
	Sessions    int
}{
	{achievement.Achievement{
		ID:          "first-session",
		Name:        "First Steps",
		Description: "Complete your first work session",
		XPReward:    50,
	}, 1},
	{achievement.Achievement{
		ID:          "ten-sessions",
		Name:        "Getting Serious",
		Description: "Complete 10 work sessions",
		XPReward:    100,
	}, 10},
	{achievement.Achievement{
		ID:          "hundred-sessions",
		Name:        "Deep Work",
		Description: "Complete 100 work sessions",
		XPReward:    500,
	}, 100},
}

// handleAchievements returns the catalog with the account's unlock state
// derived from its session count.
func (s *Server) handleAchievements(c echo.Context) error {
	username := c.Get("username").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[username]
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown account"})
	}

	list := make([]achievement.Achievement, 0, len(achievementCatalog))

	for _, entry := range achievementCatalog {
		a := entry.Achievement

		if acct.Stats.SessionsCompleted >= entry.Sessions {
			unlocked := time.Now()
			a.UnlockedAt = &unlocked
		}

		list = append(list, a)
	}

	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleProjects(c echo.Context) error {
	username := c.Get("username").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[username]
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown account"})
	}

	if acct.Projects == nil {
		acct.Projects = []project.Project{}
	}

	return c.JSON(http.StatusOK, acct.Projects)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var p project.Project
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if p.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "project name required"})
	}

	username := c.Get("username").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[username]
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown account"})
	}

	now := time.Now()

	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	if p.Status == "" {
		p.Status = project.StatusActive
	}

	acct.Projects = append(acct.Projects, p)

	return c.JSON(http.StatusCreated, p)
}
