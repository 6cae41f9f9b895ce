package server

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/focushub/focushub/achievement"
	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/internal/xp"
)

// xpPerWorkSession is credited for each completed work session pushed
// through sync. Breaks earn nothing.
const xpPerWorkSession = 25

type syncRequest struct {
	Data []models.PendingSync `json:"data"`
}

type syncResponse struct {
	Accepted int              `json:"accepted"`
	Stats    models.UserStats `json:"stats"`
}

func (s *Server) handleSyncPush(c echo.Context) error {
	var req syncRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	username := c.Get("username").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[username]
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown account"})
	}

	for _, item := range req.Data {
		sess := item.Session

		acct.Records = append(acct.Records, sess)

		if !sess.Completed || sess.SessionType != models.Work {
			continue
		}

		acct.Stats.SessionsCompleted++
		acct.Stats.TotalFocusSeconds += sess.Duration
		acct.Stats.TotalXP += xpPerWorkSession
		acct.Stats.Level = xp.Level(acct.Stats.TotalXP)
	}

	return c.JSON(http.StatusOK, syncResponse{
		Accepted: len(req.Data),
		Stats:    acct.Stats,
	})
}

func (s *Server) handleStats(c echo.Context) error {
	username := c.Get("username").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[username]
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown account"})
	}

	return c.JSON(http.StatusOK, acct.Stats)
}

func (s *Server) handleOptIn(c echo.Context) error {
	username := c.Get("username").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[username]
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown account"})
	}

	acct.OptIn = !acct.OptIn

	return c.JSON(http.StatusOK, map[string]bool{"opt_in": acct.OptIn})
}

// handleLeaderboard ranks opted-in accounts by total XP. It is public: the
// opt-in preference is the only visibility control.
func (s *Server) handleLeaderboard(c echo.Context) error {
	s.mu.Lock()

	var entries []achievement.LeaderboardEntry

	for _, acct := range s.accounts {
		if !acct.OptIn {
			continue
		}

		entries = append(entries, achievement.LeaderboardEntry{
			Username: acct.User.Username,
			TotalXP:  acct.Stats.TotalXP,
			Level:    acct.Stats.Level,
		})
	}

	s.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalXP > entries[j].TotalXP
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return c.JSON(http.StatusOK, entries)
}
