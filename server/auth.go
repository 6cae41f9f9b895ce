package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/focushub/focushub/internal/models"
)

const sessionLifetime = 7 * 24 * time.Hour

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	User  models.User  `json:"user"`
	Token models.Token `json:"token"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "username, email, and password required",
		})
	}

	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "password must be at least 8 characters",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Logger().Error("bcrypt error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	s.mu.Lock()

	if _, exists := s.accounts[req.Username]; exists {
		s.mu.Unlock()
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "username already exists",
		})
	}

	acct := &account{
		User: models.User{
			ID:          uuid.NewString(),
			Username:    req.Username,
			Email:       req.Email,
			DisplayName: req.Username,
			CreatedAt:   time.Now(),
		},
		PasswordHash: hash,
		Stats:        models.UserStats{Level: 1},
	}

	s.accounts[req.Username] = acct

	token := s.createSessionLocked(acct)

	s.mu.Unlock()

	return c.JSON(http.StatusCreated, authResponse{
		User:  acct.User,
		Token: token,
	})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Username]
	s.mu.Unlock()

	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(req.Password))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	s.mu.Lock()
	token := s.createSessionLocked(acct)
	s.mu.Unlock()

	return c.JSON(http.StatusOK, authResponse{
		User:  acct.User,
		Token: token,
	})
}

// createSessionLocked issues a bearer token. Callers must hold s.mu.
func (s *Server) createSessionLocked(acct *account) models.Token {
	raw := uuid.NewString()
	expiresAt := time.Now().Add(sessionLifetime)

	s.sessions[raw] = &session{
		UserID:    acct.User.ID,
		Username:  acct.User.Username,
		ExpiresAt: expiresAt,
	}

	return models.Token{
		AccessToken: raw,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}
}

func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing token"})
		}

		s.mu.Lock()
		sess, found := s.sessions[token]
		s.mu.Unlock()

		if !found || time.Now().After(sess.ExpiresAt) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
		}

		c.Set("username", sess.Username)

		return next(c)
	}
}
