// Package user manages the authenticated identity, its session-scoped stats
// and preferences, and the persisted auth slice.
package user

import (
	"log/slog"
	"sync"
	"time"

	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/store"
)

// accessTokenLifetime applies when only a raw access token is known and the
// backend supplied no expiry.
const accessTokenLifetime = 7 * 24 * time.Hour

func defaultPreferences() models.Preferences {
	return models.Preferences{
		Theme:                "dark",
		SoundEnabled:         true,
		NotificationsEnabled: true,
	}
}

// Store holds the current user identity. Only the identity, token, and
// authenticated flag persist across runs; stats and preferences are
// session-scoped and refetched from the backend.
type Store struct {
	mu sync.Mutex
	db store.DB

	user            *models.User
	token           *models.Token
	isAuthenticated bool
	stats           models.UserStats
	prefs           models.Preferences
}

// NewStore rehydrates the auth slice from the local datastore. A corrupt or
// absent record yields a signed-out store.
func NewStore(db store.DB) *Store {
	s := &Store{
		db:    db,
		prefs: defaultPreferences(),
	}

	state, err := db.GetAuthState()
	if err != nil {
		slog.Warn("unable to restore auth state", slog.Any("error", err))
		return s
	}

	if state != nil {
		s.user = state.User
		s.token = state.Token
		s.isAuthenticated = state.IsAuthenticated
	}

	return s
}

// SetUser records a login with the given identity and token. Missing
// identity fields fall back to sensible defaults so partial backend payloads
// still produce a usable account. The authenticated flag means a login was
// performed; token expiry is checked separately via HasValidToken.
func (s *Store) SetUser(u models.User, token *models.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	if token != nil && token.TokenType == "" {
		token.TokenType = "Bearer"
	}

	s.user = &u
	s.token = token
	s.isAuthenticated = true

	s.persist()
}

// SetUserWithAccessToken records a login where only a raw access token is
// known, synthesizing token metadata.
func (s *Store) SetUserWithAccessToken(u models.User, accessToken string) {
	s.SetUser(u, &models.Token{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(accessTokenLifetime),
		TokenType:   "Bearer",
	})
}

// Logout clears the identity, token, and persisted auth slice. Stats and
// preferences reset to their session defaults.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = nil
	s.isAuthenticated = false
	s.stats = models.UserStats{}
	s.prefs = defaultPreferences()

	err := s.db.DeleteAuthState()
	if err != nil {
		slog.Warn("unable to clear auth state", slog.Any("error", err))
	}
}

// ClearUser is Logout under the name used by callers that never performed a
// login, such as expiring a restored identity.
func (s *Store) ClearUser() {
	s.Logout()
}

// User returns the current identity, or nil when signed out.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}

// Token returns the current token, or nil when signed out.
func (s *Store) Token() *models.Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token
}

// IsAuthenticated reports whether a login was performed. It stays true even
// after the token expires; callers that need a live credential should also
// check HasValidToken.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isAuthenticated
}

// HasValidToken reports whether the stored token exists and has not expired.
func (s *Store) HasValidToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token != nil && time.Now().Before(s.token.ExpiresAt)
}

// SetStats replaces the session-scoped stats snapshot.
func (s *Store) SetStats(stats models.UserStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = stats
}

// Stats returns the session-scoped stats snapshot.
func (s *Store) Stats() models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// SetPreferences replaces the session-scoped preferences.
func (s *Store) SetPreferences(p models.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = p
}

// Preferences returns the session-scoped preferences.
func (s *Store) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.prefs
}

// persist writes the auth slice. Callers must hold s.mu. Failures are logged
// and otherwise ignored so a broken datastore never blocks sign-in.
func (s *Store) persist() {
	err := s.db.SaveAuthState(&models.AuthState{
		User:            s.user,
		Token:           s.token,
		IsAuthenticated: s.isAuthenticated,
	})
	if err != nil {
		slog.Warn("unable to persist auth state", slog.Any("error", err))
	}
}
