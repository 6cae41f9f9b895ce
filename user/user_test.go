package user

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/store"
)

func newTestDB(t *testing.T) store.DB {
	t.Helper()

	db, err := store.NewClient(filepath.Join(t.TempDir(), "focushub.db"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

func TestSetUserFillsDefaults(t *testing.T) {
	s := NewStore(store.Noop{})

	s.SetUser(models.User{ID: "u1", Username: "ada"}, nil)

	u := s.User()
	if u == nil {
		t.Fatal("expected a user")
	}

	if u.DisplayName != "ada" {
		t.Fatalf("DisplayName = %q, want username fallback", u.DisplayName)
	}

	if u.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should default to now")
	}

	if !s.IsAuthenticated() {
		t.Fatal("store should report authenticated after SetUser")
	}
}

func TestSetUserWithAccessToken(t *testing.T) {
	s := NewStore(store.Noop{})

	s.SetUserWithAccessToken(models.User{ID: "u1", Username: "ada"}, "tok")

	tok := s.Token()
	if tok == nil {
		t.Fatal("expected a token")
	}

	if tok.AccessToken != "tok" || tok.TokenType != "Bearer" {
		t.Fatalf("unexpected token: %+v", tok)
	}

	if !s.HasValidToken() {
		t.Fatal("synthesized token should be valid")
	}
}

func TestAuthenticatedFlagSurvivesExpiry(t *testing.T) {
	s := NewStore(store.Noop{})

	s.SetUser(models.User{ID: "u1", Username: "ada"}, &models.Token{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(-time.Hour),
	})

	if !s.IsAuthenticated() {
		t.Fatal("login flag should not depend on token expiry")
	}

	if s.HasValidToken() {
		t.Fatal("expired token should not be valid")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	db := newTestDB(t)

	s := NewStore(db)
	s.SetUser(models.User{ID: "u1", Username: "ada"}, &models.Token{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
	})
	s.SetStats(models.UserStats{TotalXP: 500, Level: 3})

	s.Logout()

	if s.User() != nil || s.Token() != nil || s.IsAuthenticated() {
		t.Fatal("logout should clear identity and token")
	}

	if s.Stats() != (models.UserStats{}) {
		t.Fatal("logout should reset stats")
	}

	state, err := db.GetAuthState()
	if err != nil {
		t.Fatal(err)
	}

	if state != nil {
		t.Fatal("persisted auth state should be removed")
	}
}

func TestRehydrateFromDatastore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focushub.db")

	db, err := store.NewClient(path)
	if err != nil {
		t.Fatal(err)
	}

	s := NewStore(db)
	s.SetUser(models.User{ID: "u1", Username: "ada", Email: "ada@example.com"}, &models.Token{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
		TokenType:   "Bearer",
	})
	s.SetStats(models.UserStats{TotalXP: 250})
	db.Close()

	db, err = store.NewClient(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	restored := NewStore(db)

	u := restored.User()
	if u == nil || u.Username != "ada" {
		t.Fatalf("identity not restored: %+v", u)
	}

	if !restored.IsAuthenticated() {
		t.Fatal("authenticated flag not restored")
	}

	// stats are session-scoped and must not survive a restart
	if restored.Stats().TotalXP != 0 {
		t.Fatal("stats should not be persisted")
	}
}
