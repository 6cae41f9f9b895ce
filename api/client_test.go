package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/retry"
)

func TestLoginSendsCredentialsAndDecodesIdentity(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/auth/login" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}

			var req loginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Error(err)
			}

			if req.Username != "ada" || req.Password != "secret" {
				t.Errorf("credentials not forwarded: %+v", req)
			}

			json.NewEncoder(rw).Encode(LoginResponse{
				User:  models.User{ID: "u1", Username: "ada"},
				Token: models.Token{AccessToken: "tok", TokenType: "Bearer"},
			})
		}),
	)
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	resp, err := c.Login(context.Background(), "ada", "secret")
	if err != nil {
		t.Fatal(err)
	}

	if resp.User.Username != "ada" || resp.Token.AccessToken != "tok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServerErrorsAreRetriedThenSurfaced(t *testing.T) {
	calls := 0

	srv := httptest.NewServer(
		http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			calls++
			rw.WriteHeader(http.StatusInternalServerError)
		}),
	)
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	// shrink the backoff so the test does not sleep for real
	c.apiRetrier = retry.New(retry.Config{BaseDelay: 1, MaxDelay: 1})

	_, err := c.Stats(context.Background())

	var httpErr *retry.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 {
		t.Fatalf("got %v, want an HTTP 500 error", err)
	}

	if calls != 3 {
		t.Fatalf("server called %d times, want 3", calls)
	}
}

func TestClientErrorsFailFast(t *testing.T) {
	calls := 0

	srv := httptest.NewServer(
		http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			calls++
			rw.WriteHeader(http.StatusUnauthorized)
		}),
	)
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	if _, err := c.Stats(context.Background()); err == nil {
		t.Fatal("expected an error")
	}

	if calls != 1 {
		t.Fatalf("server called %d times, want 1", calls)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("Authorization = %q", got)
			}

			json.NewEncoder(rw).Encode(models.UserStats{})
		}),
	)
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	c.SetToken("tok")

	if _, err := c.Stats(context.Background()); err != nil {
		t.Fatal(err)
	}
}
