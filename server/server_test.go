package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/focushub/focushub/achievement"
	"github.com/focushub/focushub/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(New().Router())
	t.Cleanup(srv.Close)

	return srv
}

func postJSON(
	t *testing.T,
	url, token string,
	in any,
) *http.Response {
	t.Helper()

	body, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return resp
}

func register(t *testing.T, srv *httptest.Server, username string) authResponse {
	t.Helper()

	resp := postJSON(t, srv.URL+"/api/auth/register", "", registerRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "correcthorse",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatal(err)
	}

	return auth
}

func TestRegisterThenLogin(t *testing.T) {
	srv := newTestServer(t)

	auth := register(t, srv, "ada")

	if auth.User.Username != "ada" || auth.Token.AccessToken == "" {
		t.Fatalf("unexpected auth response: %+v", auth)
	}

	resp := postJSON(t, srv.URL+"/api/auth/login", "", loginRequest{
		Username: "ada",
		Password: "correcthorse",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/auth/login", "", loginRequest{
		Username: "ada",
		Password: "wrong",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", "", registerRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "short",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short password status = %d, want 400", resp.StatusCode)
	}

	register(t, srv, "grace")

	resp = postJSON(t, srv.URL+"/api/auth/register", "", registerRequest{
		Username: "grace",
		Email:    "other@example.com",
		Password: "correcthorse",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate username status = %d, want 409", resp.StatusCode)
	}
}

func TestSyncPushUpdatesStats(t *testing.T) {
	srv := newTestServer(t)

	auth := register(t, srv, "ada")
	token := auth.Token.AccessToken

	resp := postJSON(t, srv.URL+"/api/timer/sync", token, syncRequest{
		Data: []models.PendingSync{
			{ID: "s1", Session: models.SessionRecord{
				SessionType: models.Work, Duration: 1500, Completed: true,
			}},
			{ID: "s2", Session: models.SessionRecord{
				SessionType: models.Break, Duration: 300, Completed: true,
			}},
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sync status = %d", resp.StatusCode)
	}

	var result syncResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}

	if result.Accepted != 2 {
		t.Fatalf("Accepted = %d, want 2", result.Accepted)
	}

	// only the completed work session earns stats
	if result.Stats.SessionsCompleted != 1 ||
		result.Stats.TotalFocusSeconds != 1500 ||
		result.Stats.TotalXP != xpPerWorkSession {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
}

func TestSyncRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/timer/sync", "", syncRequest{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLeaderboardRanksOptedInByXP(t *testing.T) {
	srv := newTestServer(t)

	ada := register(t, srv, "ada")
	grace := register(t, srv, "grace")
	register(t, srv, "hidden")

	push := func(token string, sessions int) {
		var data []models.PendingSync
		for i := 0; i < sessions; i++ {
			data = append(data, models.PendingSync{
				Session: models.SessionRecord{
					SessionType: models.Work, Duration: 1500, Completed: true,
				},
			})
		}

		resp := postJSON(t, srv.URL+"/api/timer/sync", token, syncRequest{Data: data})
		resp.Body.Close()
	}

	push(ada.Token.AccessToken, 1)
	push(grace.Token.AccessToken, 3)

	for _, token := range []string{ada.Token.AccessToken, grace.Token.AccessToken} {
		resp := postJSON(t, srv.URL+"/api/user/leaderboard-opt-in", token, struct{}{})
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var entries []achievement.LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 opted-in entries, got %d", len(entries))
	}

	if entries[0].Username != "grace" || entries[0].Rank != 1 {
		t.Fatalf("wrong leader: %+v", entries[0])
	}

	if entries[1].Username != "ada" || entries[1].Rank != 2 {
		t.Fatalf("wrong runner-up: %+v", entries[1])
	}
}
