package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/focushub/focushub/achievement"
	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/project"
)

func getJSON(t *testing.T, url, token string, out any) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}

	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatal(err)
		}
	}

	return resp.StatusCode
}

func TestCreateAndListProjects(t *testing.T) {
	srv := newTestServer(t)

	auth := register(t, srv, "ada")
	token := auth.Token.AccessToken

	var list []project.Project

	status := getJSON(t, srv.URL+"/api/projects", token, &list)
	if status != http.StatusOK || len(list) != 0 {
		t.Fatalf("fresh account: status = %d, projects = %d", status, len(list))
	}

	resp := postJSON(t, srv.URL+"/api/projects", token, project.Project{
		Name: "Thesis",
		Tags: []string{"writing"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	var created project.Project
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	if created.ID == "" || created.Status != project.StatusActive {
		t.Fatalf("unexpected created project: %+v", created)
	}

	status = getJSON(t, srv.URL+"/api/projects", token, &list)
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}

	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected the created project back, got %+v", list)
	}
}

func TestCreateProjectRequiresName(t *testing.T) {
	srv := newTestServer(t)

	auth := register(t, srv, "ada")

	resp := postJSON(t, srv.URL+"/api/projects", auth.Token.AccessToken, project.Project{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestProjectsAreScopedToAccount(t *testing.T) {
	srv := newTestServer(t)

	ada := register(t, srv, "ada")
	grace := register(t, srv, "grace")

	resp := postJSON(t, srv.URL+"/api/projects", ada.Token.AccessToken, project.Project{
		Name: "Secret",
	})
	resp.Body.Close()

	var list []project.Project

	getJSON(t, srv.URL+"/api/projects", grace.Token.AccessToken, &list)

	if len(list) != 0 {
		t.Fatalf("grace should see no projects, got %+v", list)
	}
}

func TestAchievementsReflectSessionCount(t *testing.T) {
	srv := newTestServer(t)

	auth := register(t, srv, "ada")
	token := auth.Token.AccessToken

	var list []achievement.Achievement

	getJSON(t, srv.URL+"/api/achievements", token, &list)

	if len(list) != len(achievementCatalog) {
		t.Fatalf("catalog size = %d, want %d", len(list), len(achievementCatalog))
	}

	for _, a := range list {
		if a.UnlockedAt != nil {
			t.Fatalf("achievement %q unlocked before any session", a.ID)
		}
	}

	resp := postJSON(t, srv.URL+"/api/timer/sync", token, syncRequest{
		Data: []models.PendingSync{
			{Session: models.SessionRecord{
				SessionType: models.Work, Duration: 1500, Completed: true,
			}},
		},
	})
	resp.Body.Close()

	getJSON(t, srv.URL+"/api/achievements", token, &list)

	byID := make(map[string]achievement.Achievement, len(list))
	for _, a := range list {
		byID[a.ID] = a
	}

	if byID["first-session"].UnlockedAt == nil {
		t.Fatal("first-session should unlock after one work session")
	}

	if byID["ten-sessions"].UnlockedAt != nil {
		t.Fatal("ten-sessions should still be locked")
	}
}

func TestCatalogRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/projects", "/api/achievements"} {
		status := getJSON(t, srv.URL+path, "", nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", path, status)
		}
	}
}
