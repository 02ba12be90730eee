package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sprintpoker/sprintpoker/internal/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.Jira{
		BaseURL:          url,
		Email:            "bot@example.com",
		APIToken:         "token",
		StoryPointsField: "customfield_10016",
		Timeout:          time.Second,
	})
}

func TestBoards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/agile/1.0/board" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "bot@example.com" || pass != "token" {
			t.Error("missing basic auth")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"values":[{"id":7,"key":"PROJ","name":"Project board","type":"scrum"}]}`))
	}))
	defer srv.Close()

	boards, err := newTestClient(srv.URL).Boards(context.Background())
	if err != nil {
		t.Fatalf("Boards: %v", err)
	}
	if len(boards) != 1 || boards[0].ID != 7 || boards[0].Name != "Project board" {
		t.Fatalf("boards = %+v", boards)
	}
}

func TestSprintsAndIssuesPaths(t *testing.T) {
	var gotPaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "sprint/"):
			w.Write([]byte(`{"issues":[{"id":"10001","key":"PROJ-1","fields":{"summary":"Fix login","status":{"name":"To Do"}}}]}`))
		default:
			w.Write([]byte(`{"values":[{"id":42,"name":"Sprint 1","state":"active"}]}`))
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	sprints, err := c.Sprints(context.Background(), 7)
	if err != nil {
		t.Fatalf("Sprints: %v", err)
	}
	if len(sprints) != 1 || sprints[0].ID != 42 {
		t.Fatalf("sprints = %+v", sprints)
	}

	issues, err := c.Issues(context.Background(), 7, 42)
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	if len(issues) != 1 || issues[0].Key != "PROJ-1" || issues[0].Fields.Summary != "Fix login" {
		t.Fatalf("issues = %+v", issues)
	}

	want := []string{"/rest/agile/1.0/board/7/sprint", "/rest/agile/1.0/sprint/42/issue"}
	for i, p := range want {
		if gotPaths[i] != p {
			t.Errorf("path[%d] = %s, want %s", i, gotPaths[i], p)
		}
	}
}

func TestSetStoryPoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/rest/api/3/issue/10001" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]map[string]float64
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["fields"]["customfield_10016"] != 5 {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).SetStoryPoints(context.Background(), "10001", 5); err != nil {
		t.Fatalf("SetStoryPoints: %v", err)
	}
}

func TestSetStoryPointsErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessages":["Field 'customfield_10016' cannot be set"]}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SetStoryPoints(context.Background(), "10001", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "cannot be set") {
		t.Fatalf("error lacks detail: %v", err)
	}
}

func TestLookupFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Boards(context.Background()); err == nil {
		t.Fatal("expected error for 401")
	}
}
