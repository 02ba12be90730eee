// Package jira talks to the Jira Agile REST API. It is the only place
// the server performs outbound I/O; every failure comes back as a
// wrapped error, never a panic.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sprintpoker/sprintpoker/internal/config"
	"github.com/sprintpoker/sprintpoker/internal/domain"
)

type Client struct {
	baseURL          string
	email            string
	apiToken         string
	storyPointsField string
	http             *http.Client
}

func NewClient(cfg config.Jira) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:          cfg.BaseURL,
		email:            cfg.Email,
		apiToken:         cfg.APIToken,
		storyPointsField: cfg.StoryPointsField,
		http:             &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("jira request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("jira api error: %s %s", resp.Status, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode jira response %s: %w", path, err)
	}
	return nil
}

func (c *Client) Boards(ctx context.Context) ([]domain.Board, error) {
	var payload struct {
		Values []domain.Board `json:"values"`
	}
	if err := c.get(ctx, "/rest/agile/1.0/board", &payload); err != nil {
		return nil, err
	}
	return payload.Values, nil
}

func (c *Client) Sprints(ctx context.Context, boardID int) ([]domain.Sprint, error) {
	var payload struct {
		Values []domain.Sprint `json:"values"`
	}
	path := fmt.Sprintf("/rest/agile/1.0/board/%d/sprint", boardID)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload.Values, nil
}

func (c *Client) Issues(ctx context.Context, boardID, sprintID int) ([]domain.Issue, error) {
	var payload struct {
		Issues []domain.Issue `json:"issues"`
	}
	path := fmt.Sprintf("/rest/agile/1.0/sprint/%d/issue", sprintID)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload.Issues, nil
}

// SetStoryPoints writes the estimation into the configured custom
// field. Jira answers PUT issue updates with 204 No Content.
func (c *Client) SetStoryPoints(ctx context.Context, issueID string, points float64) error {
	body, err := json.Marshal(map[string]any{
		"fields": map[string]any{c.storyPointsField: points},
	})
	if err != nil {
		return fmt.Errorf("encode story points: %w", err)
	}

	url := fmt.Sprintf("%s/rest/api/3/issue/%s", c.baseURL, issueID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("jira update issue %s: %w", issueID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("jira update issue %s: %s: %s", issueID, resp.Status, detail)
	}
	log.Info().Str("module", "jira").Str("issue", issueID).Float64("points", points).Msg("story points updated")
	return nil
}
