package ws

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sprintpoker/sprintpoker/internal/domain"
)

// Tracker lookups are request/response: upstream failures come back in
// the response payload, never as a dropped connection.

func (ctl *Controller) handleGetBoards(ctx context.Context, c *wsConn) {
	type boardsResult struct {
		Type    string         `json:"type"`
		Success bool           `json:"success"`
		Boards  []domain.Board `json:"boards,omitempty"`
		Error   string         `json:"error,omitempty"`
	}

	boards, err := ctl.Orch.Boards(ctx)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("get boards")
		ctl.sendJSON(c, boardsResult{Type: "boards", Success: false, Error: err.Error()})
		return
	}
	ctl.sendJSON(c, boardsResult{Type: "boards", Success: true, Boards: boards})
}

func (ctl *Controller) handleGetSprints(ctx context.Context, c *wsConn, data []byte) {
	var p struct {
		Type    string `json:"type"`
		BoardID int    `json:"boardId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, "bad_payload")
		return
	}

	type sprintsResult struct {
		Type    string          `json:"type"`
		Success bool            `json:"success"`
		Sprints []domain.Sprint `json:"sprints,omitempty"`
		Error   string          `json:"error,omitempty"`
	}

	sprints, err := ctl.Orch.Sprints(ctx, p.BoardID)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Int("board", p.BoardID).Msg("get sprints")
		ctl.sendJSON(c, sprintsResult{Type: "sprints", Success: false, Error: err.Error()})
		return
	}
	ctl.sendJSON(c, sprintsResult{Type: "sprints", Success: true, Sprints: sprints})
}

func (ctl *Controller) handleGetIssues(ctx context.Context, c *wsConn, data []byte) {
	var p struct {
		Type     string `json:"type"`
		BoardID  int    `json:"boardId"`
		SprintID int    `json:"sprintId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, "bad_payload")
		return
	}

	type issuesResult struct {
		Type    string         `json:"type"`
		Success bool           `json:"success"`
		Issues  []domain.Issue `json:"issues,omitempty"`
		Error   string         `json:"error,omitempty"`
	}

	issues, err := ctl.Orch.Issues(ctx, p.BoardID, p.SprintID)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Int("sprint", p.SprintID).Msg("get issues")
		ctl.sendJSON(c, issuesResult{Type: "issues", Success: false, Error: err.Error()})
		return
	}
	ctl.sendJSON(c, issuesResult{Type: "issues", Success: true, Issues: issues})
}

func (ctl *Controller) handleStartVotingIssue(connID domain.ConnectionID, c *wsConn, data []byte) {
	var p struct {
		Type      string       `json:"type"`
		SessionID string       `json:"sessionId"`
		BoardID   int          `json:"boardId"`
		SprintID  int          `json:"sprintId"`
		Issue     domain.Issue `json:"issue"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad start-voting-issue payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Orch.StartVotingOnIssue(connID, domain.SessionID(p.SessionID), p.BoardID, p.SprintID, p.Issue)
}

func (ctl *Controller) handleUpdateEstimation(ctx context.Context, connID domain.ConnectionID, c *wsConn, data []byte) {
	var p struct {
		Type      string  `json:"type"`
		SessionID string  `json:"sessionId"`
		IssueID   string  `json:"issueId"`
		Points    float64 `json:"points"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, "bad_payload")
		return
	}

	type estimationResult struct {
		Type    string `json:"type"`
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}

	if err := ctl.Orch.CommitEstimation(ctx, connID, domain.SessionID(p.SessionID), p.IssueID, p.Points); err != nil {
		log.Error().Err(err).Str("module", "ws").Str("issue", p.IssueID).Msg("update estimation")
		ctl.sendJSON(c, estimationResult{Type: "estimation-result", Success: false, Error: err.Error()})
		return
	}
	ctl.sendJSON(c, estimationResult{Type: "estimation-result", Success: true})
}
