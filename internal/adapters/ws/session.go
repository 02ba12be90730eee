package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sprintpoker/sprintpoker/internal/core"
	"github.com/sprintpoker/sprintpoker/internal/domain"
)

func (ctl *Controller) handleCreateSession(connID domain.ConnectionID, c *wsConn, data []byte) {
	var p struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad create payload")
		ctl.sendError(c, "bad_payload")
		return
	}

	sessionID, state, err := ctl.Orch.CreateSession(connID, p.Name, c)
	if err != nil {
		ctl.sendError(c, err.Error())
		return
	}
	log.Info().Str("module", "ws").Str("conn", string(connID)).Str("session", string(sessionID)).Msg("session created")
	ctl.sendJSON(c, struct {
		Type      string             `json:"type"`
		SessionID domain.SessionID   `json:"sessionId"`
		Session   *core.SessionState `json:"session"`
	}{
		Type:      "session-created",
		SessionID: sessionID,
		Session:   state,
	})
}

func (ctl *Controller) handleJoinSession(connID domain.ConnectionID, c *wsConn, data []byte) {
	var p struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
		Name      string `json:"name"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad join payload")
		ctl.sendError(c, "bad_payload")
		return
	}

	type joinResult struct {
		Type    string             `json:"type"`
		Success bool               `json:"success"`
		Session *core.SessionState `json:"session,omitempty"`
		Error   string             `json:"error,omitempty"`
	}

	// The join response carries the full current state: the client's
	// subscription may not yet receive the follow-up broadcast.
	state, err := ctl.Orch.JoinSession(connID, domain.SessionID(p.SessionID), p.Name, c)
	if err != nil {
		ctl.sendJSON(c, joinResult{Type: "join-result", Success: false, Error: err.Error()})
		return
	}
	log.Info().Str("module", "ws").Str("conn", string(connID)).Str("session", p.SessionID).Msg("joined session")
	ctl.sendJSON(c, joinResult{Type: "join-result", Success: true, Session: state})
}

func (ctl *Controller) handleGetSession(c *wsConn, data []byte) {
	var p struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, "bad_payload")
		return
	}

	type sessionResult struct {
		Type    string             `json:"type"`
		Success bool               `json:"success"`
		Session *core.SessionState `json:"session,omitempty"`
		Error   string             `json:"error,omitempty"`
	}

	state, err := ctl.Orch.State(domain.SessionID(p.SessionID))
	if err != nil {
		ctl.sendJSON(c, sessionResult{Type: "session-state", Success: false, Error: err.Error()})
		return
	}
	ctl.sendJSON(c, sessionResult{Type: "session-state", Success: true, Session: state})
}
