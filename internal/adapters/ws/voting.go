package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sprintpoker/sprintpoker/internal/domain"
)

// Round-control messages are fire-and-forget: authority and state
// checks that fail produce no reply, only the absence of a broadcast.

func (ctl *Controller) handleStartVoting(connID domain.ConnectionID, c *wsConn, data []byte) {
	var p struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
		Story     string `json:"story"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad start-voting payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Orch.StartVoting(connID, domain.SessionID(p.SessionID), p.Story)
}

func (ctl *Controller) handleVote(connID domain.ConnectionID, c *wsConn, data []byte) {
	var p struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
		Vote      string `json:"vote"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad vote payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Orch.Vote(connID, domain.SessionID(p.SessionID), p.Vote)
}

func (ctl *Controller) handleRevealVotes(connID domain.ConnectionID, c *wsConn, data []byte) {
	var p struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Orch.RevealVotes(connID, domain.SessionID(p.SessionID))
}

func (ctl *Controller) handleResetVotes(connID domain.ConnectionID, c *wsConn, data []byte) {
	var p struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, "bad_payload")
		return
	}
	ctl.Orch.ResetVotes(connID, domain.SessionID(p.SessionID))
}
