package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sprintpoker/sprintpoker/internal/core"
	"github.com/sprintpoker/sprintpoker/internal/domain"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, connID domain.ConnectionID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "ws").Str("conn", string(connID)).Msg("connection closing")
		ctl.Orch.Disconnect(connID)
		ctl.limiter.Forget(connID)
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "ws").Str("conn", string(connID)).Msg("readPump error")
				}
				return
			}
			ctl.dispatch(ctx, connID, c, data)
		}
	}
}

func (ctl *Controller) dispatch(ctx context.Context, connID domain.ConnectionID, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	if !ctl.limiter.Allow(connID) {
		log.Warn().Str("module", "ws").Str("conn", string(connID)).Str("type", env.Type).Msg("rate limited")
		ctl.sendError(c, "rate_limited")
		return
	}

	switch env.Type {
	case "create-session":
		ctl.handleCreateSession(connID, c, data)
	case "join-session":
		ctl.handleJoinSession(connID, c, data)
	case "get-session":
		ctl.handleGetSession(c, data)
	case "start-voting":
		ctl.handleStartVoting(connID, c, data)
	case "start-voting-issue":
		ctl.handleStartVotingIssue(connID, c, data)
	case "vote":
		ctl.handleVote(connID, c, data)
	case "reveal-votes":
		ctl.handleRevealVotes(connID, c, data)
	case "reset-votes":
		ctl.handleResetVotes(connID, c, data)
	case "get-boards":
		ctl.handleGetBoards(ctx, c)
	case "get-sprints":
		ctl.handleGetSprints(ctx, c, data)
	case "get-issues":
		ctl.handleGetIssues(ctx, c, data)
	case "update-issue-estimation":
		ctl.handleUpdateEstimation(ctx, connID, c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "ws").Str("type", env.Type).Msg("unknown message")
	}
}

func (ctl *Controller) handlePing(c *wsConn) {
	ctl.sendJSON(c, struct {
		Type string `json:"type"`
	}{Type: "pong"})
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(core.Frame(b))
}

func (ctl *Controller) sendError(c *wsConn, msg string) {
	ctl.sendJSON(c, map[string]any{
		"type":  "error",
		"error": msg,
	})
}
