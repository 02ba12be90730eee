// Package ws is the WebSocket transport for the estimation protocol.
// One connection equals one participant identity; when the read loop
// ends the participant is gone.
package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sprintpoker/sprintpoker/internal/app"
	"github.com/sprintpoker/sprintpoker/internal/config"
	"github.com/sprintpoker/sprintpoker/internal/core"
	"github.com/sprintpoker/sprintpoker/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Orch     *app.Orchestrator
	cfg      *config.Config
	limiter  *MessageRateLimiter
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, orch *app.Orchestrator) *Controller {
	allowed := cfg.AllowedOrigin
	return &Controller{
		Orch:    orch,
		cfg:     cfg,
		limiter: NewMessageRateLimiter(60, time.Second),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return allowed == "*" || r.Header.Get("Origin") == allowed
			},
		},
	}
}

// wsConn pairs the raw socket with a buffered send queue so broadcasts
// never block an orchestrator turn.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleWS upgrades the request and runs the connection's pumps. The
// connection id is minted here and never reused.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}

	connID := domain.ConnectionID(uuid.NewString())
	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	log.Info().Str("module", "ws").Str("conn", string(connID)).Msg("connection opened")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, connID, conn)
	}()
}
