package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sprintpoker/sprintpoker/internal/core"
	"github.com/sprintpoker/sprintpoker/internal/domain"
)

// Hub owns the broadcast group of each session: the set of subscriber
// handles that receive state updates. Membership is decoupled from any
// transport so fan-out is testable with fakes. It never closes
// adapter-owned connections.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[domain.SessionID]map[domain.ConnectionID]core.Subscriber
	policy Policy
}

func NewHub(policy Policy) *Hub {
	return &Hub{
		rooms:  make(map[domain.SessionID]map[domain.ConnectionID]core.Subscriber),
		policy: policy,
	}
}

func (h *Hub) Subscribe(sessionID domain.SessionID, connID domain.ConnectionID, sub core.Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[sessionID]
	if !ok {
		room = make(map[domain.ConnectionID]core.Subscriber)
		h.rooms[sessionID] = room
	}
	room[connID] = sub
	log.Debug().Str("module", "app.hub").Str("session", string(sessionID)).Str("conn", string(connID)).Msg("subscribed")
}

func (h *Hub) Unsubscribe(sessionID domain.SessionID, connID domain.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[sessionID]; ok {
		delete(room, connID)
		if len(room) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}

// Drop removes a session's whole broadcast group.
func (h *Hub) Drop(sessionID domain.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, sessionID)
}

func (h *Hub) RoomSize(sessionID domain.SessionID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

// Broadcast encodes v once and fire-and-forgets it to every subscriber
// of the session. Delivery is best effort; a full send buffer is
// handed to the backpressure policy.
func (h *Hub) Broadcast(sessionID domain.SessionID, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Msg("broadcast marshal")
		return
	}

	h.mu.RLock()
	room := h.rooms[sessionID]
	targets := make(map[domain.ConnectionID]core.Subscriber, len(room))
	for id, sub := range room {
		targets[id] = sub
	}
	h.mu.RUnlock()

	var dropped []domain.ConnectionID
	for id, sub := range targets {
		if err := sub.TrySend(core.Frame(data)); err != nil {
			log.Warn().Err(err).Str("module", "app.hub").Str("session", string(sessionID)).Str("conn", string(id)).Msg("broadcast send failed")
			if h.policy != nil && h.policy.OnBackPressure(sessionID, id) == DropSubscriber {
				dropped = append(dropped, id)
			}
		}
	}
	for _, id := range dropped {
		h.Unsubscribe(sessionID, id)
	}
}
