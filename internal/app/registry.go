package app

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sprintpoker/sprintpoker/internal/domain"
)

// Registry owns every Session and Participant record plus the
// connection-to-session mapping. It is an explicit instance, not a
// package-level singleton, so tests can run independent registries.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
	conns    map[domain.ConnectionID]domain.SessionID
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.SessionID]*domain.Session),
		conns:    make(map[domain.ConnectionID]domain.SessionID),
	}
}

// Create makes a fresh session with connID as host and first participant.
func (r *Registry) Create(connID domain.ConnectionID, hostName string) (*domain.Session, error) {
	host, err := domain.NewParticipant(connID, hostName)
	if err != nil {
		return nil, err
	}
	s := domain.NewSession(domain.SessionID(uuid.NewString()), host)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	r.conns[connID] = s.ID
	log.Info().Str("module", "app.registry").Str("session", string(s.ID)).Str("conn", string(connID)).Msg("session created")
	return s, nil
}

// Join appends a new participant to an existing session. Names are not
// de-duplicated; every connection is a distinct participant.
func (r *Registry) Join(connID domain.ConnectionID, sessionID domain.SessionID, name string) (*domain.Session, error) {
	p, err := domain.NewParticipant(connID, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.AddParticipant(p)
	r.conns[connID] = sessionID
	log.Info().Str("module", "app.registry").Str("session", string(sessionID)).Str("conn", string(connID)).Msg("participant joined")
	return s, nil
}

func (r *Registry) Get(sessionID domain.SessionID) (*domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	return s, ok
}

// SessionOf reports which session a connection currently belongs to.
func (r *Registry) SessionOf(connID domain.ConnectionID) (domain.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.conns[connID]
	return id, ok
}

// DisconnectResult describes what a Disconnect changed.
type DisconnectResult struct {
	SessionID domain.SessionID
	Session   *domain.Session
	WasHost   bool
}

// Disconnect removes the connection's participant from its session. A
// host departure deletes the whole session. Idempotent: a second call
// for the same connection returns nil.
func (r *Registry) Disconnect(connID domain.ConnectionID) *DisconnectResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionID, ok := r.conns[connID]
	if !ok {
		return nil
	}
	delete(r.conns, connID)

	res := &DisconnectResult{SessionID: sessionID}
	s, ok := r.sessions[sessionID]
	if !ok {
		return res
	}
	s.RemoveParticipant(connID)
	res.Session = s
	if s.HostID == connID {
		res.WasHost = true
		delete(r.sessions, sessionID)
		log.Info().Str("module", "app.registry").Str("session", string(sessionID)).Msg("host left, session deleted")
	} else {
		log.Info().Str("module", "app.registry").Str("session", string(sessionID)).Str("conn", string(connID)).Msg("participant left")
	}
	return res
}
