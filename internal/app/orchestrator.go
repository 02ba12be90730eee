package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sprintpoker/sprintpoker/internal/core"
	"github.com/sprintpoker/sprintpoker/internal/domain"
	"github.com/sprintpoker/sprintpoker/internal/scale"
)

// Broadcast frames pushed to every room member.
type SessionUpdated struct {
	Type    string             `json:"type"`
	Session *core.SessionState `json:"session"`
}

type HostDisconnected struct {
	Type string `json:"type"`
}

type EstimationUpdated struct {
	Type    string  `json:"type"`
	IssueID string  `json:"issueId"`
	Points  float64 `json:"points"`
}

// Orchestrator is the voting round controller: the only component that
// mutates round state. One mutex serializes every turn of
// mutate -> project -> broadcast, so all connections observe session
// states in the same total order. Round-control actions are host-only
// and fail closed: a non-host attempt is a silent no-op with no
// broadcast, since these are room triggers with no reply channel.
type Orchestrator struct {
	Registry *Registry
	Hub      *Hub
	Tracker  core.IssueTracker

	mu sync.Mutex
}

func NewOrchestrator(reg *Registry, hub *Hub, tracker core.IssueTracker) *Orchestrator {
	return &Orchestrator{Registry: reg, Hub: hub, Tracker: tracker}
}

// CreateSession registers connID as host and sole participant of a new
// session and wires its subscriber in the same turn, so no session
// member can ever miss a broadcast.
func (o *Orchestrator) CreateSession(connID domain.ConnectionID, name string, sub core.Subscriber) (domain.SessionID, *core.SessionState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, err := o.Registry.Create(connID, name)
	if err != nil {
		return "", nil, err
	}
	o.Hub.Subscribe(s.ID, connID, sub)
	state := core.Project(s)
	o.Hub.Broadcast(s.ID, SessionUpdated{Type: "session-updated", Session: state})
	return s.ID, state, nil
}

// JoinSession adds connID to an existing session. The current
// projection is returned synchronously: the caller's subscription may
// not be fully established yet, so the joining client must not depend
// on the follow-up broadcast for its initial snapshot.
func (o *Orchestrator) JoinSession(connID domain.ConnectionID, sessionID domain.SessionID, name string, sub core.Subscriber) (*core.SessionState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, err := o.Registry.Join(connID, sessionID, name)
	if err != nil {
		return nil, err
	}
	o.Hub.Subscribe(sessionID, connID, sub)
	state := core.Project(s)
	o.Hub.Broadcast(sessionID, SessionUpdated{Type: "session-updated", Session: state})
	return state, nil
}

// State returns the current projection of a session.
func (o *Orchestrator) State(sessionID domain.SessionID) (*core.SessionState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.Registry.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return core.Project(s), nil
}

// StartVoting opens a round on a free-text story. Valid from any
// state; always clears previous votes.
func (o *Orchestrator) StartVoting(connID domain.ConnectionID, sessionID domain.SessionID, story string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.Registry.Get(sessionID)
	if !ok || s.HostID != connID {
		return
	}
	s.CurrentStory = story
	s.IsVotingOpen = true
	s.RevealedVotes = false
	s.ClearVotes()
	log.Info().Str("module", "app.orchestrator").Str("session", string(sessionID)).Str("story", story).Msg("voting started")
	o.broadcastState(s)
}

// StartVotingOnIssue opens a round bound to a tracker issue and
// records board/sprint context for the eventual estimation commit.
func (o *Orchestrator) StartVotingOnIssue(connID domain.ConnectionID, sessionID domain.SessionID, boardID, sprintID int, issue domain.Issue) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.Registry.Get(sessionID)
	if !ok || s.HostID != connID {
		return
	}
	s.BoardID = boardID
	s.SprintID = sprintID
	s.CurrentIssue = &issue
	s.CurrentStory = issue.Fields.Summary
	s.IsVotingOpen = true
	s.RevealedVotes = false
	s.ClearVotes()
	log.Info().Str("module", "app.orchestrator").Str("session", string(sessionID)).Str("issue", issue.Key).Msg("voting started on issue")
	o.broadcastState(s)
}

// Vote records a participant's vote. Last write wins, including after
// reveal; only a reset or a new round clears votes. No-op while voting
// is closed, for off-scale symbols, and for non-participants.
func (o *Orchestrator) Vote(connID domain.ConnectionID, sessionID domain.SessionID, symbol string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.Registry.Get(sessionID)
	if !ok || !s.IsVotingOpen {
		return
	}
	if !scale.IsValid(symbol) {
		log.Warn().Str("module", "app.orchestrator").Str("symbol", symbol).Msg("vote rejected, symbol off scale")
		return
	}
	p, ok := s.Participant(connID)
	if !ok {
		return
	}
	p.Vote = symbol
	o.broadcastState(s)
}

// RevealVotes makes committed votes visible. Idempotent.
func (o *Orchestrator) RevealVotes(connID domain.ConnectionID, sessionID domain.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.Registry.Get(sessionID)
	if !ok || s.HostID != connID {
		return
	}
	s.RevealedVotes = true
	o.broadcastState(s)
}

// ResetVotes closes the round and clears votes and story. Issue,
// board and sprint context survive a bare reset; only starting a new
// round or committing an estimation replaces them.
func (o *Orchestrator) ResetVotes(connID domain.ConnectionID, sessionID domain.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.Registry.Get(sessionID)
	if !ok || s.HostID != connID {
		return
	}
	s.IsVotingOpen = false
	s.RevealedVotes = false
	s.CurrentStory = ""
	s.ClearVotes()
	o.broadcastState(s)
}

// CommitEstimation persists the point value to the tracker, then
// performs a full round reset including issue context. The tracker
// call runs without the lock; the continuation re-validates session
// existence and host identity, because the session may have been torn
// down while the call was in flight. A stale commit is rejected
// rather than resurrecting deleted state (the tracker write itself is
// not rolled back).
func (o *Orchestrator) CommitEstimation(ctx context.Context, connID domain.ConnectionID, sessionID domain.SessionID, issueID string, points float64) error {
	o.mu.Lock()
	s, ok := o.Registry.Get(sessionID)
	if !ok {
		o.mu.Unlock()
		return domain.ErrSessionNotFound
	}
	if s.HostID != connID {
		o.mu.Unlock()
		return domain.ErrNotHost
	}
	o.mu.Unlock()

	if err := o.Tracker.SetStoryPoints(ctx, issueID, points); err != nil {
		return fmt.Errorf("update story points: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok = o.Registry.Get(sessionID)
	if !ok {
		log.Warn().Str("module", "app.orchestrator").Str("session", string(sessionID)).Msg("session gone after estimation update")
		return domain.ErrSessionNotFound
	}
	if s.HostID != connID {
		return domain.ErrNotHost
	}
	s.IsVotingOpen = false
	s.RevealedVotes = false
	s.CurrentStory = ""
	s.CurrentIssue = nil
	s.ClearVotes()
	log.Info().Str("module", "app.orchestrator").Str("session", string(sessionID)).Str("issue", issueID).Float64("points", points).Msg("estimation committed")

	// Distinct confirmation first, then the regular state refresh.
	o.Hub.Broadcast(sessionID, EstimationUpdated{Type: "issue-estimation-updated", IssueID: issueID, Points: points})
	o.broadcastState(s)
	return nil
}

// Disconnect reconciles a lost connection. Host departure terminates
// the session; participant departure shrinks membership and
// re-broadcasts. Safe to call for unknown or already-cleaned
// connections.
func (o *Orchestrator) Disconnect(connID domain.ConnectionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	res := o.Registry.Disconnect(connID)
	if res == nil {
		return
	}
	o.Hub.Unsubscribe(res.SessionID, connID)
	if res.WasHost {
		o.Hub.Broadcast(res.SessionID, HostDisconnected{Type: "host-disconnected"})
		o.Hub.Drop(res.SessionID)
		return
	}
	if res.Session != nil {
		o.broadcastState(res.Session)
	}
}

// Boards, Sprints and Issues delegate entirely to the tracker.

func (o *Orchestrator) Boards(ctx context.Context) ([]domain.Board, error) {
	boards, err := o.Tracker.Boards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

func (o *Orchestrator) Sprints(ctx context.Context, boardID int) ([]domain.Sprint, error) {
	sprints, err := o.Tracker.Sprints(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	return sprints, nil
}

func (o *Orchestrator) Issues(ctx context.Context, boardID, sprintID int) ([]domain.Issue, error) {
	issues, err := o.Tracker.Issues(ctx, boardID, sprintID)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// broadcastState projects after the mutation has been applied; callers
// hold o.mu so no stale state can be fanned out.
func (o *Orchestrator) broadcastState(s *domain.Session) {
	o.Hub.Broadcast(s.ID, SessionUpdated{Type: "session-updated", Session: core.Project(s)})
}
