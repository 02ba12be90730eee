// Package domain contains entities without logic, just meta-data.
package domain

type (
	// SessionID identifies one estimation session for its whole lifetime.
	SessionID string
	// ConnectionID identifies one transport connection. A participant's
	// identity equals its connection; there is no reconnect merging.
	ConnectionID string
)

// Participant is one connected person within a session.
// Vote == "" means no vote committed in the current round.
type Participant struct {
	ID   ConnectionID `json:"id"`
	Name string       `json:"name"`
	Vote string       `json:"vote,omitempty"`
}

// NewParticipant avoids raw literals in adapters and keeps construction obvious.
func NewParticipant(id ConnectionID, name string) (*Participant, error) {
	if len(name) == 0 {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	return &Participant{ID: id, Name: name}, nil
}

// Session is the unit of collaboration: one host, N participants,
// one voting round at a time.
type Session struct {
	ID     SessionID
	HostID ConnectionID

	// participants keeps join order; projections rely on it.
	participants map[ConnectionID]*Participant
	order        []ConnectionID

	CurrentStory  string
	CurrentIssue  *Issue
	IsVotingOpen  bool
	RevealedVotes bool
	BoardID       int
	SprintID      int
}

func NewSession(id SessionID, host *Participant) *Session {
	s := &Session{
		ID:           id,
		HostID:       host.ID,
		participants: make(map[ConnectionID]*Participant),
	}
	s.AddParticipant(host)
	return s
}

func (s *Session) AddParticipant(p *Participant) {
	if _, ok := s.participants[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.participants[p.ID] = p
}

func (s *Session) RemoveParticipant(id ConnectionID) bool {
	if _, ok := s.participants[id]; !ok {
		return false
	}
	delete(s.participants, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Session) Participant(id ConnectionID) (*Participant, bool) {
	p, ok := s.participants[id]
	return p, ok
}

// Participants returns the members in join order.
func (s *Session) Participants() []*Participant {
	out := make([]*Participant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.participants[id])
	}
	return out
}

func (s *Session) ParticipantCount() int { return len(s.participants) }

// ClearVotes wipes every committed vote without touching round flags.
func (s *Session) ClearVotes() {
	for _, p := range s.participants {
		p.Vote = ""
	}
}
