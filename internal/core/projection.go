package core

import (
	"github.com/sprintpoker/sprintpoker/internal/domain"
	"github.com/sprintpoker/sprintpoker/internal/scale"
)

// ParticipantState is the externally visible view of one participant.
// Vote is only populated after reveal.
type ParticipantState struct {
	ID       domain.ConnectionID `json:"id"`
	Name     string              `json:"name"`
	HasVoted bool                `json:"hasVoted"`
	Vote     string              `json:"vote,omitempty"`
}

// VoteSummary is the advisory statistics block shown after reveal.
// The host may still commit any manual point value.
type VoteSummary struct {
	Min string `json:"min"`
	Max string `json:"max"`
	Avg string `json:"avg,omitempty"`
}

// SessionState is the externally visible view of a session.
type SessionState struct {
	SessionID     domain.SessionID   `json:"sessionId"`
	CurrentStory  string             `json:"currentStory,omitempty"`
	CurrentIssue  *domain.Issue      `json:"currentIssue,omitempty"`
	IsVotingOpen  bool               `json:"isVotingOpen"`
	RevealedVotes bool               `json:"revealedVotes"`
	Participants  []ParticipantState `json:"participants"`
	Summary       *VoteSummary       `json:"voteSummary,omitempty"`
}

// Project builds the visible view of a session. This is the only place
// vote visibility is enforced: while RevealedVotes is false no vote
// value may leave the registry. It is recomputed on every call and
// never cached across mutations.
func Project(s *domain.Session) *SessionState {
	parts := s.Participants()
	out := &SessionState{
		SessionID:     s.ID,
		CurrentStory:  s.CurrentStory,
		CurrentIssue:  s.CurrentIssue,
		IsVotingOpen:  s.IsVotingOpen,
		RevealedVotes: s.RevealedVotes,
		Participants:  make([]ParticipantState, 0, len(parts)),
	}
	var votes []string
	for _, p := range parts {
		ps := ParticipantState{
			ID:       p.ID,
			Name:     p.Name,
			HasVoted: p.Vote != "",
		}
		if s.RevealedVotes {
			ps.Vote = p.Vote
			if p.Vote != "" {
				votes = append(votes, p.Vote)
			}
		}
		out.Participants = append(out.Participants, ps)
	}
	if s.RevealedVotes && len(votes) > 0 {
		summary := &VoteSummary{}
		summary.Min, _ = scale.Min(votes)
		summary.Max, _ = scale.Max(votes)
		summary.Avg, _ = scale.Average(votes)
		out.Summary = summary
	}
	return out
}
