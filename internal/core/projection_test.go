package core

import (
	"testing"

	"github.com/sprintpoker/sprintpoker/internal/domain"
)

func newTestSession(t *testing.T) *domain.Session {
	t.Helper()
	host, err := domain.NewParticipant("host-conn", "Alice")
	if err != nil {
		t.Fatalf("NewParticipant: %v", err)
	}
	s := domain.NewSession("sess-1", host)
	p, err := domain.NewParticipant("conn-2", "Bob")
	if err != nil {
		t.Fatalf("NewParticipant: %v", err)
	}
	s.AddParticipant(p)
	return s
}

func TestProjectHidesVotesBeforeReveal(t *testing.T) {
	s := newTestSession(t)
	s.IsVotingOpen = true
	p, _ := s.Participant("conn-2")
	p.Vote = "8"

	state := Project(s)
	for _, ps := range state.Participants {
		if ps.Vote != "" {
			t.Fatalf("participant %s leaked vote %q before reveal", ps.ID, ps.Vote)
		}
	}
	if !state.Participants[1].HasVoted {
		t.Error("HasVoted should be true for a committed vote")
	}
	if state.Participants[0].HasVoted {
		t.Error("HasVoted should be false for the host")
	}
}

func TestProjectShowsVotesAfterReveal(t *testing.T) {
	s := newTestSession(t)
	s.IsVotingOpen = true
	s.RevealedVotes = true
	p, _ := s.Participant("conn-2")
	p.Vote = "13"

	state := Project(s)
	if state.Participants[1].Vote != "13" {
		t.Fatalf("revealed vote = %q, want %q", state.Participants[1].Vote, "13")
	}
}

func TestProjectPreservesJoinOrder(t *testing.T) {
	s := newTestSession(t)
	p, _ := domain.NewParticipant("conn-3", "Carol")
	s.AddParticipant(p)

	state := Project(s)
	want := []string{"Alice", "Bob", "Carol"}
	for i, name := range want {
		if state.Participants[i].Name != name {
			t.Fatalf("participants[%d] = %q, want %q", i, state.Participants[i].Name, name)
		}
	}
}

func TestProjectCarriesRoundFields(t *testing.T) {
	s := newTestSession(t)
	s.CurrentStory = "Story A"
	s.CurrentIssue = &domain.Issue{ID: "10001", Key: "PROJ-1", Fields: domain.IssueFields{Summary: "Story A"}}
	s.IsVotingOpen = true

	state := Project(s)
	if state.SessionID != "sess-1" || state.CurrentStory != "Story A" || !state.IsVotingOpen || state.RevealedVotes {
		t.Fatalf("unexpected projection: %+v", state)
	}
	if state.CurrentIssue == nil || state.CurrentIssue.Key != "PROJ-1" {
		t.Fatalf("issue not carried: %+v", state.CurrentIssue)
	}
}
