package core

import (
	"context"

	"github.com/sprintpoker/sprintpoker/internal/domain"
)

// Frame is an encoded message ready for the wire.
type Frame []byte

// Subscriber abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type Subscriber interface {
	TrySend(Frame) error
	Close()
}

// IssueTracker is the external work-item collaborator. Every call may
// fail with a wrapped upstream error; none of them touch session state.
type IssueTracker interface {
	Boards(ctx context.Context) ([]domain.Board, error)
	Sprints(ctx context.Context, boardID int) ([]domain.Sprint, error)
	Issues(ctx context.Context, boardID, sprintID int) ([]domain.Issue, error)
	SetStoryPoints(ctx context.Context, issueID string, points float64) error
}
