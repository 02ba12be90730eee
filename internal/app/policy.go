package app

import "github.com/sprintpoker/sprintpoker/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropSubscriber
)

// Policy decides what to do with a subscriber whose send buffer is full.
type Policy interface {
	OnBackPressure(sessionID domain.SessionID, connID domain.ConnectionID) BackpressureAction
}

// SimplePolicy drops the subscriber: an estimation client that cannot
// drain a handful of small JSON frames is gone or wedged, and it will
// resync through get-session when it comes back.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.SessionID, domain.ConnectionID) BackpressureAction {
	return DropSubscriber
}
