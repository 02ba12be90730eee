package domain

import "errors"

const MaxNameLen = 64

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotHost         = errors.New("not the session host")
	ErrNotParticipant  = errors.New("not a session participant")
	ErrVotingClosed    = errors.New("voting is not open")
	ErrUnknownVote     = errors.New("vote symbol not on the scale")
	ErrNameEmpty       = errors.New("name empty")
	ErrNameTooLong     = errors.New("name too long")
)
