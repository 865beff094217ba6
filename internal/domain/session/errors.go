package session

import "errors"

var (
	// ErrSessionInProgress indicates the user already has a live session.
	ErrSessionInProgress = errors.New("a study session is already in progress")
	// ErrNoLiveSession indicates no session is being tracked for the user.
	ErrNoLiveSession = errors.New("no live study session")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
)
