package review

import "errors"

var (
	// ErrInvalidInput indicates a missing user or flashcard ID.
	ErrInvalidInput = errors.New("invalid review input")
	// ErrInvalidScore indicates a score outside the 0-5 rating scale.
	ErrInvalidScore = errors.New("score must be between 0 and 5")
)
