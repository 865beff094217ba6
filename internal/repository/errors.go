package repository

import "github.com/mhalter/studytrack/internal/repository/repoerr"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = repoerr.ErrNotFound

	// ErrInvalidInput is returned when a row violates its invariants at
	// the store boundary
	ErrInvalidInput = repoerr.ErrInvalidInput
)
