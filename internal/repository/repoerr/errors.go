// Package repoerr holds the repository sentinel errors in a leaf package
// so domain packages can match them without importing repository itself
// (which imports the domain packages for its interface types).
package repoerr

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a row violates its invariants at
	// the store boundary
	ErrInvalidInput = errors.New("invalid input")
)
