// Package uuidx generates time-ordered identifiers.
package uuidx

import "github.com/google/uuid"

// New returns a version 7 UUID, so identifiers sort by creation time.
// It panics if the random source fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns New in its canonical string form.
func NewString() string {
	return New().String()
}
