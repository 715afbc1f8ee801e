package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBody is returned when a successful response carries no body to read.
	ErrNoBody = errors.New("no response body")

	// ErrNoChoices is returned when a backend document has no choices to map.
	ErrNoChoices = errors.New("response has no choices")
)

// StatusError reports a non-success transport status. It is returned before
// any event is produced.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed: %s", e.Status)
	}
	return fmt.Sprintf("request failed: %s: %s", e.Status, e.Body)
}
