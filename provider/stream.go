package provider

import (
	"iter"

	"github.com/casualjim/genwire/canonical"
)

// Stream is a pull-based sequence of normalized events. The consumer drives
// progress by calling Next; nothing is read from the transport in between.
//
// Close must be called when the consumer is done, including when it stops
// early, to release the underlying connection. Close is idempotent.
type Stream interface {
	// Next advances to the next event. It returns false at the end of the
	// stream or on error; Err tells them apart.
	Next() bool
	// Current returns the event Next advanced to.
	Current() canonical.Response
	// Err returns the error that ended the stream, or nil after a clean end.
	Err() error
	// Close releases the transport.
	Close() error
}

// All adapts a Stream to a range-over-func iterator. The stream is closed when
// the loop ends, including when the caller breaks out of it. A terminal error
// is yielded once with a zero Response.
func All(s Stream) iter.Seq2[canonical.Response, error] {
	return func(yield func(canonical.Response, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Current(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(canonical.Response{}, err)
		}
	}
}

// Collect drains a Stream and closes it.
func Collect(s Stream) ([]canonical.Response, error) {
	var events []canonical.Response
	for ev, err := range All(s) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}
