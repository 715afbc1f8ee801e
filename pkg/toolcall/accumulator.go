// Package toolcall reassembles function calls that a backend streams as
// fragments spread over many frames.
package toolcall

import (
	"maps"
	"slices"
	"strings"
)

// Call is one reassembled function call.
type Call struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// Delta is one fragment of a call. Nil fields carry nothing for this frame.
type Delta struct {
	Index     int
	ID        *string
	Name      *string
	Arguments *string
}

type entry struct {
	id   string
	name strings.Builder
	args strings.Builder
}

// Accumulator buffers call fragments keyed by the index the backend assigns to
// each call. Fragments of concurrent calls may be interleaved in any order;
// each index only ever sees its own fragments.
//
// An Accumulator belongs to a single stream and is not safe for concurrent use.
type Accumulator struct {
	calls map[int]*entry
}

// New creates an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{calls: make(map[int]*entry)}
}

// Merge appends the fragments in d to the call at d.Index, creating the call
// the first time the index is seen. The ID is taken from the first fragment
// that carries one.
func (a *Accumulator) Merge(d Delta) {
	if a.calls == nil {
		a.calls = make(map[int]*entry)
	}
	e, ok := a.calls[d.Index]
	if !ok {
		e = &entry{}
		a.calls[d.Index] = e
	}
	if d.ID != nil && e.id == "" {
		e.id = *d.ID
	}
	if d.Name != nil {
		e.name.WriteString(*d.Name)
	}
	if d.Arguments != nil {
		e.args.WriteString(*d.Arguments)
	}
}

// Len returns the number of calls currently buffered.
func (a *Accumulator) Len() int {
	return len(a.calls)
}

// Flush returns the buffered calls in ascending index order and empties the
// accumulator, so an index that shows up again afterwards starts a new call.
func (a *Accumulator) Flush() []Call {
	if len(a.calls) == 0 {
		return nil
	}
	result := make([]Call, 0, len(a.calls))
	for _, idx := range slices.Sorted(maps.Keys(a.calls)) {
		e := a.calls[idx]
		result = append(result, Call{
			Index:     idx,
			ID:        e.id,
			Name:      e.name.String(),
			Arguments: e.args.String(),
		})
	}
	clear(a.calls)
	return result
}
