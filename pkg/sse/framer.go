package sse

import "bytes"

// Framer splits a byte stream delivered in arbitrary fragments into
// newline-delimited lines. A fragment that does not end in a newline is kept
// until a later Push completes it.
//
// Splitting happens on raw bytes and a line is only converted to a string once
// its terminating newline arrived, so multi-byte UTF-8 sequences split across
// fragments are reassembled intact: the newline byte never occurs inside a
// multi-byte sequence.
//
// A Framer is owned by a single stream and is not safe for concurrent use.
type Framer struct {
	pending []byte
}

// Push appends chunk to the buffered tail and returns every line it completed,
// in order, without the trailing '\n'. The chunk is not retained.
func (f *Framer) Push(chunk []byte) []string {
	var lines []string
	for len(chunk) > 0 {
		idx := bytes.IndexByte(chunk, '\n')
		if idx < 0 {
			f.pending = append(f.pending, chunk...)
			break
		}
		if len(f.pending) > 0 {
			f.pending = append(f.pending, chunk[:idx]...)
			lines = append(lines, string(f.pending))
			f.pending = f.pending[:0]
		} else {
			lines = append(lines, string(chunk[:idx]))
		}
		chunk = chunk[idx+1:]
	}
	return lines
}

// Pending returns the number of buffered bytes that have not been terminated
// by a newline yet.
func (f *Framer) Pending() int {
	return len(f.pending)
}

// Reset drops the unterminated tail. It is called at end of stream: a partial
// line that never received its newline produces no output.
func (f *Framer) Reset() {
	f.pending = nil
}
