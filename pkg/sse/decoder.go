package sse

import (
	"io"
	"strings"
)

const (
	// DataField is the field name that prefixes event payload lines.
	DataField = "data:"
	// Done is the legacy end-of-stream payload. It carries no information: the
	// real termination signal is the event that carries a finish reason.
	Done = "[DONE]"

	defaultReadSize = 4096
)

// LineReader pulls complete lines out of an io.Reader through a Framer.
type LineReader struct {
	src    io.Reader
	framer Framer
	buf    []byte
	queue  []string
	err    error
}

// NewLineReader creates a LineReader reading from src.
func NewLineReader(src io.Reader) *LineReader {
	return &LineReader{
		src: src,
		buf: make([]byte, defaultReadSize),
	}
}

// ReadLine returns the next complete line without its newline. At the end of
// src it returns io.EOF and discards any unterminated tail; other read errors
// are returned as-is once the lines read before them have been drained.
func (r *LineReader) ReadLine() (string, error) {
	for len(r.queue) == 0 {
		if r.err != nil {
			return "", r.err
		}
		n, err := r.src.Read(r.buf)
		if n > 0 {
			r.queue = r.framer.Push(r.buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				r.framer.Reset()
			}
			r.err = err
		}
	}
	line := r.queue[0]
	r.queue = r.queue[1:]
	return line, nil
}

// Payload classifies one line. It returns the payload of a data line and
// true, or false for anything that carries no event: blank lines, the Done
// sentinel, comments and any other field.
func Payload(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	if !strings.HasPrefix(trimmed, DataField) {
		return "", false
	}
	payload := strings.TrimPrefix(trimmed[len(DataField):], " ")
	if payload == Done {
		return "", false
	}
	return payload, true
}

// Decoder yields the payloads of the data lines in a stream.
type Decoder struct {
	lines *LineReader
}

// NewDecoder creates a Decoder reading from src.
func NewDecoder(src io.Reader) *Decoder {
	return &Decoder{lines: NewLineReader(src)}
}

// Next returns the next data payload. It returns io.EOF once the stream is
// exhausted.
func (d *Decoder) Next() (string, error) {
	for {
		line, err := d.lines.ReadLine()
		if err != nil {
			return "", err
		}
		if payload, ok := Payload(line); ok {
			return payload, nil
		}
	}
}
