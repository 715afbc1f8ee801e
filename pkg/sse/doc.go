// Package sse turns a Server-Sent-Events byte stream into data payloads.
//
// The stream is consumed in two layers:
//
//   - Framer reassembles lines from fragments that may split anywhere,
//     including inside a multi-byte character or a JSON token.
//   - Decoder pulls lines from an io.Reader through a Framer and keeps only
//     the payloads of data lines, skipping blank lines, comments, other
//     fields and the [DONE] sentinel.
//
// Neither layer interprets the payload; callers decode it themselves.
//
// Example usage:
//
//	dec := sse.NewDecoder(resp.Body)
//	for {
//	    payload, err := dec.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    handle(payload)
//	}
package sse
