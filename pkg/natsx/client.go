// Package natsx connects to NATS with the defaults the genwire binaries use.
package natsx

import (
	"os"

	"github.com/nats-io/nats.go"
)

// URL resolves the server address: the explicit url, then NATS_URL, then
// nats.DefaultURL.
func URL(url string) string {
	if url != "" {
		return url
	}
	if env := os.Getenv("NATS_URL"); env != "" {
		return env
	}
	return nats.DefaultURL
}

// NewClient connects to the server resolved by URL. Without options the
// connection is named "genwire" and uses compression.
func NewClient(url string, opts ...nats.Option) (*nats.Conn, error) {
	if len(opts) == 0 {
		opts = append(opts, nats.Name("genwire"), nats.Compression(true))
	}
	return nats.Connect(URL(url), opts...)
}
