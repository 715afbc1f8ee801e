package natsx

import (
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	t.Setenv("NATS_URL", "")
	assert.Equal(t, nats.DefaultURL, URL(""))
	assert.Equal(t, "nats://explicit:4222", URL("nats://explicit:4222"))

	t.Setenv("NATS_URL", "nats://env:4222")
	assert.Equal(t, "nats://env:4222", URL(""))
	assert.Equal(t, "nats://explicit:4222", URL("nats://explicit:4222"))
}
