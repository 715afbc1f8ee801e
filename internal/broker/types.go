package broker

import (
	"context"
	"time"

	"github.com/casualjim/genwire/canonical"
	"github.com/go-openapi/strfmt"
)

type Broker interface {
	Topic(context.Context, string) Topic
}

type Topic interface {
	Publish(context.Context, Envelope) error
	Subscribe(context.Context, Handler) (Subscription, error)
}

type Subscription interface {
	ID() string
	Unsubscribe()
}

// Handler receives the envelopes delivered to a subscription, in order.
type Handler func(context.Context, Envelope)

// Envelope carries one normalized response together with the session it
// belongs to and its position in that session's stream.
type Envelope struct {
	SessionID string             `json:"sessionId"`
	Seq       int                `json:"seq"`
	Timestamp strfmt.DateTime    `json:"timestamp"`
	Response  canonical.Response `json:"response"`
}

// Publisher stamps and numbers the responses of a single session.
type Publisher struct {
	topic     Topic
	sessionID string
	seq       int
}

func NewPublisher(topic Topic, sessionID string) *Publisher {
	return &Publisher{topic: topic, sessionID: sessionID}
}

func (p *Publisher) Publish(ctx context.Context, resp canonical.Response) error {
	p.seq++
	return p.topic.Publish(ctx, Envelope{
		SessionID: p.sessionID,
		Seq:       p.seq,
		Timestamp: strfmt.DateTime(time.Now().UTC()),
		Response:  resp,
	})
}
