// Package broker fans normalized responses out to subscribers.
//
// A Broker hands out named topics. Publishing an Envelope on a topic delivers
// it to every live subscription of that topic; each subscription calls its
// Handler from its own goroutine, in publish order.
//
// Two implementations exist:
//   - Local keeps everything in process. A subscriber that cannot take an
//     envelope within the slow-subscriber timeout (WithSlowSubscriberTimeout) is dropped.
//   - NATS publishes JSON-encoded envelopes to the subject named after the topic.
//
// Example usage:
//
//	topic := broker.Local().Topic(ctx, "genwire.responses")
//	sub, err := topic.Subscribe(ctx, func(ctx context.Context, env broker.Envelope) {
//		fmt.Print(env.Response.Text())
//	})
//	if err != nil {
//		return err
//	}
//	defer sub.Unsubscribe()
//
//	pub := broker.NewPublisher(topic, sessionID)
//	for resp, err := range provider.All(stream) {
//		if err != nil {
//			return err
//		}
//		if err := pub.Publish(ctx, resp); err != nil {
//			return err
//		}
//	}
package broker
