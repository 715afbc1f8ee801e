// Package provider implements an abstraction layer for talking to LLM backends
// (OpenAI-compatible servers and the like) in a consistent way. It defines the
// contract every backend adapter fulfils and the canonical stream type the
// rest of the application consumes.
//
// Design decisions:
//   - Provider abstraction: one interface for streaming and non-streaming calls
//   - Pull-based streaming: the consumer advances the stream, the adapter only
//     reads from the transport when asked to
//   - Deterministic cleanup: Stream.Close releases the connection, and All closes
//     the stream when a range loop ends early
//   - Fail fast at the boundary: a non-success status is returned from the
//     call itself, before any event; everything after that degrades gracefully
//
// Key concepts:
//   - Provider: Interface defining the contract for backend adapters
//   - GenerateOptions: Conversation, system prompt and tools for one request
//   - Stream: Pull-based sequence of canonical.Response events
//   - StatusError: Transport failure carrying the status text
//
// Example usage:
//
//	p := openaicompat.New(openaicompat.BaseURL("http://localhost:11434/v1"), openaicompat.Model("llama3"))
//	stream, err := p.StreamContent(ctx, provider.GenerateOptions{
//	    SystemInstruction: "You are a helpful assistant",
//	    Contents: []canonical.Content{{Role: canonical.RoleUser, Parts: []canonical.Part{canonical.TextPart{Text: "Hi"}}}},
//	})
//	if err != nil {
//	    return err
//	}
//
//	for event, err := range provider.All(stream) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(event.Text())
//	}
package provider
