// Package openaicompat implements provider.Provider for servers speaking the
// OpenAI chat-completions protocol (OpenAI, vLLM, llama.cpp, Ollama and the like).
//
// The streaming path does its own work instead of relying on a vendor SDK:
// the response body is split into SSE lines by pkg/sse, every data frame is
// parsed with the recovery ladder of pkg/jsonx, tool-call fragments are merged
// by index in pkg/toolcall, and everything is emitted as canonical.Response
// values through a pull-based provider.Stream.
//
// Text deltas are emitted as soon as they arrive. Tool calls are held back
// until a frame carries a finish reason and then emitted together, in index
// order, in a single candidate. Frames that cannot be decoded are logged at
// debug level and skipped.
//
// Usage:
//
//	p, err := openaicompat.New(
//		openaicompat.WithBaseURL("http://localhost:11434/v1"),
//		openaicompat.WithModel("llama3.2"),
//	)
//	if err != nil {
//		return err
//	}
//	s, err := p.StreamContent(ctx, provider.GenerateOptions{
//		Contents: []canonical.Content{{Role: canonical.RoleUser, Parts: []canonical.Part{canonical.TextPart{Text: "hi"}}}},
//	})
//	if err != nil {
//		return err
//	}
//	for resp, err := range provider.All(s) {
//		if err != nil {
//			return err
//		}
//		fmt.Print(resp.Text())
//	}
package openaicompat
