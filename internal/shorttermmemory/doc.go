// Package shorttermmemory keeps the conversation history of an interactive
// session as canonical contents.
//
// The history is what gets replayed to the backend on every request, so it
// only ever holds complete turns: user prompts and the merged model answer
// for each of them. A turn is built on a Fork and joined back once the
// response finished, so a failed request leaves the history untouched.
//
// Example usage:
//
//	history := shorttermmemory.New()
//
//	turn := history.Fork()
//	turn.AddUserPrompt("What's the weather in Paris?")
//	events, err := provider.Collect(stream)
//	if err != nil {
//		return err // history is unchanged
//	}
//	turn.AddResponses(events...)
//	history.Join(turn)
package shorttermmemory
