package openaicompat

import (
	"fmt"
	"log/slog"

	"github.com/casualjim/genwire/canonical"
	"github.com/casualjim/genwire/provider"
	"github.com/tidwall/gjson"
)

// mapResponse converts a complete chat-completions document. Streaming-style
// delta content is preferred over message content so that servers which
// answer non-stream requests with a chunk shape still work.
func mapResponse(data []byte, logger *slog.Logger) (canonical.Response, error) {
	if !gjson.ValidBytes(data) {
		return canonical.Response{}, fmt.Errorf("invalid response document: %.200s", data)
	}
	choice := gjson.GetBytes(data, "choices.0")
	if !choice.Exists() {
		return canonical.Response{}, provider.ErrNoChoices
	}

	text := choice.Get("delta.content").String()
	if text == "" {
		text = choice.Get("message.content").String()
	}
	parts := []canonical.Part{canonical.TextPart{Text: text}}

	for _, tc := range choice.Get("message.tool_calls").Array() {
		name := tc.Get("function.name").String()
		parts = append(parts, canonical.FunctionCallPart{
			ID:   tc.Get("id").String(),
			Name: name,
			Args: decodeArgs(logger, name, tc.Get("function.arguments").String()),
		})
	}

	var reason canonical.FinishReason
	if fr := choice.Get("finish_reason"); fr.Type == gjson.String {
		reason = canonical.NormalizeFinishReason(fr.Str)
	}
	return canonical.ModelResponse(reason, parts...), nil
}
