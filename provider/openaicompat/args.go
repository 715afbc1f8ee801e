package openaicompat

import (
	"log/slog"

	"github.com/casualjim/genwire/pkg/jsonx"
	"github.com/casualjim/genwire/pkg/slogx"
)

const argsParseFailure = "Failed to parse JSON"

// decodeArgs turns the reassembled argument text of a call into a JSON value.
// When nothing can be recovered the call still goes out, carrying the raw text.
func decodeArgs(logger *slog.Logger, name, raw string) any {
	args, err := jsonx.Parse(raw)
	if err != nil {
		logger.Warn("failed to recover tool call arguments",
			slog.String("tool", name),
			slogx.Truncated("raw", raw, maxLoggedPayload),
			slogx.Error(err),
		)
		return map[string]any{
			"error": argsParseFailure,
			"raw":   raw,
		}
	}
	return args
}
