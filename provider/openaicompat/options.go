package openaicompat

import (
	"log/slog"
	"net/http"

	"github.com/fogfish/opts"
)

// Option configures a Provider.
type Option = opts.Option[Provider]

var (
	// WithBaseURL sets the API root, e.g. "https://api.openai.com/v1". A trailing
	// slash is ignored.
	WithBaseURL = opts.ForName[Provider, string]("baseURL")

	// WithAPIKey sets the bearer credential. Without one the literal "noop" is sent,
	// which local OpenAI-compatible servers accept.
	WithAPIKey = opts.ForName[Provider, string]("apiKey")

	// WithModel sets the default model name for requests that do not override it.
	WithModel = opts.ForName[Provider, string]("model")

	// WithHTTPClient replaces http.DefaultClient.
	WithHTTPClient = opts.ForName[Provider, *http.Client]("client")

	// WithLogger replaces the slog default logger.
	WithLogger = opts.ForName[Provider, *slog.Logger]("logger")
)
