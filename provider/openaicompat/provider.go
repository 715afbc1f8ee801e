package openaicompat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/casualjim/genwire/canonical"
	"github.com/casualjim/genwire/pkg/slogx"
	"github.com/casualjim/genwire/provider"
	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"
)

const (
	// ID identifies this provider implementation.
	ID = "openai-compatible"

	defaultBaseURL  = "https://api.openai.com/v1"
	placeholderKey  = "noop"
	maxErrorBodyLen = 4 << 10
)

var _ provider.Provider = (*Provider)(nil)

// Provider talks to any server implementing the OpenAI chat-completions
// endpoint and performs the SSE framing, tool-call reassembly and response
// normalization itself.
//
// A Provider holds no per-request state and is safe for concurrent use.
type Provider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a Provider configured by options.
func New(options ...Option) (*Provider, error) {
	p := &Provider{}
	if err := opts.Apply(p, options); err != nil {
		return nil, fmt.Errorf("failed to configure provider: %w", err)
	}
	if p.baseURL == "" {
		p.baseURL = defaultBaseURL
	}
	p.baseURL = strings.TrimRight(p.baseURL, "/")
	if p.client == nil {
		p.client = http.DefaultClient
	}
	return p, nil
}

// ID returns the provider identifier.
func (p *Provider) ID() string {
	return ID
}

func (p *Provider) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default().With(slogx.LoggerName(ID))
}

// GenerateContent sends a non-streaming request and maps the returned document.
func (p *Provider) GenerateContent(ctx context.Context, options provider.GenerateOptions) (canonical.Response, error) {
	resp, err := p.send(ctx, options, false)
	if err != nil {
		return canonical.Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return canonical.Response{}, fmt.Errorf("failed to read response: %w", err)
	}
	return mapResponse(data, p.log())
}

// StreamContent opens a streaming request. A non-success status or a missing
// body is returned as an error before any event is produced.
func (p *Provider) StreamContent(ctx context.Context, options provider.GenerateOptions) (provider.Stream, error) {
	resp, err := p.send(ctx, options, true)
	if err != nil {
		return nil, err
	}
	return newStream(ctx, resp.Body, p.log().With(slog.String("prompt_id", options.PromptID))), nil
}

func (p *Provider) send(ctx context.Context, options provider.GenerateOptions, stream bool) (*http.Response, error) {
	body, err := p.buildRequest(options, stream)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	apiKey := p.apiKey
	if apiKey == "" {
		apiKey = placeholderKey
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	p.log().DebugContext(ctx, "sending request",
		slog.String("model", body.Model),
		slog.Bool("stream", stream),
		slog.Int("messages", len(body.Messages)),
		slog.String("prompt_id", options.PromptID),
	)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return nil, &provider.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(msg)),
		}
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, provider.ErrNoBody
	}
	return resp, nil
}
