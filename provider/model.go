package provider

import (
	"context"

	"github.com/casualjim/genwire/canonical"
	"github.com/casualjim/genwire/tool"
)

// Provider defines the interface for LLM backends (e.g., OpenAI-compatible
// chat completions). Implementations translate the backend's wire format into
// canonical Responses so the rest of the application never sees it.
type Provider interface {
	// ID names the provider implementation.
	ID() string

	// GenerateContent performs a single non-streaming request.
	GenerateContent(context.Context, GenerateOptions) (canonical.Response, error)

	// StreamContent opens a streaming request. Transport failures are returned
	// here, before any event is produced.
	StreamContent(context.Context, GenerateOptions) (Stream, error)
}

// GenerateOptions encapsulates everything needed for one request.
type GenerateOptions struct {
	// Model overrides the model configured on the provider when not empty.
	Model string

	// SystemInstruction is sent as the system prompt.
	SystemInstruction string

	// SystemContent is used as the system prompt when SystemInstruction is
	// empty; the text of its parts is concatenated.
	SystemContent *canonical.Content

	// Contents is the conversation history, oldest first.
	Contents []canonical.Content

	// Tools declares the functions the model may call.
	Tools []tool.Definition

	// PromptID correlates the request in logs.
	PromptID string

	// Prevents unkeyed literals
	_ struct{}
}

// SystemPrompt resolves the system prompt text.
func (o GenerateOptions) SystemPrompt() string {
	if o.SystemInstruction != "" {
		return o.SystemInstruction
	}
	if o.SystemContent != nil {
		return o.SystemContent.Text()
	}
	return ""
}
