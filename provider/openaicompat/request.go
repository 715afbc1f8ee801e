package openaicompat

import (
	"fmt"

	"github.com/casualjim/genwire/canonical"
	"github.com/casualjim/genwire/pkg/jsonx"
	"github.com/casualjim/genwire/provider"
)

const (
	roleSystem    = "system"
	roleUser      = "user"
	roleAssistant = "assistant"
)

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Tools    []chatTool    `json:"tools,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

func (p *Provider) buildRequest(options provider.GenerateOptions, stream bool) (chatRequest, error) {
	model := options.Model
	if model == "" {
		model = p.model
	}

	req := chatRequest{
		Model:    model,
		Messages: mapMessages(options.SystemPrompt(), options.Contents),
		Stream:   stream,
	}

	for _, td := range options.Tools {
		name, schema := td.ToNameAndSchema()
		params, err := jsonx.ToDynamicJSON(schema)
		if err != nil {
			return chatRequest{}, fmt.Errorf("failed to convert schema of %s: %w", name, err)
		}
		req.Tools = append(req.Tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        name,
				Description: td.Description,
				Parameters:  params,
			},
		})
	}
	return req, nil
}

func mapMessages(system string, contents []canonical.Content) []chatMessage {
	messages := make([]chatMessage, 0, len(contents)+1)
	if system != "" {
		messages = append(messages, chatMessage{Role: roleSystem, Content: system})
	}
	for _, c := range contents {
		role := roleUser
		if c.Role == canonical.RoleModel {
			role = roleAssistant
		}
		messages = append(messages, chatMessage{Role: role, Content: c.Text()})
	}
	return messages
}
