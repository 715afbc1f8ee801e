package canonical

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var emptyObject = []byte(`{}`)

// Role identifies the author of a Content.
type Role string

const (
	// RoleUser marks caller-authored content.
	RoleUser Role = "user"
	// RoleModel marks backend-generated content. Every adapter emits this role.
	RoleModel Role = "model"
)

// Part is one unit of a Content. Implementations are TextPart and FunctionCallPart.
type Part interface {
	part()
}

// TextPart is a plain text fragment.
type TextPart struct {
	Text string
}

func (TextPart) part() {}

// MarshalJSON implements json.Marshaler for TextPart.
func (p TextPart) MarshalJSON() ([]byte, error) {
	return sjson.SetBytes(emptyObject, "text", p.Text)
}

// FunctionCallPart is a request from the model to invoke a named function.
// Args holds the decoded JSON arguments, not the raw string the backend sent.
type FunctionCallPart struct {
	ID   string
	Name string
	Args any
}

func (FunctionCallPart) part() {}

// MarshalJSON implements json.Marshaler for FunctionCallPart.
func (p FunctionCallPart) MarshalJSON() ([]byte, error) {
	result, err := sjson.SetBytes(emptyObject, "functionCall.name", p.Name)
	if err != nil {
		return nil, err
	}
	if p.ID != "" {
		result, err = sjson.SetBytes(result, "functionCall.id", p.ID)
		if err != nil {
			return nil, err
		}
	}

	args := emptyObject
	if p.Args != nil {
		args, err = json.Marshal(p.Args)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal args of %s: %w", p.Name, err)
		}
	}
	return sjson.SetRawBytes(result, "functionCall.args", args)
}

// UnmarshalPart decodes a single JSON part into its variant.
func UnmarshalPart(data []byte) (Part, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}
	jv := gjson.ParseBytes(data)

	if fc := jv.Get("functionCall"); fc.Exists() {
		part := FunctionCallPart{
			ID:   fc.Get("id").String(),
			Name: fc.Get("name").String(),
		}
		if args := fc.Get("args"); args.Exists() {
			if err := json.Unmarshal([]byte(args.Raw), &part.Args); err != nil {
				return nil, fmt.Errorf("invalid function call args: %w", err)
			}
		}
		return part, nil
	}
	if text := jv.Get("text"); text.Exists() {
		return TextPart{Text: text.String()}, nil
	}
	return nil, fmt.Errorf("unknown part: %s", data)
}

// Content is a role-tagged, ordered sequence of parts.
type Content struct {
	Role  Role
	Parts []Part
}

// Text concatenates the text of all TextParts in order.
func (c Content) Text() string {
	var b strings.Builder
	for _, p := range c.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// FunctionCalls returns the FunctionCallParts in order.
func (c Content) FunctionCalls() []FunctionCallPart {
	var calls []FunctionCallPart
	for _, p := range c.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

// MarshalJSON implements json.Marshaler for Content. A nil part list is
// encoded as an empty array.
func (c Content) MarshalJSON() ([]byte, error) {
	result, err := sjson.SetBytes(emptyObject, "role", string(c.Role))
	if err != nil {
		return nil, err
	}

	parts := c.Parts
	if parts == nil {
		parts = []Part{}
	}
	pb, err := json.Marshal(parts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parts: %w", err)
	}
	return sjson.SetRawBytes(result, "parts", pb)
}

// UnmarshalJSON implements json.Unmarshaler for Content.
func (c *Content) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}
	jv := gjson.ParseBytes(data)
	c.Role = Role(jv.Get("role").String())

	parts := jv.Get("parts").Array()
	c.Parts = make([]Part, 0, len(parts))
	for idx, pv := range parts {
		part, err := UnmarshalPart([]byte(pv.Raw))
		if err != nil {
			return fmt.Errorf("invalid part at %d: %w", idx, err)
		}
		c.Parts = append(c.Parts, part)
	}
	return nil
}
