package tool

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type declaration struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// Decode reads tool declarations from a JSON array. An entry is either a bare
// function declaration ({name, description, parameters}) or a chat-completions
// tool wrapping one under "function".
func Decode(data []byte) ([]Definition, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("tool declarations are not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, errors.New("tool declarations must be a JSON array")
	}

	var defs []Definition
	for i, entry := range doc.Array() {
		if fn := entry.Get("function"); fn.IsObject() {
			entry = fn
		}
		var decl declaration
		if err := json.Unmarshal([]byte(entry.Raw), &decl); err != nil {
			return nil, fmt.Errorf("tool %d: %w", i, err)
		}
		if decl.Name == "" {
			return nil, fmt.Errorf("tool %d: name is required", i)
		}
		schema := decl.Parameters
		if schema == nil {
			schema = &jsonschema.Schema{
				Type:       "object",
				Properties: orderedmap.New[string, *jsonschema.Schema](),
			}
		}
		defs = append(defs, Definition{
			Name:        decl.Name,
			Description: decl.Description,
			Schema:      schema,
		})
	}
	return defs, nil
}

// Load reads tool declarations from the JSON file at path.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool declarations: %w", err)
	}
	return Decode(data)
}
