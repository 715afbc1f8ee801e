package jsonx

import (
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
)

// fencedObject matches the first brace-delimited object inside a markdown code
// fence, with an optional json language tag. The match is non-greedy so the
// first closing brace followed by the closing fence wins.
var fencedObject = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")

// Recover returns the bytes of the first candidate in text that is valid JSON.
//
// Candidates are tried in a fixed order and the first one that parses wins:
//
//  1. the full text
//  2. the first {...} object inside a ```json fence
//  3. the suffix starting at the first '{'
//  4. that suffix with "}" appended, then with "}}" appended
//
// When nothing parses, the error from parsing the full text is returned.
func Recover(text string) ([]byte, error) {
	direct := []byte(text)
	err := validate(direct)
	if err == nil {
		return direct, nil
	}

	if m := fencedObject.FindStringSubmatch(text); m != nil {
		if candidate := []byte(m[1]); validate(candidate) == nil {
			return candidate, nil
		}
	}

	open := strings.IndexByte(text, '{')
	if open < 0 {
		return nil, err
	}
	snippet := text[open:]
	for _, suffix := range []string{"", "}", "}}"} {
		candidate := []byte(snippet + suffix)
		if validate(candidate) == nil {
			return candidate, nil
		}
	}
	return nil, err
}

// Parse runs Recover over text and decodes the winning candidate into a
// dynamic value (map[string]any for objects).
func Parse(text string) (any, error) {
	b, err := Recover(text)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func validate(b []byte) error {
	var v any
	return json.Unmarshal(b, &v)
}
