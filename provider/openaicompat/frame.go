package openaicompat

import (
	"errors"

	"github.com/casualjim/genwire/pkg/jsonx"
	"github.com/casualjim/genwire/pkg/toolcall"
	"github.com/go-openapi/swag"
	"github.com/tidwall/gjson"
)

var errNoChoices = errors.New("frame has no choices")

// event is one tagged unit decoded from a data frame.
type event interface {
	event()
}

type contentDelta struct {
	Text string
}

type toolCallDelta struct {
	toolcall.Delta
}

type finish struct {
	Reason string
}

func (contentDelta) event()  {}
func (toolCallDelta) event() {}
func (finish) event()        {}

// decodeFrame parses the payload of one data frame. Only the first choice is
// considered; events come out as content, then tool-call deltas, then finish.
func decodeFrame(payload string) ([]event, error) {
	doc, err := jsonx.Recover(payload)
	if err != nil {
		return nil, err
	}
	choice := gjson.GetBytes(doc, "choices.0")
	if !choice.Exists() {
		return nil, errNoChoices
	}

	var events []event
	if c := choice.Get("delta.content"); c.Type == gjson.String && c.Str != "" {
		events = append(events, contentDelta{Text: c.Str})
	}
	for i, tc := range choice.Get("delta.tool_calls").Array() {
		d := toolcall.Delta{Index: i}
		if idx := tc.Get("index"); idx.Type == gjson.Number {
			d.Index = int(idx.Int())
		}
		d.ID = stringField(tc, "id")
		d.Name = stringField(tc, "function.name")
		d.Arguments = stringField(tc, "function.arguments")
		events = append(events, toolCallDelta{Delta: d})
	}
	if fr := choice.Get("finish_reason"); fr.Type == gjson.String && fr.Str != "" {
		events = append(events, finish{Reason: fr.Str})
	}
	return events, nil
}

func stringField(v gjson.Result, path string) *string {
	f := v.Get(path)
	if f.Type != gjson.String {
		return nil
	}
	return swag.String(f.Str)
}
