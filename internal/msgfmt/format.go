// Package msgfmt renders normalized responses on a terminal.
package msgfmt

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/casualjim/genwire/canonical"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	json "github.com/goccy/go-json"
)

// FunctionCall formats a call as a highlighted name followed by its arguments.
func FunctionCall(fc canonical.FunctionCallPart) string {
	args, err := json.Marshal(fc.Args)
	if err != nil || fc.Args == nil {
		args = []byte("{}")
	}
	return color.YellowString(fc.Name) + strings.ReplaceAll(string(args), `":`, `"=`)
}

// ConsolePretty prints a stream as it arrives: text fragments inline,
// function calls one per line. It returns the concatenated text.
func ConsolePretty(ctx context.Context, w io.Writer, events iter.Seq2[canonical.Response, error]) (string, error) {
	var content strings.Builder
	for resp, err := range events {
		if err != nil {
			if content.Len() > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
			return content.String(), err
		}
		if err := ctx.Err(); err != nil {
			return content.String(), err
		}

		if text := resp.Text(); text != "" {
			if content.Len() == 0 {
				fmt.Fprint(w, color.MagentaString("Assistant")+": ")
			}
			fmt.Fprint(w, text)
			content.WriteString(text)
		}
		for _, fc := range resp.FunctionCalls() {
			if content.Len() > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, FunctionCall(fc))
		}
		if resp.FinishReason() != "" && content.Len() > 0 {
			fmt.Fprintln(w)
		}
	}
	return content.String(), nil
}

// Renderer renders complete responses, formatting text as markdown.
type Renderer struct {
	glam *glamour.TermRenderer
}

// NewRenderer creates a Renderer with the given word wrap width; 0 keeps
// glamour's default.
func NewRenderer(wordWrap int) (*Renderer, error) {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if wordWrap > 0 {
		options = append(options, glamour.WithWordWrap(wordWrap))
	}
	glam, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{glam: glam}, nil
}

func (r *Renderer) Render(w io.Writer, resp canonical.Response) error {
	if text := resp.Text(); text != "" {
		out, err := r.glam.Render(text)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		fmt.Fprint(w, color.MagentaString("Assistant")+": ")
		fmt.Fprintln(w, strings.TrimSpace(out))
	}
	for _, fc := range resp.FunctionCalls() {
		fmt.Fprintln(w, FunctionCall(fc))
	}
	if reason := resp.FinishReason(); reason != "" {
		fmt.Fprintln(w, color.HiBlackString("finish: %s", reason))
	}
	return nil
}
