package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/casualjim/genwire/internal/shorttermmemory"
	"github.com/casualjim/genwire/pkg/slogx"
	"github.com/fatih/color"
)

// repl runs a multi-turn conversation over in. A failed turn is reported and
// dropped from the history; the conversation continues.
func (a *app) repl(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	history := shorttermmemory.New()

	input := a.cfg.prompt
	for {
		if input == "" {
			fmt.Fprintf(a.stdout, "%s: ", color.CyanString("User"))
			if !scanner.Scan() {
				fmt.Fprintln(a.stdout)
				return scanner.Err()
			}
			input = strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
		}
		if strings.EqualFold(input, "exit") {
			return nil
		}

		turn := history.Fork()
		turn.AddUserPrompt(input)
		a.session.Logf("user: %s", input)
		input = ""

		events, err := a.ask(ctx, turn.Contents())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("turn failed", slogx.Error(err), slog.String("history", history.ID().String()))
			continue
		}
		turn.AddResponses(events...)
		history.Join(turn)
		fmt.Fprintln(a.stdout)
	}
}
