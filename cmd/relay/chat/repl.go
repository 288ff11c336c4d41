package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/papercomputeco/relay/pkg/cliui"
	"github.com/papercomputeco/relay/pkg/conversation"
	"github.com/papercomputeco/relay/pkg/session"
)

const exitCommand = "/exit"

// repl is the line-oriented surface used when the terminal cannot host the
// full-screen interface.
type repl struct {
	in       io.Reader
	out      io.Writer
	session  *session.Session
	model    string
	markdown bool
	width    int
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintf(r.out, "\n  %s %s\n", cliui.KeyStyle.Render("Model:"), cliui.NameStyle.Render(r.model))
	fmt.Fprintf(r.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	for _, turn := range r.session.Transcript().Turns() {
		r.printTurn(turn)
	}

	scanner := bufio.NewScanner(r.in)
	for ctx.Err() == nil {
		fmt.Fprint(r.out, cliui.UserPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == exitCommand {
			break
		}

		r.exchange(ctx, input)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(r.out)
	return nil
}

func (r *repl) exchange(ctx context.Context, input string) {
	var (
		result  session.Result
		sendErr error
	)
	err := cliui.Step(r.out, "assistant is typing", func() error {
		result, sendErr = r.session.Send(ctx, input)
		if sendErr != nil {
			return sendErr
		}
		return result.Outcome.Err
	})

	switch {
	case sendErr != nil:
		fmt.Fprintf(r.out, "  %s %s\n\n", cliui.FailMark, cliui.DimStyle.Render("not sent: "+sendErr.Error()))
	case err != nil:
		fmt.Fprintf(r.out, "  %s %s\n\n", cliui.FailMark, cliui.DimStyle.Render(failureText(err)))
	default:
		r.printTurn(result.Outcome.Turn)
	}
}

func failureText(err error) string {
	if errors.Is(err, context.Canceled) {
		return "no reply: cancelled"
	}
	return "no reply: retries exhausted"
}

func (r *repl) printTurn(turn conversation.Turn) {
	if turn.Role != conversation.RoleAssistant {
		fmt.Fprintf(r.out, "%s%s\n\n", cliui.UserPrompt, turn.Text)
		return
	}

	text := turn.Text
	if r.markdown {
		if rendered, err := cliui.RenderMarkdown(text, r.width); err == nil {
			text = rendered
		}
	}
	fmt.Fprintf(r.out, "%s%s\n\n", cliui.AssistantPrompt, text)
}
