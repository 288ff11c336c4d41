package chatcmder

import (
	"context"
	"io"

	"github.com/papercomputeco/relay/pkg/session"
)

var ResolveMode = resolveMode

type REPL = repl

func NewREPL(out io.Writer, sess *session.Session) *REPL {
	return &repl{out: out, session: sess, model: "gpt-4o-mini"}
}

func (r *repl) Exchange(ctx context.Context, input string) {
	r.exchange(ctx, input)
}
