package chatcmder_test

import (
	"bytes"
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chatcmder "github.com/papercomputeco/relay/cmd/relay/chat"
	"github.com/papercomputeco/relay/pkg/completion"
	"github.com/papercomputeco/relay/pkg/conversation"
	"github.com/papercomputeco/relay/pkg/session"
)

type stubCompleter struct {
	outcome completion.Outcome
}

func (s *stubCompleter) Complete(context.Context, conversation.Transcript) completion.Outcome {
	return s.outcome
}

var _ = Describe("REPL exchange", func() {
	var (
		stub *stubCompleter
		sess *session.Session
		out  *bytes.Buffer
		r    *chatcmder.REPL
	)

	BeforeEach(func() {
		stub = &stubCompleter{
			outcome: completion.Outcome{Turn: conversation.NewAssistantTurn("Channels carry values."), Attempts: 1},
		}
		sess = session.New(stub)
		out = &bytes.Buffer{}
		r = chatcmder.NewREPL(out, sess)
	})

	It("prints the assistant's reply", func() {
		r.Exchange(context.Background(), "What is a channel?")

		Expect(out.String()).To(ContainSubstring("assistant>"))
		Expect(out.String()).To(ContainSubstring("Channels carry values."))
		Expect(sess.Transcript().Len()).To(Equal(2))
	})

	It("prints a status line and no reply when retries run out", func() {
		stub.outcome = completion.Outcome{
			Err:      fmt.Errorf("%w after 3 attempts: %w", completion.ErrRetriesExhausted, completion.ErrRateLimited),
			Attempts: 3,
		}

		r.Exchange(context.Background(), "What is a channel?")

		Expect(out.String()).To(ContainSubstring("no reply: retries exhausted"))
		Expect(out.String()).NotTo(ContainSubstring("assistant>"))
		Expect(sess.Transcript().Len()).To(Equal(1))
	})

	It("reports a rejected send instead of an empty reply", func() {
		_, err := sess.Begin("first")
		Expect(err).NotTo(HaveOccurred())

		r.Exchange(context.Background(), "second")

		Expect(out.String()).To(ContainSubstring("not sent: " + session.ErrBusy.Error()))
		Expect(out.String()).NotTo(ContainSubstring("assistant>"))
		Expect(sess.Transcript().Len()).To(Equal(1))
	})

	It("reports blank input as not sent", func() {
		r.Exchange(context.Background(), "   ")

		Expect(out.String()).To(ContainSubstring("not sent: " + session.ErrEmptyMessage.Error()))
		Expect(out.String()).NotTo(ContainSubstring("assistant>"))
	})
})
