package conversation_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/relay/pkg/conversation"
)

var _ = Describe("Transcript", func() {
	Describe("zero value", func() {
		It("is empty", func() {
			var t conversation.Transcript
			Expect(t.Len()).To(Equal(0))
			Expect(t.Turns()).To(BeEmpty())

			_, ok := t.Last()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Append", func() {
		It("grows by one and keeps the previous turns as a prefix", func() {
			for size := range 5 {
				base := conversation.Transcript{}
				for i := range size {
					base = base.Append(conversation.NewUserTurn(fmt.Sprintf("msg %d", i)))
				}

				u := conversation.NewUserTurn("next")
				next := base.Append(u)

				Expect(next.Len()).To(Equal(base.Len() + 1))
				Expect(next.Turns()[:base.Len()]).To(Equal(base.Turns()))

				last, ok := next.Last()
				Expect(ok).To(BeTrue())
				Expect(last).To(Equal(u))
			}
		})

		It("leaves the receiver unchanged", func() {
			base := conversation.New(conversation.NewAssistantTurn("hello"))
			before := base.Turns()

			_ = base.Append(conversation.NewUserTurn("hi"))

			Expect(base.Len()).To(Equal(1))
			Expect(base.Turns()).To(Equal(before))
		})

		It("does not share storage between sibling appends", func() {
			base := conversation.New(conversation.NewUserTurn("one"))
			a := base.Append(conversation.NewUserTurn("two-a"))
			b := base.Append(conversation.NewUserTurn("two-b"))

			Expect(a.Turns()[1].Text).To(Equal("two-a"))
			Expect(b.Turns()[1].Text).To(Equal("two-b"))
		})
	})

	Describe("Turns", func() {
		It("returns a copy", func() {
			t := conversation.New(conversation.NewUserTurn("original"))
			turns := t.Turns()
			turns[0].Text = "changed"

			Expect(t.Turns()[0].Text).To(Equal("original"))
		})

		It("preserves insertion order", func() {
			t := conversation.New(
				conversation.NewAssistantTurn("greeting"),
				conversation.NewUserTurn("question"),
				conversation.NewAssistantTurn("answer"),
			)

			texts := []string{}
			for _, turn := range t.Turns() {
				texts = append(texts, turn.Text)
			}
			Expect(texts).To(Equal([]string{"greeting", "question", "answer"}))
		})
	})

	Describe("New", func() {
		It("copies the seed turns", func() {
			seed := []conversation.Turn{conversation.NewUserTurn("a")}
			t := conversation.New(seed...)
			seed[0].Text = "mutated"

			Expect(t.Turns()[0].Text).To(Equal("a"))
		})
	})
})

var _ = Describe("Turn constructors", func() {
	It("creates sent user turns", func() {
		turn := conversation.NewUserTurn("hi")
		Expect(turn.Role).To(Equal(conversation.RoleUser))
		Expect(turn.Status).To(Equal(conversation.StatusSent))
		Expect(turn.ID).NotTo(BeEmpty())
		Expect(turn.CreatedAt).NotTo(BeZero())
	})

	It("creates delivered assistant turns", func() {
		turn := conversation.NewAssistantTurn("hello")
		Expect(turn.Role).To(Equal(conversation.RoleAssistant))
		Expect(turn.Status).To(Equal(conversation.StatusDelivered))
		Expect(turn.IsPending()).To(BeFalse())
	})

	It("creates pending placeholders", func() {
		turn := conversation.NewPendingTurn()
		Expect(turn.IsPending()).To(BeTrue())
		Expect(turn.Text).To(BeEmpty())
	})

	It("assigns unique IDs", func() {
		Expect(conversation.NewUserTurn("a").ID).NotTo(Equal(conversation.NewUserTurn("a").ID))
	})
})
