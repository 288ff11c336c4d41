package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/relay/pkg/logger"
)

func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	Expect(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

var _ = Describe("New", func() {
	It("writes text records by default", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf))
		l.Info("completion received", "model", "gpt-4o-mini")

		Expect(buf.String()).To(ContainSubstring("completion received"))
		Expect(buf.String()).To(ContainSubstring("model=gpt-4o-mini"))
	})

	It("filters debug records unless debug is enabled", func() {
		var quiet, loud bytes.Buffer
		logger.New(logger.WithWriter(&quiet)).Debug("hidden")
		logger.New(logger.WithWriter(&loud), logger.WithDebug(true)).Debug("shown")

		Expect(quiet.String()).To(BeEmpty())
		Expect(loud.String()).To(ContainSubstring("shown"))
	})

	It("writes JSON records", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
		l.Warn("upstream rate limited", "attempts_remaining", 2)

		parsed := decodeLine(&buf)
		Expect(parsed["msg"]).To(Equal("upstream rate limited"))
		Expect(parsed["level"]).To(Equal("WARN"))
		Expect(parsed["attempts_remaining"]).To(BeNumerically("==", 2))
	})

	It("writes pretty records through charmbracelet/log", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true))
		l.Info("session started")

		Expect(buf.String()).To(ContainSubstring("session started"))
	})

	It("fans a single logger out to several writers", func() {
		var a, b bytes.Buffer
		logger.New(logger.WithWriters(&a, &b)).Info("both")

		Expect(a.String()).To(ContainSubstring("both"))
		Expect(b.String()).To(ContainSubstring("both"))
	})

	It("binds attributes with With", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true)).With("session", "abc")
		l.Info("sent")

		Expect(decodeLine(&buf)["session"]).To(Equal("abc"))
	})
})

var _ = Describe("Nop", func() {
	It("is disabled at every level", func() {
		l := logger.Nop()
		Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
		Expect(func() { l.With("k", "v").WithGroup("g").Error("x") }).NotTo(Panic())
	})
})

var _ = Describe("Multi", func() {
	It("dispatches to every logger at its own level", func() {
		var file, console bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&file), logger.WithJSON(true), logger.WithDebug(true)),
			logger.New(logger.WithWriter(&console)),
		)

		multi.Debug("attempt")

		Expect(file.String()).To(ContainSubstring("attempt"))
		Expect(console.String()).To(BeEmpty())
	})

	It("carries attributes and groups to every child", func() {
		var buf bytes.Buffer
		multi := logger.Multi(logger.New(logger.WithWriter(&buf), logger.WithJSON(true)))

		multi.With("session", "abc").WithGroup("request").Info("sent", "messages", 3)

		parsed := decodeLine(&buf)
		Expect(parsed["session"]).To(Equal("abc"))
		group, ok := parsed["request"].(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(group["messages"]).To(BeNumerically("==", 3))
	})
})
