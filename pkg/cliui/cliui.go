// Package cliui provides the terminal styles, the typing spinner and the
// markdown renderer shared by relay's commands.
package cliui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	StepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	DimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	KeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	NameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	WarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	UserPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	AssistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// spinnerFrames matches bubbles' spinner.Dot used by the chat TUI.
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 80 * time.Millisecond

// Step animates a spinner next to msg while fn runs, then replaces the line
// with a mark and the elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	var mu sync.Mutex
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			mu.Lock()
			fmt.Fprintf(w, "\r  %s %s", spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]), msg)
			mu.Unlock()

			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	close(done)
	<-stopped

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(w, "\r  %s %s %s\n", Mark(err), msg, StepStyle.Render("("+FormatDuration(elapsed)+")"))

	return err
}

// Mark returns ✓ for a nil error and ✗ otherwise.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats d as "12ms" or "3.2s".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// RenderMarkdown renders content for the terminal at the given wrap width,
// detecting the style from the terminal. On failure the raw content is
// returned with the error.
func RenderMarkdown(content string, width int) (string, error) {
	return renderMarkdown(content, width, glamour.WithAutoStyle())
}

// RenderMarkdownStyle renders content with one of glamour's standard styles
// ("dark", "light", "notty"). Full-screen programs use it so no terminal
// query is issued while they own the input.
func RenderMarkdownStyle(content string, width int, style string) (string, error) {
	return renderMarkdown(content, width, glamour.WithStandardStyle(style))
}

// MarkdownStyle resolves the standard glamour style for stdout.
func MarkdownStyle() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return styles.NoTTYStyle
	}
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

func renderMarkdown(content string, width int, style glamour.TermRendererOption) (string, error) {
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	return strings.TrimSpace(rendered), nil
}
