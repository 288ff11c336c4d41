// Package chatui is the full-screen chat surface: a scrolling transcript, a
// typing indicator while a reply is outstanding, and a single-line input.
package chatui

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/relay/pkg/cliui"
	"github.com/papercomputeco/relay/pkg/completion"
	"github.com/papercomputeco/relay/pkg/conversation"
	"github.com/papercomputeco/relay/pkg/session"
)

const (
	// header, rule, status, input and help lines around the transcript
	chromeHeight = 5

	inputCharLimit = 4000
)

// Options tune the surface.
type Options struct {
	// Model is shown in the header.
	Model string

	// Markdown renders assistant turns with glamour.
	Markdown bool

	// MarkdownStyle is a glamour standard style. Run resolves it from the
	// terminal before the program starts. Defaults to "notty".
	MarkdownStyle string

	// Renderer overrides the lipgloss renderer. Defaults to one bound to
	// stdout with the environment's color profile.
	Renderer *lipgloss.Renderer
}

// renderFunc turns assistant markdown into terminal text.
type renderFunc func(content string, width int) (string, error)

// replyMsg carries a finished exchange back into the update loop.
type replyMsg struct {
	result session.Result
}

type Model struct {
	ctx     context.Context
	session *session.Session
	opts    Options
	styles  styles
	keys    keyMap

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	render renderFunc
	// rendered caches assistant turns by ID for the current width.
	rendered map[string]string

	status string
	width  int
	height int
}

// New builds the model for sess. ctx bounds the completion calls started
// from the surface.
func New(ctx context.Context, sess *session.Session, opts Options) Model {
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.EnvColorProfile()))
	}
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = "notty"
	}
	st := newStyles(opts.Renderer)
	keys := defaultKeyMap()

	input := textinput.New()
	input.Placeholder = "Type message here"
	input.CharLimit = inputCharLimit
	input.Prompt = "› "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.typing

	vp := viewport.New(0, 0)
	vp.KeyMap = transcriptKeyMap(keys)

	return Model{
		ctx:      ctx,
		session:  sess,
		opts:     opts,
		styles:   st,
		keys:     keys,
		input:    input,
		viewport: vp,
		spinner:  sp,
		help:     help.New(),
		rendered: make(map[string]string),
		render: func(content string, width int) (string, error) {
			return cliui.RenderMarkdownStyle(content, width, opts.MarkdownStyle)
		},
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	if opts.Markdown && opts.MarkdownStyle == "" {
		opts.MarkdownStyle = cliui.MarkdownStyle()
	}

	program := tea.NewProgram(New(ctx, sess, opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != m.width {
			clear(m.rendered)
		}
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.session.IsTyping() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case replyMsg:
		if !msg.result.Outcome.Succeeded() {
			m.status = cliui.FailMark + " " + m.styles.fail.Render(failureText(msg.result.Outcome))
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		return m.send()

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send hands the input to the session. Input stays in the box while a reply
// is pending so nothing the user typed is lost.
func (m Model) send() (tea.Model, tea.Cmd) {
	ex, err := m.session.Begin(m.input.Value())
	switch {
	case errors.Is(err, session.ErrBusy):
		m.status = m.styles.muted.Render("waiting for the current reply…")
		return m, nil
	case err != nil:
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	m.refresh()

	ctx := m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return replyMsg{result: ex.Complete(ctx)}
	})
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	var b strings.Builder
	for i, turn := range m.session.Transcript().Turns() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderTurn(turn))
	}
	return b.String()
}

func (m Model) renderTurn(turn conversation.Turn) string {
	label := m.styles.user.Render("you")
	text := turn.Text

	if turn.Role == conversation.RoleAssistant {
		label = m.styles.assistant.Render("assistant")
		if m.opts.Markdown {
			text = m.markdown(turn)
		}
	}

	return label + " " + m.styles.muted.Render(turn.CreatedAt.Format("15:04")) + "\n" + m.styles.body.Render(text)
}

// markdown returns the rendered text of an assistant turn, rendering it at
// most once per width.
func (m Model) markdown(turn conversation.Turn) string {
	if cached, ok := m.rendered[turn.ID]; ok {
		return cached
	}

	text, err := m.render(turn.Text, max(m.width-4, 20))
	if err != nil {
		text = turn.Text
	}
	m.rendered[turn.ID] = text
	return text
}

func (m Model) View() string {
	header := m.styles.title.Render("relay") + " " + m.styles.muted.Render(m.opts.Model)
	rule := m.styles.rule.Render(strings.Repeat("─", max(m.width, 1)))

	status := m.status
	if m.session.IsTyping() {
		status = m.spinner.View() + m.styles.typing.Render(" assistant is typing…")
	}

	return strings.Join([]string{
		header,
		m.viewport.View(),
		rule,
		status,
		m.input.View(),
		m.help.View(m.keys),
	}, "\n")
}

func failureText(outcome completion.Outcome) string {
	if errors.Is(outcome.Err, context.Canceled) {
		return "no reply: cancelled"
	}
	return "no reply: retries exhausted"
}
