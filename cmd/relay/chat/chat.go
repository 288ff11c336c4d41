// Package chatcmder provides the chat command: an interactive conversation
// with an OpenAI-compatible chat-completion endpoint.
package chatcmder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/relay/pkg/chatui"
	"github.com/papercomputeco/relay/pkg/completion"
	"github.com/papercomputeco/relay/pkg/config"
	"github.com/papercomputeco/relay/pkg/credentials"
	"github.com/papercomputeco/relay/pkg/dotdir"
	"github.com/papercomputeco/relay/pkg/logger"
	"github.com/papercomputeco/relay/pkg/session"
)

const chatLongDesc string = `Start an interactive chat with an OpenAI-compatible model.

Every message you send carries the full conversation so far. While the
model is answering, a typing indicator is shown. Rate-limited requests are
retried after a pause; when all attempts fail your message stays in the
transcript without a reply.

The API key is read once at startup from OPENAI_API_KEY (or RELAY_API_KEY),
falling back to the key stored with "relay auth openai".

In a terminal the full-screen interface is used. When input or output is
redirected, or with --ui line, a line-oriented prompt is used instead:
type /exit or press Ctrl+D to quit.

Examples:
  relay chat
  relay chat --model gpt-4o
  relay chat --ui line
  echo "What is a goroutine?" | relay chat`

const chatShortDesc string = "Chat with an OpenAI-compatible model"

var chatFlagKeys = []string{
	config.FlagModel,
	config.FlagEndpoint,
	config.FlagSystemPrompt,
	config.FlagUIMode,
	config.FlagMarkdown,
}

type chatCommander struct {
	configDir    string
	model        string
	endpoint     string
	systemPrompt string
	uiMode       string
	markdown     bool
	debug        bool

	cfg    *config.Config
	apiKey string

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.ChatFlags, chatFlagKeys)

			cmder.cfg, err = config.FromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			mgr, err := credentials.NewManager(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading credentials: %w", err)
			}

			cmder.apiKey, err = mgr.Resolve(v.GetString(config.KeyAPIKey))
			if err != nil && !errors.Is(err, credentials.ErrNoAPIKey) {
				return fmt.Errorf("loading credentials: %w", err)
			}
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.errOut = cmd.ErrOrStderr()

			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.ChatFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagSystemPrompt, &cmder.systemPrompt)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagUIMode, &cmder.uiMode)
	config.AddBoolFlag(cmd, config.ChatFlags, config.FlagMarkdown, &cmder.markdown)

	return cmd
}

func (c *chatCommander) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	mode := resolveMode(c.cfg.UI.Mode, c.interactive())

	logFile, err := c.openLog()
	if err != nil {
		return err
	}
	defer logFile.Close()

	c.logger = logger.New(
		logger.WithJSON(true),
		logger.WithDebug(c.debug),
		logger.WithWriter(logFile),
	)
	if c.debug && mode == config.UIModeLine {
		c.logger = logger.Multi(c.logger, logger.New(
			logger.WithPretty(true),
			logger.WithDebug(true),
			logger.WithWriter(c.errOut),
		))
	}

	client, err := completion.New(completion.Config{
		Endpoint:     c.cfg.Client.Endpoint,
		APIKey:       c.apiKey,
		Model:        c.cfg.Client.Model,
		SystemPrompt: c.cfg.Client.SystemPrompt,
	}, completion.WithLogger(c.logger))
	if err != nil {
		return fmt.Errorf("creating completion client: %w", err)
	}

	sess := session.New(client,
		session.WithGreeting(c.cfg.Client.Greeting),
		session.WithLogger(c.logger),
	)

	c.logger.Info("chat started",
		"session", sess.ID(),
		"model", client.Model(),
		"endpoint", c.cfg.Client.Endpoint,
		"ui", mode,
	)
	defer c.logger.Info("chat ended", "session", sess.ID(), "turns", sess.Transcript().Len())

	if mode == config.UIModeTUI {
		return chatui.Run(ctx, sess, chatui.Options{
			Model:    client.Model(),
			Markdown: c.cfg.UI.Markdown,
		})
	}

	r := &repl{
		in:       c.in,
		out:      c.out,
		session:  sess,
		model:    client.Model(),
		markdown: c.cfg.UI.Markdown,
		width:    c.width(),
	}
	return r.run(ctx)
}

func (c *chatCommander) openLog() (*os.File, error) {
	path, err := dotdir.NewManager().File(c.configDir, dotdir.LogFile)
	if err != nil {
		return nil, fmt.Errorf("resolving log file: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// interactive reports whether both ends of the command are terminals.
func (c *chatCommander) interactive() bool {
	in, ok := c.in.(*os.File)
	if !ok {
		return false
	}
	out, ok := c.out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

func (c *chatCommander) width() int {
	out, ok := c.out.(*os.File)
	if !ok {
		return 0
	}
	w, _, err := term.GetSize(int(out.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func resolveMode(mode string, interactive bool) string {
	if mode != config.UIModeAuto {
		return mode
	}
	if interactive {
		return config.UIModeTUI
	}
	return config.UIModeLine
}
