// Package session ties a transcript to a completion client for one chat.
//
// A Session owns the current transcript snapshot and the "is responding"
// flag. At most one exchange is in flight at a time: a Begin while another
// exchange is outstanding fails with ErrBusy and leaves the transcript
// untouched.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/relay/pkg/completion"
	"github.com/papercomputeco/relay/pkg/conversation"
	"github.com/papercomputeco/relay/pkg/logger"
)

var (
	// ErrBusy is returned when a send arrives while a reply is pending.
	ErrBusy = errors.New("a reply is already pending")

	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("message is empty")
)

// Completer produces the next assistant turn for a transcript.
// *completion.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, t conversation.Transcript) completion.Outcome
}

// Option configures a Session created with New.
type Option func(*Session)

// WithGreeting seeds the transcript with an assistant turn. Empty text adds
// nothing.
func WithGreeting(text string) Option {
	return func(s *Session) {
		if text != "" {
			s.transcript = s.transcript.Append(conversation.NewAssistantTurn(text))
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

type Session struct {
	id        string
	completer Completer
	logger    *slog.Logger

	mu         sync.Mutex
	transcript conversation.Transcript
	typing     bool
}

func New(c Completer, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		completer: c,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Transcript returns the current snapshot.
func (s *Session) Transcript() conversation.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// IsTyping reports whether a reply is outstanding.
func (s *Session) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// Result is what a surface needs after an exchange finishes.
type Result struct {
	Transcript conversation.Transcript
	Outcome    completion.Outcome
}

// Exchange is one outstanding send. Complete must be called exactly once.
type Exchange struct {
	session    *Session
	userTurn   conversation.Turn
	transcript conversation.Transcript
}

// Transcript is the snapshot sent upstream, ending with the user's turn.
func (e *Exchange) Transcript() conversation.Transcript {
	return e.transcript
}

// Begin appends the user's turn and marks the session as typing.
func (s *Session) Begin(text string) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typing {
		s.logger.Warn("send rejected, reply pending")
		return nil, ErrBusy
	}

	turn := conversation.NewUserTurn(text)
	s.transcript = s.transcript.Append(turn)
	s.typing = true

	s.logger.Debug("user turn appended", "turn", turn.ID, "turns", s.transcript.Len())

	return &Exchange{session: s, userTurn: turn, transcript: s.transcript}, nil
}

// Complete requests the reply and applies the outcome: on success one
// assistant turn is appended, on failure the transcript is left as is.
// The typing flag is cleared either way.
func (e *Exchange) Complete(ctx context.Context) Result {
	outcome := e.session.completer.Complete(ctx, e.transcript)
	return e.session.finish(e.userTurn, outcome)
}

func (s *Session) finish(userTurn conversation.Turn, outcome completion.Outcome) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.typing = false

	if outcome.Succeeded() {
		s.transcript = s.transcript.Append(outcome.Turn)
		s.logger.Debug("assistant turn appended",
			"turn", outcome.Turn.ID,
			"attempts", outcome.Attempts,
		)
	} else {
		s.logger.Debug("message got no reply",
			"turn", userTurn.ID,
			"attempts", outcome.Attempts,
			"error", outcome.Err,
		)
	}

	return Result{Transcript: s.transcript, Outcome: outcome}
}

// Send runs a whole exchange and blocks until it finishes.
func (s *Session) Send(ctx context.Context, text string) (Result, error) {
	ex, err := s.Begin(text)
	if err != nil {
		return Result{Transcript: s.Transcript()}, err
	}
	return ex.Complete(ctx), nil
}
