// Package conversation holds the visible chat transcript: an ordered,
// append-only sequence of turns that is replayed verbatim to the completion
// endpoint on every request.
package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a Turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Status is the delivery state of a Turn.
type Status string

const (
	// StatusSent is set on turns the user submitted.
	StatusSent Status = "sent"

	// StatusPending marks the placeholder a surface renders while a reply
	// is outstanding. Pending turns are never appended to a Transcript.
	StatusPending Status = "pending"

	// StatusDelivered is set on turns produced by the completion endpoint.
	StatusDelivered Status = "delivered"
)

// Turn is a single message in the conversation. Turns are values and are
// never modified after creation.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserTurn creates a sent turn authored by the user.
func NewUserTurn(text string) Turn {
	return newTurn(RoleUser, text, StatusSent)
}

// NewAssistantTurn creates a delivered turn authored by the assistant.
func NewAssistantTurn(text string) Turn {
	return newTurn(RoleAssistant, text, StatusDelivered)
}

// NewPendingTurn creates the transient "typing" placeholder.
func NewPendingTurn() Turn {
	return newTurn(RoleAssistant, "", StatusPending)
}

func newTurn(role Role, text string, status Status) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

// IsPending reports whether t is a typing placeholder.
func (t Turn) IsPending() bool {
	return t.Status == StatusPending
}
