package completion

import "github.com/papercomputeco/relay/pkg/conversation"

// Outcome is the single result of Client.Complete. Exactly one of Turn or Err
// is meaningful: a nil Err means success.
type Outcome struct {
	// Turn is the delivered assistant turn on success.
	Turn conversation.Turn

	// Err wraps ErrRetriesExhausted and the last recoverable cause on failure.
	Err error

	// Attempts is the number of HTTP requests that were issued.
	Attempts int
}

// Succeeded reports whether the outcome carries an assistant turn.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}
