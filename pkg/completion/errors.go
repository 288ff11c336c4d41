package completion

import "errors"

var (
	// ErrTransport is returned when the HTTP exchange could not complete or
	// the response body could not be read or decoded. Retried immediately.
	ErrTransport = errors.New("transport error")

	// ErrRateLimited is returned when the endpoint answers 429. Retried
	// after RateLimitWait.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedResponse is returned when a decoded response carries no
	// choice with message content. Retried immediately.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrRetriesExhausted is the terminal failure once MaxAttempts attempts
	// have failed.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrMissingAPIKey is returned by New when no bearer credential is set.
	ErrMissingAPIKey = errors.New("missing API key")
)
