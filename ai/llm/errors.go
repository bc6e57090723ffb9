package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed summarization call so the caller can act
// on it without inspecting HTTP details.
type ErrorKind string

const (
	// KindTokenBudgetExceeded means the prompt was too large for the
	// selected model and no request was sent.
	KindTokenBudgetExceeded ErrorKind = "token_budget_exceeded"

	// KindAuthOrAccount means the endpoint rejected the request in a way
	// that indicates bad credentials or an unsupported account tier.
	KindAuthOrAccount ErrorKind = "auth_or_account"

	// KindRequestFailed covers any other terminal HTTP or transport failure.
	KindRequestFailed ErrorKind = "request_failed"

	// KindRetriesExhausted means the retry budget was consumed under
	// sustained rate limiting or server errors.
	KindRetriesExhausted ErrorKind = "retries_exhausted"

	// KindCanceled means the caller's context was canceled.
	KindCanceled ErrorKind = "canceled"
)

// Error is the only error type Summarize returns. It carries enough
// context to diagnose the failure from logs.
type Error struct {
	Kind        ErrorKind
	StatusCode  int // last HTTP status, 0 if no response was received
	Attempts    int // requests actually sent
	TokenCount  int // set for KindTokenBudgetExceeded
	TokenBudget int // set for KindTokenBudgetExceeded
	Err         error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTokenBudgetExceeded:
		return fmt.Sprintf("llm: prompt of ~%d tokens exceeds model budget of %d", e.TokenCount, e.TokenBudget)
	case KindRetriesExhausted:
		return fmt.Sprintf("llm: retries exhausted after %d attempts", e.Attempts)
	default:
		if e.Err != nil {
			return fmt.Sprintf("llm: %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("llm: %s (status %d)", e.Kind, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err if it is a summarization error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
