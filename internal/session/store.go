package session

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a session id is unknown to the store.
var ErrNotFound = errors.New("session not found")

// ValidationError describes malformed caller input. It is surfaced to
// callers verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CreateParams holds the caller-supplied attributes of a new session.
type CreateParams struct {
	Owner      string
	Type       InterviewType
	Role       string
	TechStack  []string
	Experience ExperienceTier
	Persona    string
}

// Validate checks the required fields. Interview type and role are the
// only mandatory inputs.
func (p CreateParams) Validate() error {
	if p.Type == "" {
		return &ValidationError{Field: "type", Message: "interview type is required"}
	}
	if !p.Type.Valid() {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown interview type %q", p.Type)}
	}
	if p.Role == "" {
		return &ValidationError{Field: "role", Message: "target role is required"}
	}
	return nil
}

// Store is the sole writer of session state. Implementations must keep
// the ledger invariant len(answers) <= len(questions) under concurrent
// calls on the same session.
type Store interface {
	// Create allocates an active session with empty ledgers and a
	// server-assigned creation timestamp.
	Create(ctx context.Context, params CreateParams) (*Session, error)

	// Get returns a copy of the session, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// AddQuestion appends to the session's question list.
	AddQuestion(ctx context.Context, id string, q Question) error

	// RecordAnswer appends to the answer list, advances the current
	// question index and returns the resulting progress. Recording an
	// answer with no pending question is a validation error, never a
	// ledger corruption.
	RecordAnswer(ctx context.Context, id string, a Answer) (Progress, error)

	// Complete transitions the session to completed, stamping the end
	// time and duration exactly once. Completing an already-completed
	// session is a no-op returning the stored session unchanged.
	Complete(ctx context.Context, id string) (*Session, error)

	// ListByOwner returns the owner's sessions, newest first, sliced by
	// limit and offset. limit <= 0 means no limit.
	ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*Session, error)
}
