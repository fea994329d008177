package record

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel store adapters return for an absent record id.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed or missing form input. Recoverable by
// the user; nothing was written.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation error" }

// NotFoundError reports an operation against a record id that does not exist
// in the caller's scope.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// PersistenceError reports a failed store read or write. The caller may offer
// a manual retry; the manager never retries on its own.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
