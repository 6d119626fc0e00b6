package rubric

import "fmt"

// ValidationError blocks a commit before any reconciliation runs; nothing is
// sent to the gateway when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// PersistenceError wraps a gateway failure during commit. Operations before
// the failed one have already taken effect remotely and are not undone.
type PersistenceError struct {
	Op  Op
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %s %s: %v", e.Op.Action, e.Op.Entity, e.Op.UUID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
