package sync

import (
	"errors"
	"fmt"
)

// MutationError wraps a remote failure during a read-state mutation. Its
// presence signals that no local event was published and that local
// state must not be advanced; the caller decides whether to retry or
// surface the failure.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("remote mutation failed: %s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// IsMutation reports whether err is a failed remote mutation.
func IsMutation(err error) bool {
	var me *MutationError
	return errors.As(err, &me)
}
