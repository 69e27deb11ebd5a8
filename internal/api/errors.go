package api

import (
	"errors"
	"fmt"
)

// Kind distinguishes the two remote failure classes. Network means the
// request never produced a server response; Server means the server
// answered with a non-2xx status.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by every Client call.
type Error struct {
	Kind    Kind
	Op      string // e.g. "mark read"
	Status  int    // HTTP status, KindServer only
	Message string // server-provided message, when present
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindServer && e.Message != "":
		return fmt.Sprintf("%s: server responded %d: %s", e.Op, e.Status, e.Message)
	case e.Kind == KindServer:
		return fmt.Sprintf("%s: server responded %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork
}

// IsServer reports whether err is a non-2xx server response.
func IsServer(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindServer
}
