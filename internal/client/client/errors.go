package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindNetwork: no response reached us (dial, timeout, cancelled). Retryable.
	KindNetwork Kind = iota + 1
	// KindAuth: 401 or 403.
	KindAuth
	// KindServer: any other non-2xx, or a 2xx body we could not decode.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

var (
	ErrNetwork = errors.New("network error")
	ErrAuth    = errors.New("authorization error")
	ErrServer  = errors.New("server error")
)

// Error is the single error type returned by the remote client.
type Error struct {
	Kind Kind
	// Op is the client operation: "authenticate", "list", "create", "update", "delete".
	Op string
	// Status is the HTTP status, 0 for network errors.
	Status int
	// Message is the server's human-readable "error" field, "" if none was sent.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s (%d): %s", e.Op, e.Kind, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s (%d)", e.Op, e.Kind, e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels, so errors.Is(err, ErrAuth) works on any
// wrapped *Error.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

// MessageOr returns the server-provided message of err when it is an
// *Error carrying one, and fallback otherwise.
func MessageOr(err error, fallback string) string {
	var ce *Error
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
