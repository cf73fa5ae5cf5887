package rilmas

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every network, status and decoding failure.
	ErrTransport = errors.New("transport failure")

	// ErrNoUser marks a well-formed auth response that carries no user or token.
	ErrNoUser = errors.New("response carried no user")
)

// TransportError wraps a failure to reach the endpoint or read its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: request error: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// StatusError is a non-2xx reply. Message is the endpoint's "error" field when
// present, otherwise the raw body.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: request failed (%d): %s", e.Op, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrTransport }

// DecodeError is a 2xx reply whose body is not the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: json decode error: %v", e.Op, e.Err) }

func (e *DecodeError) Unwrap() []error { return []error{ErrTransport, e.Err} }
