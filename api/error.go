package api

import "fmt"

// Kind classifies an Error.
type Kind int

// Error kinds.
const (
	KindRuntime Kind = iota
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	default:
		return "runtime"
	}
}

// Error is the default error type for interfaces without a richer model of
// their own.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error { return e.Err }

// Cause returns the wrapped error, for github.com/pkg/errors.Cause.
func (e *Error) Cause() error { return e.Err }

// Errors implements Interface[*Error]. Embed it in an interface type to
// adopt the default error model.
type Errors struct{}

// TransportError implements Interface.
func (Errors) TransportError(err error) *Error { return &Error{Kind: KindTransport, Err: err} }

// RuntimeError implements Interface.
func (Errors) RuntimeError(err error) *Error { return &Error{Kind: KindRuntime, Err: err} }
