// Package api defines the error model every program interface provides.
//
// A program interface is the contract surface of a remote API: a set of
// endpoints sharing a transport request type and an error type. Endpoints
// are ordinary values, usually fields of the interface type or package-level
// variables; see package endpoint. The only capability the dispatch core
// needs from the interface itself is the ability to turn arbitrary failures
// into its own error type.
package api

import "github.com/pkg/errors"

// Interface is implemented by program interfaces. E is the interface's error
// type; every task produced for one of its endpoints fails with a value of
// type E.
type Interface[E error] interface {
	// TransportError wraps an error reported by a transport request.
	TransportError(err error) E

	// RuntimeError wraps any other error. Missing input, request build
	// failures, transport failures and decode failures all arrive here.
	RuntimeError(err error) E
}

// ErrMissingInput indicates a task was started before it received its input.
var ErrMissingInput = errors.New("api: task started without input")
