package nats

import "fmt"

// Phases in which a TransportError can occur.
const (
	DomainEncode  = "Encode"
	DomainRequest = "Request"
	DomainDecode  = "Decode"
)

// TransportError represents an error that occurred at the NATS transport
// level.
type TransportError struct {
	Domain string
	Err    error
}

// Error implements the error interface
func (e TransportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Domain, e.Err)
}

// Unwrap returns the underlying error.
func (e TransportError) Unwrap() error { return e.Err }

// ReplyError is returned by DecodeJSONResponse when the responder flagged
// its reply as an error with ErrorHeader.
type ReplyError struct {
	Message string
}

// Error implements the error interface
func (e ReplyError) Error() string { return "nats reply: " + e.Message }
