package nats

import (
	"context"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// RequestFunc may take information from a request message and put it into
// a request context, or decorate the message itself. RequestFuncs run just
// before the message is sent.
type RequestFunc func(context.Context, *nats.Msg) context.Context

// ClientResponseFunc may take information from a reply message. The context
// it returns is passed to the next ClientResponseFunc only.
type ClientResponseFunc func(context.Context, *nats.Msg) context.Context

// SetRequestHeader returns a RequestFunc that sets the given header.
func SetRequestHeader(key, val string) RequestFunc {
	return func(ctx context.Context, msg *nats.Msg) context.Context {
		if msg.Header == nil {
			msg.Header = nats.Header{}
		}
		msg.Header.Set(key, val)
		return ctx
	}
}

// RequestIDHeader is the header SetRequestID writes.
const RequestIDHeader = "Request-Id"

// SetRequestID returns a RequestFunc that tags each message with a fresh
// random ID, unless the endpoint already set one.
func SetRequestID() RequestFunc {
	return func(ctx context.Context, msg *nats.Msg) context.Context {
		if msg.Header.Get(RequestIDHeader) != "" {
			return ctx
		}
		return SetRequestHeader(RequestIDHeader, uuid.NewString())(ctx, msg)
	}
}
