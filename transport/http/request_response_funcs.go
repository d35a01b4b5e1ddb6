package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestFunc may take information from an HTTP request and put it into a
// request context, or decorate the request itself. RequestFuncs are executed
// after the endpoint has built the request but prior to invoking the HTTP
// client.
type RequestFunc func(context.Context, *http.Request) context.Context

// ClientResponseFunc may take information from an HTTP response. The
// context it returns is passed to the next ClientResponseFunc only.
type ClientResponseFunc func(context.Context, *http.Response) context.Context

// SetRequestHeader returns a RequestFunc that sets the given header.
func SetRequestHeader(key, val string) RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		r.Header.Set(key, val)
		return ctx
	}
}

// RequestIDHeader is the header SetRequestID writes.
const RequestIDHeader = "X-Request-Id"

// SetRequestID returns a RequestFunc that tags each request with a fresh
// random ID, unless the endpoint already set one.
func SetRequestID() RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		if r.Header.Get(RequestIDHeader) == "" {
			r.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return ctx
	}
}
