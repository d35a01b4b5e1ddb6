package http

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/go-kit/apikit/session"
)

// HTTPClient is an interface that models *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs HTTP round trips on behalf of a session.
type Client struct {
	client HTTPClient
	before []RequestFunc
	after  []ClientResponseFunc
}

// NewClient constructs a usable Client.
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		client: http.DefaultClient,
		before: []RequestFunc{},
		after:  []ClientResponseFunc{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// NewSession returns a session whose round trips are performed by a Client
// constructed with options.
func NewSession(options ...ClientOption) *session.Client[*http.Request, *http.Response] {
	return session.New(NewClient(options...).RoundTrip)
}

// ClientOption sets an optional parameter for clients.
type ClientOption func(*Client)

// SetClient sets the underlying HTTP client used for requests.
// By default, http.DefaultClient is used.
func SetClient(client HTTPClient) ClientOption {
	return func(c *Client) { c.client = client }
}

// ClientBefore adds one or more RequestFuncs to be applied to the outgoing HTTP
// request before it's invoked.
func ClientBefore(before ...RequestFunc) ClientOption {
	return func(c *Client) { c.before = append(c.before, before...) }
}

// ClientAfter adds one or more ClientResponseFuncs, which are applied in
// order to the incoming HTTP response before the round trip returns. Each
// func receives the context returned by the previous one. Endpoint decoders
// run under the dispatch context and never see it, so these funcs are for
// inspecting or recording the response.
func ClientAfter(after ...ClientResponseFunc) ClientOption {
	return func(c *Client) { c.after = append(c.after, after...) }
}

// RoundTrip performs req under ctx. It implements session.Func.
//
// The response body is read in full and closed before RoundTrip returns, so
// endpoint decoders never touch the network. The returned body is an
// in-memory copy.
func (c *Client) RoundTrip(ctx context.Context, req *http.Request) (*http.Response, error) {
	for _, f := range c.before {
		ctx = f(ctx, req)
	}

	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, TransportError{DomainDo, err}
	}

	for _, f := range c.after {
		ctx = f(ctx, resp)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, TransportError{DomainRead, errors.Wrap(err, "reading response body")}
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
