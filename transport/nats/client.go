package nats

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/go-kit/apikit/session"
)

// Client performs NATS request/reply exchanges on behalf of a session.
type Client struct {
	conn    *nats.Conn
	before  []RequestFunc
	after   []ClientResponseFunc
	timeout time.Duration
}

// NewClient constructs a usable Client that sends requests over conn.
func NewClient(conn *nats.Conn, options ...ClientOption) *Client {
	c := &Client{
		conn:    conn,
		timeout: 10 * time.Second,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// NewSession returns a session whose exchanges are performed by a Client
// constructed with conn and options.
func NewSession(conn *nats.Conn, options ...ClientOption) *session.Client[*nats.Msg, *nats.Msg] {
	return session.New(NewClient(conn, options...).RoundTrip)
}

// ClientOption sets an optional parameter for clients.
type ClientOption func(*Client)

// ClientBefore sets the RequestFuncs that are applied to the outgoing NATS
// request before it's invoked.
func ClientBefore(before ...RequestFunc) ClientOption {
	return func(c *Client) { c.before = append(c.before, before...) }
}

// ClientAfter sets the ClientResponseFuncs applied in order to the incoming
// NATS reply before the exchange returns. Each func receives the context
// returned by the previous one; endpoint decoders never see it.
func ClientAfter(after ...ClientResponseFunc) ClientOption {
	return func(c *Client) { c.after = append(c.after, after...) }
}

// ClientTimeout bounds every exchange. Zero means the exchange lasts as long
// as its context. The default is 10 seconds.
func ClientTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.timeout = timeout }
}

// RoundTrip publishes msg and waits for the first reply. It implements
// session.Func.
func (c *Client) RoundTrip(ctx context.Context, msg *nats.Msg) (*nats.Msg, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	for _, f := range c.before {
		ctx = f(ctx, msg)
	}

	resp, err := c.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return nil, TransportError{DomainRequest, err}
	}

	for _, f := range c.after {
		ctx = f(ctx, resp)
	}

	return resp, nil
}
