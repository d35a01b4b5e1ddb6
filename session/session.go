package session

import (
	"context"

	"github.com/go-kit/apikit/task"
	"github.com/go-kit/apikit/transport"
)

// Session executes transport requests of type Req, yielding responses of
// type Resp, and tracks the cancellable work it has in flight.
type Session[Req, Resp any] interface {
	// Execute returns a task that performs req once started. The task has
	// already received req as its input. It fails with a transport-defined
	// error when the request cannot be completed. Starting the task may
	// block for the whole round trip.
	Execute(req Req) *task.Task[Req, Resp, error]

	// Cancellables returns the registry of work currently in flight on
	// behalf of this session.
	Cancellables() *task.Registry
}

// Func performs a single transport round trip. It is the synchronous
// building block that Client turns into a Session.
type Func[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Client is a Session backed by a Func. Each execution runs the Func on its
// own goroutine, under a context that is cancelled when the task is.
type Client[Req, Resp any] struct {
	fn           Func[Req, Resp]
	registry     *task.Registry
	errorHandler transport.ErrorHandler
}

// New constructs a Client around fn. Wrap fn in middlewares with Chain
// before passing it in.
func New[Req, Resp any](fn Func[Req, Resp], options ...Option) *Client[Req, Resp] {
	cfg := config{
		registry:     task.NewRegistry(),
		errorHandler: transport.NopErrorHandler,
	}
	for _, option := range options {
		option(&cfg)
	}
	return &Client[Req, Resp]{
		fn:           fn,
		registry:     cfg.registry,
		errorHandler: cfg.errorHandler,
	}
}

type config struct {
	registry     *task.Registry
	errorHandler transport.ErrorHandler
}

// Option sets an optional parameter for clients.
type Option func(*config)

// WithRegistry makes the client track its work in r instead of a registry
// of its own. Sessions sharing a registry are invalidated together.
func WithRegistry(r *task.Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithErrorHandler is used to handle transport errors. They are still
// delivered to the task; the handler is for diagnostics. Errors from
// cancelled executions are not reported.
func WithErrorHandler(errorHandler transport.ErrorHandler) Option {
	return func(c *config) { c.errorHandler = errorHandler }
}

// Execute implements Session.
func (c *Client[Req, Resp]) Execute(req Req) *task.Task[Req, Resp, error] {
	t := task.New(func(ctx context.Context, req Req, _ bool, p task.Promise[Resp, error]) task.Cancellable {
		go func() {
			resp, err := c.fn(ctx, req)
			if err != nil {
				if ctx.Err() == nil {
					c.errorHandler.Handle(ctx, err)
				}
				p.Fail(err)
				return
			}
			p.Succeed(resp)
		}()
		return nil
	})
	t.Receive(req)
	return t
}

// Cancellables implements Session.
func (c *Client[Req, Resp]) Cancellables() *task.Registry { return c.registry }
