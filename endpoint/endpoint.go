package endpoint

import (
	"context"
	"fmt"
)

// BuildRequestFunc turns an endpoint's input into a transport request. It
// receives the program interface the endpoint is being dispatched against,
// so requests can be built from interface-level configuration such as a base
// URL or subject prefix. It must not block.
type BuildRequestFunc[I, In, Req any] func(ctx context.Context, iface I, input In) (Req, error)

// DecodeOutputFunc turns a transport response into an endpoint's output. It
// must not block.
type DecodeOutputFunc[Resp, Out any] func(ctx context.Context, response Resp) (Out, error)

// Endpoint describes a single operation of a program interface of type I
// whose transport speaks Req and Resp. Endpoints are stateless and may be
// shared by any number of concurrent dispatches.
type Endpoint[I, Req, Resp, In, Out any] struct {
	// Name identifies the endpoint in logs, metrics and traces.
	Name string

	BuildRequest BuildRequestFunc[I, In, Req]
	DecodeOutput DecodeOutputFunc[Resp, Out]
}

// New constructs an Endpoint.
func New[I, Req, Resp, In, Out any](
	name string,
	build BuildRequestFunc[I, In, Req],
	decode DecodeOutputFunc[Resp, Out],
) Endpoint[I, Req, Resp, In, Out] {
	return Endpoint[I, Req, Resp, In, Out]{
		Name:         name,
		BuildRequest: build,
		DecodeOutput: decode,
	}
}

// Build invokes BuildRequest. Failures are returned as a *BuildError.
func (e Endpoint[I, Req, Resp, In, Out]) Build(ctx context.Context, iface I, input In) (Req, error) {
	req, err := e.BuildRequest(ctx, iface, input)
	if err != nil {
		return req, &BuildError{Endpoint: e.Name, Err: err}
	}
	return req, nil
}

// Decode invokes DecodeOutput. Failures are returned as a *DecodeError.
func (e Endpoint[I, Req, Resp, In, Out]) Decode(ctx context.Context, response Resp) (Out, error) {
	out, err := e.DecodeOutput(ctx, response)
	if err != nil {
		return out, &DecodeError{Endpoint: e.Name, Err: err}
	}
	return out, nil
}

// BuildError indicates the endpoint could not construct a transport request
// from its input. The request never reached the transport.
type BuildError struct {
	Endpoint string
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: build request: %v", e.Endpoint, e.Err)
}

// Unwrap returns the error reported by BuildRequest.
func (e *BuildError) Unwrap() error { return e.Err }

// Cause returns the error reported by BuildRequest.
func (e *BuildError) Cause() error { return e.Err }

// DecodeError indicates the endpoint could not interpret a transport
// response as its output.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode output: %v", e.Endpoint, e.Err)
}

// Unwrap returns the error reported by DecodeOutput.
func (e *DecodeError) Unwrap() error { return e.Err }

// Cause returns the error reported by DecodeOutput.
func (e *DecodeError) Cause() error { return e.Err }
