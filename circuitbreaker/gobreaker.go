package circuitbreaker

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"

	"github.com/go-kit/apikit/session"
)

// Gobreaker returns a session.Middleware that implements the circuit
// breaker pattern using the sony/gobreaker package. Only errors returned by
// the wrapped func count against the circuit breaker's error count, and a
// round trip that fails because its context was cancelled counts as neither
// a success nor a failure of the remote side: it is reported to the breaker
// as a success, so bulk cancellation never opens the circuit.
//
// See http://godoc.org/github.com/sony/gobreaker for more information.
func Gobreaker[Req, Resp any](cb *gobreaker.CircuitBreaker) session.Middleware[Req, Resp] {
	return func(next session.Func[Req, Resp]) session.Func[Req, Resp] {
		return func(ctx context.Context, req Req) (Resp, error) {
			var cancelled error
			res, err := cb.Execute(func() (interface{}, error) {
				resp, err := next(ctx, req)
				if err != nil && isCancelled(ctx, err) {
					cancelled = err
					return resp, nil
				}
				return resp, err
			})
			if cancelled != nil {
				err = cancelled
			}
			if err != nil {
				var zero Resp
				return zero, err
			}
			return res.(Resp), nil
		}
	}
}

// isCancelled reports whether err is the result of ctx being cancelled by
// the caller, rather than a failure of the remote side.
func isCancelled(ctx context.Context, err error) bool {
	return errors.Is(ctx.Err(), context.Canceled) && errors.Is(err, context.Canceled)
}
