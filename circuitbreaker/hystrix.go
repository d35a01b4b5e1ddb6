package circuitbreaker

import (
	"context"

	"github.com/afex/hystrix-go/hystrix"

	"github.com/go-kit/apikit/endpoint"
	"github.com/go-kit/apikit/session"
)

// Hystrix returns a session.Middleware that implements the circuit breaker
// pattern using the afex/hystrix-go package. If commandName is empty, the
// name of the endpoint being dispatched is used, giving each endpoint its
// own circuit. Round trips that fail because their context was cancelled
// do not count against the circuit.
//
// When using this circuit breaker, please configure your commands separately.
//
// See https://godoc.org/github.com/afex/hystrix-go/hystrix for more
// information.
func Hystrix[Req, Resp any](commandName string) session.Middleware[Req, Resp] {
	return func(next session.Func[Req, Resp]) session.Func[Req, Resp] {
		return func(ctx context.Context, req Req) (Resp, error) {
			name := commandName
			if name == "" {
				name = endpoint.NameFrom(ctx)
			}
			var (
				resp      Resp
				cancelled error
			)
			if err := hystrix.Do(name, func() (err error) {
				resp, err = next(ctx, req)
				if err != nil && isCancelled(ctx, err) {
					cancelled = err
					return nil
				}
				return err
			}, nil); err != nil {
				var zero Resp
				return zero, err
			}
			if cancelled != nil {
				var zero Resp
				return zero, cancelled
			}
			return resp, nil
		}
	}
}
