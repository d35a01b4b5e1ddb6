package session

import (
	"context"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/go-kit/apikit/endpoint"
	"github.com/go-kit/apikit/metrics"
)

// Middleware is a chainable behavior modifier for session funcs.
type Middleware[Req, Resp any] func(Func[Req, Resp]) Func[Req, Resp]

// Chain is a helper function for composing middlewares. Requests will
// traverse them in the order they're declared. That is, the first middleware
// is treated as the outermost middleware.
func Chain[Req, Resp any](outer Middleware[Req, Resp], others ...Middleware[Req, Resp]) Middleware[Req, Resp] {
	return func(next Func[Req, Resp]) Func[Req, Resp] {
		for i := len(others) - 1; i >= 0; i-- { // reverse
			next = others[i](next)
		}
		return outer(next)
	}
}

// Logging returns a middleware that logs every round trip with the name of
// the endpoint being dispatched, its duration and its error, if any.
func Logging[Req, Resp any](logger log.Logger) Middleware[Req, Resp] {
	return func(next Func[Req, Resp]) Func[Req, Resp] {
		return func(ctx context.Context, req Req) (resp Resp, err error) {
			defer func(begin time.Time) {
				l := level.Debug(logger)
				if err != nil {
					l = level.Warn(logger)
				}
				l.Log("endpoint", endpoint.NameFrom(ctx), "took", time.Since(begin), "err", err)
			}(time.Now())
			return next(ctx, req)
		}
	}
}

// Instrumenting returns a middleware that counts round trips, observes
// their latency in seconds and tracks how many are in flight. Every metric
// is labelled with "endpoint"; requests and latency additionally carry
// "success".
func Instrumenting[Req, Resp any](requests metrics.Counter, latency metrics.Histogram, inflight metrics.Gauge) Middleware[Req, Resp] {
	return func(next Func[Req, Resp]) Func[Req, Resp] {
		return func(ctx context.Context, req Req) (resp Resp, err error) {
			name := endpoint.NameFrom(ctx)
			g := inflight.With("endpoint", name)
			g.Add(1)
			defer func(begin time.Time) {
				g.Add(-1)
				lvs := []string{"endpoint", name, "success", strconv.FormatBool(err == nil)}
				requests.With(lvs...).Add(1)
				latency.With(lvs...).Observe(time.Since(begin).Seconds())
			}(time.Now())
			return next(ctx, req)
		}
	}
}
