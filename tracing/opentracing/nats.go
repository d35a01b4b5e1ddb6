package opentracing

import (
	"context"

	"github.com/go-kit/log"
	"github.com/nats-io/nats.go"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	natstransport "github.com/go-kit/apikit/transport/nats"
)

// ContextToNATS returns a nats RequestFunc that injects an OpenTracing Span
// found in `ctx` into the message headers. If no such Span can be found, the
// RequestFunc is a noop.
func ContextToNATS(tracer opentracing.Tracer, logger log.Logger) natstransport.RequestFunc {
	return func(ctx context.Context, msg *nats.Msg) context.Context {
		if span := opentracing.SpanFromContext(ctx); span != nil {
			ext.MessageBusDestination.Set(span, msg.Subject)
			if msg.Header == nil {
				msg.Header = nats.Header{}
			}
			if err := tracer.Inject(span.Context(), opentracing.TextMap, headerCarrier(msg.Header)); err != nil {
				logger.Log("err", err)
			}
		}
		return ctx
	}
}

// NATSToContext returns a function that tries to join with an OpenTracing
// trace found in the headers of `msg` and starts a new Span called
// `operationName` accordingly. The caller finishes the Span.
func NATSToContext(tracer opentracing.Tracer, operationName string, logger log.Logger) func(ctx context.Context, msg *nats.Msg) context.Context {
	return func(ctx context.Context, msg *nats.Msg) context.Context {
		wireContext, err := tracer.Extract(opentracing.TextMap, headerCarrier(msg.Header))
		span := tracer.StartSpan(operationName, serverOption(wireContext, err, logger))
		return opentracing.ContextWithSpan(ctx, span)
	}
}

// headerCarrier adapts nats.Header to the TextMap carrier interfaces.
type headerCarrier nats.Header

func (h headerCarrier) Set(key, val string) { nats.Header(h).Set(key, val) }

func (h headerCarrier) ForeachKey(handler func(key, val string) error) error {
	for k, vals := range h {
		for _, v := range vals {
			if err := handler(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// serverOption joins the extracted trace when there is one, and logs
// extraction failures other than a missing trace.
func serverOption(wireContext opentracing.SpanContext, err error, logger log.Logger) opentracing.StartSpanOption {
	if err != nil {
		if err != opentracing.ErrSpanContextNotFound {
			logger.Log("err", err)
		}
		return ext.SpanKindRPCServer
	}
	return ext.RPCServerOption(wireContext)
}
