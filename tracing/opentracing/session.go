package opentracing

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	otlog "github.com/opentracing/opentracing-go/log"

	"github.com/go-kit/apikit/endpoint"
	"github.com/go-kit/apikit/session"
)

// Options holds the options for tracing a session.
type Options struct {
	// Tags holds the default tags set on every span.
	Tags opentracing.Tags

	// GetOperationName is an optional function that can set the span
	// operation name based on the default one and information in the
	// context. If it is nil or returns an empty name, the default is used.
	GetOperationName func(ctx context.Context, name string) string
}

// Option allows for functional options to the session tracing middleware.
type Option func(*Options)

// WithTags adds default tags for the spans created by TraceSession.
func WithTags(tags opentracing.Tags) Option {
	return func(o *Options) {
		if o.Tags == nil {
			o.Tags = make(opentracing.Tags)
		}
		for key, value := range tags {
			o.Tags[key] = value
		}
	}
}

// WithOperationNameFunc sets the function that derives the span operation
// name.
func WithOperationNameFunc(getOperationName func(ctx context.Context, name string) string) Option {
	return func(o *Options) { o.GetOperationName = getOperationName }
}

// TraceSession returns a session.Middleware that wraps every transport round
// trip in a client Span. The operation name defaults to operationName, or
// to the name of the endpoint being dispatched when operationName is empty.
//
// If ctx already has a Span, the new Span is its child.
func TraceSession[Req, Resp any](tracer opentracing.Tracer, operationName string, options ...Option) session.Middleware[Req, Resp] {
	cfg := &Options{}
	for _, option := range options {
		option(cfg)
	}

	return func(next session.Func[Req, Resp]) session.Func[Req, Resp] {
		return func(ctx context.Context, req Req) (Resp, error) {
			name := operationName
			if name == "" {
				name = endpoint.NameFrom(ctx)
			}
			if cfg.GetOperationName != nil {
				if newName := cfg.GetOperationName(ctx, name); newName != "" {
					name = newName
				}
			}

			var opts []opentracing.StartSpanOption
			if parent := opentracing.SpanFromContext(ctx); parent != nil {
				opts = append(opts, opentracing.ChildOf(parent.Context()))
			}
			span := tracer.StartSpan(name, opts...)
			defer span.Finish()

			ext.SpanKindRPCClient.Set(span)
			for key, value := range cfg.Tags {
				span.SetTag(key, value)
			}
			ctx = opentracing.ContextWithSpan(ctx, span)

			resp, err := next(ctx, req)
			switch {
			case err != nil && ctx.Err() != nil:
				span.SetTag("cancelled", true)
			case err != nil:
				ext.Error.Set(span, true)
				span.LogFields(otlog.Error(err))
			}
			return resp, err
		}
	}
}
