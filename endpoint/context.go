package endpoint

import "context"

type contextKey int

const (
	// ContextKeyEndpointName is populated in the context with the name of
	// the endpoint being dispatched. Session middlewares use it to label
	// logs, metrics and spans.
	ContextKeyEndpointName contextKey = iota
)

// WithName returns a copy of ctx carrying the endpoint name.
func WithName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ContextKeyEndpointName, name)
}

// NameFrom returns the endpoint name carried by ctx, or "" if there is none.
func NameFrom(ctx context.Context) string {
	name, _ := ctx.Value(ContextKeyEndpointName).(string)
	return name
}
