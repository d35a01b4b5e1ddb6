// Package opentracing provides session middleware and request funcs that
// trace dispatched requests with the OpenTracing API.
package opentracing
