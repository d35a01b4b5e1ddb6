// Package endpoint defines Endpoint, the description of a single operation of
// a program interface.
//
// An endpoint knows how to turn a typed input into a transport request, and
// a transport response into a typed output. It knows nothing about how the
// request is sent; that is the job of a session. Both functions are expected
// to be pure and synchronous.
package endpoint
