// Package session defines Session, the transport collaborator that executes
// requests built by endpoints.
//
// A session is responsible for exactly one thing: given a transport request,
// eventually produce a transport response or a transport error. It also
// owns a registry of the work it has in flight, which repositories cancel in
// bulk when the session is replaced.
//
// Most sessions are built from a Func, a plain synchronous round trip, via
// New. Cross-cutting behavior such as logging, instrumentation, circuit
// breaking and tracing is layered onto the Func with Middlewares, the same
// way for every transport.
package session
