// Package repository binds a program interface to a session and dispatches
// the interface's endpoints as tasks.
//
// Dispatching an endpoint goes through these steps, exactly one of whose
// outcomes ends each task:
//
//   - A task started without input fails with api.ErrMissingInput. The
//     session is never called.
//   - The endpoint builds a transport request from the interface and the
//     input. If that fails, the task fails with an *endpoint.BuildError and
//     the session is never called.
//   - The session executes the request. A transport failure fails the task
//     with the transport's error.
//   - The endpoint decodes the transport response. A decode failure fails
//     the task with an *endpoint.DecodeError; otherwise the task succeeds
//     with the decoded output.
//
// Every failure is wrapped with the interface's RuntimeError before it is
// published, so tasks fail with the interface's own error type while the
// original error stays reachable through errors.Is and errors.As.
//
// Cancelling a task cancels the transport work it started; a response that
// arrives afterwards is discarded. Both the task and its transport work are
// tracked by the session until they finish, which is how SetInterface and
// SetSession reach everything still in flight.
//
// Endpoint build functions run while the repository holds its read lock.
// They must not block, and must not call SetInterface or SetSession.
package repository
