// Package task provides Task, a generic unit of asynchronous work with a
// declared input, success and failure type.
//
// A task is fed its input at most once, started at most once, and reaches
// exactly one terminal outcome: success, failure, or cancellation. Racing a
// cancellation against completion is resolved so that observers see exactly
// one of them. Cancellation is not a failure; it produces no error value.
//
// The work itself is a Body. It publishes its outcome through a Promise that
// refers to the task weakly, so results arriving after cancellation are
// dropped without keeping the task alive.
package task
