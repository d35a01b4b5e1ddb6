// Package circuitbreaker implements the circuit breaker pattern as session
// middlewares.
//
// Circuit breakers prevent thundering herds, and improve resiliency against
// intermittent errors. A breaker wraps the session.Func of a transport, so
// every request dispatched through that session counts towards, and is
// guarded by, the same circuit.
package circuitbreaker
