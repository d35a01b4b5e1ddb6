// Package metrics provides a framework for instrumenting sessions and
// repositories. All metrics are safe for concurrent use. Considerable design
// influence has been taken from https://github.com/codahale/metrics and
// https://prometheus.io.
//
// Backends live in subpackages: prometheus for production, generic for
// tests and in-process inspection, and discard for when instrumentation is
// switched off.
package metrics
