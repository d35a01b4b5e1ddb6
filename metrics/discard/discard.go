// Package discard implements a backend for package metrics that succeeds
// without doing anything.
package discard

import "github.com/go-kit/apikit/metrics"

type counter struct{}

// NewCounter returns a new usable counter metric.
func NewCounter() metrics.Counter { return counter{} }

func (c counter) With(labelValues ...string) metrics.Counter { return c }
func (c counter) Add(delta float64)                          {}

type gauge struct{}

// NewGauge returns a new usable gauge metric.
func NewGauge() metrics.Gauge { return gauge{} }

func (g gauge) With(labelValues ...string) metrics.Gauge { return g }
func (g gauge) Set(value float64)                        {}
func (g gauge) Add(delta float64)                        {}

type histogram struct{}

// NewHistogram returns a new usable histogram metric.
func NewHistogram() metrics.Histogram { return histogram{} }

func (h histogram) With(labelValues ...string) metrics.Histogram { return h }
func (h histogram) Observe(value float64)                        {}
