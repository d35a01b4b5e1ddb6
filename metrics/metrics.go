package metrics

import "time"

// Counter describes a metric that accumulates values monotonically.
// An example of a counter is the number of dispatched requests.
type Counter interface {
	With(labelValues ...string) Counter
	Add(delta float64)
}

// Gauge describes a metric that takes specific values over time.
// An example of a gauge is the number of requests in flight.
type Gauge interface {
	With(labelValues ...string) Gauge
	Set(value float64)
	Add(delta float64)
}

// Histogram describes a metric that takes repeated observations of the same
// kind of thing, and produces a statistical summary of those observations,
// typically expressed as quantiles or buckets. An example of a histogram is
// request latencies.
type Histogram interface {
	With(labelValues ...string) Histogram
	Observe(value float64)
}

// Timer observes durations, in seconds, into a Histogram.
type Timer struct {
	h     Histogram
	start time.Time
}

// NewTimer starts a timer for the given histogram.
func NewTimer(h Histogram) *Timer {
	return &Timer{h: h, start: time.Now()}
}

// ObserveDuration observes the time elapsed since the timer was started.
func (t *Timer) ObserveDuration() {
	d := time.Since(t.start).Seconds()
	if d < 0 {
		// Time has gone backwards.
		d = 0
	}
	t.h.Observe(d)
}
