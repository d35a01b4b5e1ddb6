// Package generic implements in-memory versions of each of the metric types.
// Metrics derived with With share storage with their parent: observations
// made through a child are visible to any other metric carrying the same
// name and label values. This makes the package suitable for tests and
// in-process inspection.
package generic

import (
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/VividCortex/gohistogram"

	"github.com/go-kit/apikit/metrics"
)

// Counter is an in-memory implementation of a Counter.
type Counter struct {
	Name string
	lvs  []string
	s    *space[uint64]
}

// NewCounter returns a new, usable Counter.
func NewCounter(name string) *Counter {
	return &Counter{Name: name, s: newSpace(func() *uint64 { return new(uint64) })}
}

// With implements Counter.
func (c *Counter) With(labelValues ...string) metrics.Counter {
	return &Counter{Name: c.Name, lvs: with(c.lvs, labelValues), s: c.s}
}

// Add implements Counter.
func (c *Counter) Add(delta float64) { addFloat(c.s.get(c.lvs), delta) }

// Value returns the current value of the counter.
func (c *Counter) Value() float64 {
	return math.Float64frombits(atomic.LoadUint64(c.s.get(c.lvs)))
}

// LabelValues returns the label values applied via With.
func (c *Counter) LabelValues() []string { return c.lvs }

// Gauge is an in-memory implementation of a Gauge.
type Gauge struct {
	Name string
	lvs  []string
	s    *space[uint64]
}

// NewGauge returns a new, usable Gauge.
func NewGauge(name string) *Gauge {
	return &Gauge{Name: name, s: newSpace(func() *uint64 { return new(uint64) })}
}

// With implements Gauge.
func (g *Gauge) With(labelValues ...string) metrics.Gauge {
	return &Gauge{Name: g.Name, lvs: with(g.lvs, labelValues), s: g.s}
}

// Set implements Gauge.
func (g *Gauge) Set(value float64) {
	atomic.StoreUint64(g.s.get(g.lvs), math.Float64bits(value))
}

// Add implements Gauge.
func (g *Gauge) Add(delta float64) { addFloat(g.s.get(g.lvs), delta) }

// Value returns the current value of the gauge.
func (g *Gauge) Value() float64 {
	return math.Float64frombits(atomic.LoadUint64(g.s.get(g.lvs)))
}

// LabelValues returns the label values applied via With.
func (g *Gauge) LabelValues() []string { return g.lvs }

// Histogram is an in-memory implementation of a streaming histogram, based
// on VividCortex/gohistogram.
type Histogram struct {
	Name string
	lvs  []string
	s    *space[syncHistogram]
}

type syncHistogram struct {
	mtx sync.RWMutex
	h   *gohistogram.NumericHistogram
}

// NewHistogram returns a numeric histogram based on VividCortex/gohistogram. A
// good default value for buckets is 50.
func NewHistogram(name string, buckets int) *Histogram {
	return &Histogram{
		Name: name,
		s: newSpace(func() *syncHistogram {
			return &syncHistogram{h: gohistogram.NewHistogram(buckets)}
		}),
	}
}

// With implements Histogram.
func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	return &Histogram{Name: h.Name, lvs: with(h.lvs, labelValues), s: h.s}
}

// Observe implements Histogram.
func (h *Histogram) Observe(value float64) {
	sh := h.s.get(h.lvs)
	sh.mtx.Lock()
	defer sh.mtx.Unlock()
	sh.h.Add(value)
}

// Quantile returns the value of the quantile q, 0.0 < q < 1.0.
func (h *Histogram) Quantile(q float64) float64 {
	sh := h.s.get(h.lvs)
	sh.mtx.RLock()
	defer sh.mtx.RUnlock()
	return sh.h.Quantile(q)
}

// Count returns the number of observations.
func (h *Histogram) Count() float64 {
	sh := h.s.get(h.lvs)
	sh.mtx.RLock()
	defer sh.mtx.RUnlock()
	return sh.h.Count()
}

// LabelValues returns the label values applied via With.
func (h *Histogram) LabelValues() []string { return h.lvs }

// space holds one cell per distinct set of label values.
type space[T any] struct {
	mtx   sync.Mutex
	cells map[string]*T
	alloc func() *T
}

func newSpace[T any](alloc func() *T) *space[T] {
	return &space[T]{cells: map[string]*T{}, alloc: alloc}
}

func (s *space[T]) get(lvs []string) *T {
	key := strings.Join(lvs, "\xff")
	s.mtx.Lock()
	defer s.mtx.Unlock()
	c, ok := s.cells[key]
	if !ok {
		c = s.alloc()
		s.cells[key] = c
	}
	return c
}

func with(lvs, more []string) []string {
	if len(more)%2 != 0 {
		more = append(more, "unknown")
	}
	return append(append([]string{}, lvs...), more...)
}

func addFloat(bits *uint64, delta float64) {
	for {
		var (
			old  = atomic.LoadUint64(bits)
			newf = math.Float64frombits(old) + delta
			new  = math.Float64bits(newf)
		)
		if atomic.CompareAndSwapUint64(bits, old, new) {
			return
		}
	}
}
