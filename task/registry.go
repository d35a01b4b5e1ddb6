package task

import "sync"

// Cancellable represents in-flight work that can be told to stop.
type Cancellable interface {
	Cancel()
}

// CancelFunc is an adapter to allow the use of ordinary functions as
// Cancellables.
type CancelFunc func()

// Cancel implements Cancellable by calling f.
func (f CancelFunc) Cancel() { f() }

// Nop is a Cancellable that does nothing. It stands for work that already
// finished, or never began.
var Nop Cancellable = CancelFunc(func() {})

// Registry is a concurrent collection of cancellables that keeps async work
// reachable until it finishes and allows it to be cancelled in bulk. The zero
// value is an empty registry ready to use.
type Registry struct {
	mtx   sync.Mutex
	next  uint64
	items map[uint64]Cancellable
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: map[uint64]Cancellable{}}
}

// Insert adds c to the registry. The returned func removes it again; calling
// it more than once, or after CancelAll, is harmless.
func (r *Registry) Insert(c Cancellable) (remove func()) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.items == nil {
		r.items = map[uint64]Cancellable{}
	}
	r.next++
	id := r.next
	r.items[id] = c
	return func() {
		r.mtx.Lock()
		defer r.mtx.Unlock()
		delete(r.items, id)
	}
}

// Track adds t to r and removes it once t reaches a terminal state.
func Track[In, Out any, F error](r *Registry, t *Task[In, Out, F]) {
	r.track(t.s)
}

type tracked interface {
	Cancellable
	afterDone(func())
}

func (r *Registry) track(c tracked) {
	c.afterDone(r.Insert(c))
}

// Len returns the number of cancellables currently held.
func (r *Registry) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.items)
}

// CancelAll empties the registry and cancels everything it held. Cancel is
// invoked outside the registry lock, so cancellables may safely remove
// themselves or insert new work. It returns the number of cancelled handles.
func (r *Registry) CancelAll() int {
	r.mtx.Lock()
	items := r.items
	r.items = map[uint64]Cancellable{}
	r.mtx.Unlock()

	for _, c := range items {
		c.Cancel()
	}
	return len(items)
}
