package task

import "weak"

// Promise is the handle a Body publishes its outcome through. It refers to
// its task weakly: once the task has finished, or has been dropped by every
// owner, publishing is a no-op that reports false.
type Promise[Out any, F error] struct {
	w weak.Pointer[state[Out, F]]
}

// Succeed publishes a successful outcome.
func (p Promise[Out, F]) Succeed(v Out) bool {
	return p.settle(Outcome[Out, F]{State: Succeeded, Value: v})
}

// Fail publishes a failed outcome.
func (p Promise[Out, F]) Fail(err F) bool {
	return p.settle(Outcome[Out, F]{State: Failed, Err: err})
}

// Cancel cancels the task, exactly as Task.Cancel would.
func (p Promise[Out, F]) Cancel() bool {
	return p.settle(Outcome[Out, F]{State: Cancelled})
}

// Alive reports whether the task can still accept an outcome.
func (p Promise[Out, F]) Alive() bool {
	s := p.w.Value()
	if s == nil {
		return false
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return !s.phase.Terminal()
}

// Track registers the promised task in r until it finishes.
func (p Promise[Out, F]) Track(r *Registry) {
	if s := p.w.Value(); s != nil {
		r.track(s)
	}
}

func (p Promise[Out, F]) settle(o Outcome[Out, F]) bool {
	s := p.w.Value()
	if s == nil {
		return false
	}
	return s.settle(o)
}
