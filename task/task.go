package task

import (
	"context"
	"sync"
	"weak"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInputState is returned by Receive when the task already holds
	// an input or has already been started.
	ErrInvalidInputState = errors.New("task: input already received or task already started")

	// ErrAlreadyStarted is returned by Start when the task has been started
	// before, or has already reached a terminal state.
	ErrAlreadyStarted = errors.New("task: already started or finished")

	// ErrCancelled is returned by Wait when the task was cancelled. It is
	// never delivered as a failure value.
	ErrCancelled = errors.New("task: cancelled")
)

// State is a position in the task lifecycle.
type State int32

// Lifecycle states. A task moves forward only: Uninitialized, Ready, Started,
// then exactly one of the terminal states.
const (
	Uninitialized State = iota
	Ready
	Started
	Succeeded
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Started:
		return "started"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is one of Succeeded, Failed or Cancelled.
func (s State) Terminal() bool { return s >= Succeeded }

// Outcome is the terminal result of a task. Value is meaningful only when
// State is Succeeded, Err only when State is Failed. A cancelled outcome
// carries neither.
type Outcome[Out any, F error] struct {
	State State
	Value Out
	Err   F
}

// Body is the work a task performs once started. The input is the value
// delivered via Receive; received is false if Start was called without one.
// The body publishes its result through p, either before returning or later
// from another goroutine, and returns the handle that cancels whatever it left
// running. A nil handle is treated as Nop.
//
// ctx is cancelled once the task reaches any terminal state.
type Body[In, Out any, F error] func(ctx context.Context, input In, received bool, p Promise[Out, F]) Cancellable

// Task is a cancellable unit of asynchronous work with a single input, a
// single start and a single terminal outcome. The zero value is not usable;
// construct tasks with New.
type Task[In, Out any, F error] struct {
	s        *state[Out, F]
	input    In
	received bool
	body     Body[In, Out, F]
}

// New returns an uninitialized task that will run body when started.
func New[In, Out any, F error](body Body[In, Out, F]) *Task[In, Out, F] {
	return &Task[In, Out, F]{s: newState[Out, F](), body: body}
}

// NewFailed returns a task that has already failed with err.
func NewFailed[In, Out any, F error](err F) *Task[In, Out, F] {
	t := &Task[In, Out, F]{s: newState[Out, F]()}
	t.s.settle(Outcome[Out, F]{State: Failed, Err: err})
	return t
}

// NewSucceeded returns a task that has already succeeded with v.
func NewSucceeded[In, Out any, F error](v Out) *Task[In, Out, F] {
	t := &Task[In, Out, F]{s: newState[Out, F]()}
	t.s.settle(Outcome[Out, F]{State: Succeeded, Value: v})
	return t
}

// Receive delivers the task's input. It may be called at most once, and only
// before Start.
func (t *Task[In, Out, F]) Receive(in In) error {
	t.s.mtx.Lock()
	defer t.s.mtx.Unlock()
	if t.s.phase != Uninitialized {
		return ErrInvalidInputState
	}
	t.input, t.received = in, true
	t.s.phase = Ready
	return nil
}

// Start runs the task's body exactly once. The task is cancelled if ctx is
// done before the task finishes. Subsequent calls return ErrAlreadyStarted
// and have no other effect.
func (t *Task[In, Out, F]) Start(ctx context.Context) error {
	s := t.s
	s.mtx.Lock()
	if s.phase != Uninitialized && s.phase != Ready {
		s.mtx.Unlock()
		return ErrAlreadyStarted
	}
	s.phase = Started
	in, received, body := t.input, t.received, t.body
	t.body = nil

	w := weak.Make(s)
	bctx, cancel := context.WithCancel(ctx)
	s.stop = cancel
	s.unhook = context.AfterFunc(bctx, func() {
		if s := w.Value(); s != nil {
			s.Cancel()
		}
	})
	s.mtx.Unlock()

	var lever Cancellable
	if body != nil {
		lever = body(bctx, in, received, Promise[Out, F]{w: w})
	}
	if lever == nil {
		lever = Nop
	}

	s.mtx.Lock()
	switch {
	case s.phase == Cancelled:
		s.mtx.Unlock()
		lever.Cancel()
		return nil
	case !s.phase.Terminal():
		s.lever = lever
	}
	s.mtx.Unlock()
	return nil
}

// Cancel moves a task that has not finished into the Cancelled state and
// cancels the work its body left running. It is a no-op on finished tasks.
func (t *Task[In, Out, F]) Cancel() { t.s.Cancel() }

// State returns the current lifecycle state.
func (t *Task[In, Out, F]) State() State {
	t.s.mtx.Lock()
	defer t.s.mtx.Unlock()
	return t.s.phase
}

// Done returns a channel that is closed when the task reaches a terminal
// state.
func (t *Task[In, Out, F]) Done() <-chan struct{} { return t.s.done }

// Outcome returns the terminal outcome, and false if the task has not
// finished yet.
func (t *Task[In, Out, F]) Outcome() (Outcome[Out, F], bool) {
	t.s.mtx.Lock()
	defer t.s.mtx.Unlock()
	return t.s.outcome, t.s.phase.Terminal()
}

// Subscribe registers fn to be called with the terminal outcome. fn is called
// exactly once, on its own goroutine, including when the task has already
// finished.
func (t *Task[In, Out, F]) Subscribe(fn func(Outcome[Out, F])) {
	s := t.s
	s.mtx.Lock()
	if s.phase.Terminal() {
		o := s.outcome
		s.mtx.Unlock()
		go fn(o)
		return
	}
	s.subs = append(s.subs, fn)
	s.mtx.Unlock()
}

// Wait blocks until the task finishes or ctx is done. A failed task returns
// its failure value; a cancelled task returns ErrCancelled.
func (t *Task[In, Out, F]) Wait(ctx context.Context) (Out, error) {
	select {
	case <-t.s.done:
	case <-ctx.Done():
		var zero Out
		return zero, ctx.Err()
	}
	o, _ := t.Outcome()
	switch o.State {
	case Succeeded:
		return o.Value, nil
	case Failed:
		return o.Value, o.Err
	default:
		return o.Value, ErrCancelled
	}
}

// state is everything a Promise may touch. Tasks own it; promises only hold
// a weak pointer to it.
type state[Out any, F error] struct {
	mtx     sync.Mutex
	phase   State
	outcome Outcome[Out, F]
	done    chan struct{}
	lever   Cancellable
	stop    context.CancelFunc
	unhook  func() bool
	hooks   []func()
	subs    []func(Outcome[Out, F])
}

func newState[Out any, F error]() *state[Out, F] {
	return &state[Out, F]{done: make(chan struct{})}
}

func (s *state[Out, F]) Cancel() { s.settle(Outcome[Out, F]{State: Cancelled}) }

// settle publishes o if no terminal outcome was published before, and
// reports whether it did.
func (s *state[Out, F]) settle(o Outcome[Out, F]) bool {
	s.mtx.Lock()
	if s.phase.Terminal() {
		s.mtx.Unlock()
		return false
	}
	s.phase, s.outcome = o.State, o
	lever, stop, unhook, hooks, subs := s.lever, s.stop, s.unhook, s.hooks, s.subs
	s.lever, s.stop, s.unhook, s.hooks, s.subs = nil, nil, nil, nil, nil
	close(s.done)
	s.mtx.Unlock()

	if unhook != nil {
		unhook()
	}
	if o.State == Cancelled && lever != nil {
		lever.Cancel()
	}
	if stop != nil {
		stop()
	}
	for _, fn := range hooks {
		fn()
	}
	for _, fn := range subs {
		go fn(o)
	}
	return true
}

// afterDone runs fn synchronously when the task finishes, or right away if it
// already has.
func (s *state[Out, F]) afterDone(fn func()) {
	s.mtx.Lock()
	if s.phase.Terminal() {
		s.mtx.Unlock()
		fn()
		return
	}
	s.hooks = append(s.hooks, fn)
	s.mtx.Unlock()
}
