package repository

import (
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/go-kit/apikit/api"
	"github.com/go-kit/apikit/session"
)

// Repository binds one program interface of type I to one session speaking
// Req and Resp. Tasks for the interface's endpoints are created with Task,
// TaskAt, Run and RunAt.
//
// Both the interface and the session may be replaced at any time. Replacing
// either cancels everything the outgoing session is tracking, so no request
// issued under the old configuration can complete afterwards.
type Repository[I api.Interface[E], Req, Resp any, E error] struct {
	mtx       sync.RWMutex
	iface     I
	sess      session.Session[Req, Resp]
	logger    log.Logger
	observers []func(Event)
}

// New constructs a Repository.
func New[I api.Interface[E], Req, Resp any, E error](iface I, sess session.Session[Req, Resp], options ...Option) *Repository[I, Req, Resp, E] {
	cfg := config{logger: log.NewNopLogger()}
	for _, option := range options {
		option(&cfg)
	}
	return &Repository[I, Req, Resp, E]{
		iface:     iface,
		sess:      sess,
		logger:    cfg.logger,
		observers: cfg.observers,
	}
}

// NewWithSession constructs a Repository around the zero value of I, for
// interfaces whose zero value is ready to use.
func NewWithSession[I api.Interface[E], Req, Resp any, E error](sess session.Session[Req, Resp], options ...Option) *Repository[I, Req, Resp, E] {
	var iface I
	return New[I, Req, Resp, E](iface, sess, options...)
}

type config struct {
	logger    log.Logger
	observers []func(Event)
}

// Option sets an optional parameter for repositories.
type Option func(*config)

// WithLogger sets the logger used to report interface and session
// replacement. By default, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithObserver registers fn to be called after every replacement of the
// interface or the session. Observers run synchronously, in registration
// order, after the repository lock has been released.
func WithObserver(fn func(Event)) Option {
	return func(c *config) { c.observers = append(c.observers, fn) }
}

// EventKind says what a repository replaced.
type EventKind int

// Event kinds.
const (
	InterfaceReplaced EventKind = iota
	SessionReplaced
)

func (k EventKind) String() string {
	switch k {
	case InterfaceReplaced:
		return "interface"
	case SessionReplaced:
		return "session"
	default:
		return "unknown"
	}
}

// Event describes a replacement. Cancelled is the number of in-flight
// handles the replacement cancelled.
type Event struct {
	Kind      EventKind
	Cancelled int
}

// Interface returns the current program interface.
func (r *Repository[I, Req, Resp, E]) Interface() I {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.iface
}

// Session returns the current session.
func (r *Repository[I, Req, Resp, E]) Session() session.Session[Req, Resp] {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.sess
}

// SetInterface replaces the program interface and cancels all work tracked
// by the current session. It returns the number of cancelled handles.
//
// The replacement is a synchronization point: every dispatch that began
// before it is tracked by the session and therefore cancelled, and every
// dispatch that begins after it sees the new interface.
func (r *Repository[I, Req, Resp, E]) SetInterface(iface I) int {
	r.mtx.Lock()
	r.iface = iface
	n := r.sess.Cancellables().CancelAll()
	r.mtx.Unlock()

	r.notify(Event{Kind: InterfaceReplaced, Cancelled: n})
	return n
}

// SetSession replaces the session and cancels all work tracked by the
// outgoing one. It returns the number of cancelled handles. Like
// SetInterface, it is a synchronization point for dispatches.
func (r *Repository[I, Req, Resp, E]) SetSession(sess session.Session[Req, Resp]) int {
	r.mtx.Lock()
	old := r.sess
	r.sess = sess
	n := old.Cancellables().CancelAll()
	r.mtx.Unlock()

	r.notify(Event{Kind: SessionReplaced, Cancelled: n})
	return n
}

func (r *Repository[I, Req, Resp, E]) notify(ev Event) {
	level.Info(r.logger).Log("replaced", ev.Kind, "cancelled", ev.Cancelled)
	for _, fn := range r.observers {
		fn(ev)
	}
}
