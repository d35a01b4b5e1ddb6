package repository

import (
	"context"

	"github.com/go-kit/apikit/api"
	"github.com/go-kit/apikit/endpoint"
	"github.com/go-kit/apikit/task"
)

// Task returns a fresh task that dispatches ep through r once it receives
// its input and is started.
//
// The interface and session are read when the task starts, not when it is
// created: a task created before SetInterface or SetSession and started
// after it runs against the new configuration.
func Task[I api.Interface[E], Req, Resp any, E error, In, Out any](
	r *Repository[I, Req, Resp, E],
	ep endpoint.Endpoint[I, Req, Resp, In, Out],
) *task.Task[In, Out, E] {
	return TaskAt(r, func(I) endpoint.Endpoint[I, Req, Resp, In, Out] { return ep })
}

// TaskAt is like Task, but selects the endpoint from the interface with
// path. The path is applied to the interface the task starts with. Paths
// that ignore their argument select from a static endpoint namespace.
func TaskAt[I api.Interface[E], Req, Resp any, E error, In, Out any](
	r *Repository[I, Req, Resp, E],
	path func(I) endpoint.Endpoint[I, Req, Resp, In, Out],
) *task.Task[In, Out, E] {
	return task.New(func(ctx context.Context, in In, received bool, p task.Promise[Out, E]) task.Cancellable {
		return dispatch(ctx, r, path, in, received, p)
	})
}

// Run creates a task for ep, delivers input and starts it. The returned task
// is already in flight; observe it with Wait, Done or Subscribe, or stop it
// with Cancel. Cancelling ctx cancels the task.
func Run[I api.Interface[E], Req, Resp any, E error, In, Out any](
	ctx context.Context,
	r *Repository[I, Req, Resp, E],
	ep endpoint.Endpoint[I, Req, Resp, In, Out],
	input In,
) *task.Task[In, Out, E] {
	return start(ctx, r, Task(r, ep), input)
}

// RunAt is like Run, but selects the endpoint with path, as TaskAt does.
func RunAt[I api.Interface[E], Req, Resp any, E error, In, Out any](
	ctx context.Context,
	r *Repository[I, Req, Resp, E],
	path func(I) endpoint.Endpoint[I, Req, Resp, In, Out],
	input In,
) *task.Task[In, Out, E] {
	return start(ctx, r, TaskAt(r, path), input)
}

func start[I api.Interface[E], Req, Resp any, E error, In, Out any](
	ctx context.Context,
	r *Repository[I, Req, Resp, E],
	t *task.Task[In, Out, E],
	input In,
) *task.Task[In, Out, E] {
	if err := t.Receive(input); err != nil {
		return task.NewFailed[In, Out](r.Interface().RuntimeError(err))
	}
	t.Start(ctx)
	return t
}

// dispatch is the body of every repository task. It snapshots the
// configuration and registers its work with the read lock held, so that
// SetInterface and SetSession either precede it entirely or cancel what it
// registered. The session task is started after the lock is released: a
// session may run its round trip synchronously, and a swap must be able to
// cancel it meanwhile.
func dispatch[I api.Interface[E], Req, Resp any, E error, In, Out any](
	ctx context.Context,
	r *Repository[I, Req, Resp, E],
	path func(I) endpoint.Endpoint[I, Req, Resp, In, Out],
	in In,
	received bool,
	p task.Promise[Out, E],
) task.Cancellable {
	ctx, st := submit(ctx, r, path, in, received, p)
	if st == nil {
		return task.Nop
	}
	// A swap between submit and here has already cancelled st, in which case
	// Start does nothing. A session may also hand out tasks it has already
	// started; the subscription observes them either way.
	st.Start(ctx)
	return st
}

// submit runs the locked part of dispatch. It returns a nil task when the
// outcome was already published.
func submit[I api.Interface[E], Req, Resp any, E error, In, Out any](
	ctx context.Context,
	r *Repository[I, Req, Resp, E],
	path func(I) endpoint.Endpoint[I, Req, Resp, In, Out],
	in In,
	received bool,
	p task.Promise[Out, E],
) (context.Context, *task.Task[Req, Resp, error]) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	iface, sess := r.iface, r.sess

	if !received {
		p.Fail(iface.RuntimeError(api.ErrMissingInput))
		return ctx, nil
	}

	ep := path(iface)
	ctx = endpoint.WithName(ctx, ep.Name)
	req, err := ep.Build(ctx, iface, in)
	if err != nil {
		p.Fail(iface.RuntimeError(err))
		return ctx, nil
	}

	registry := sess.Cancellables()
	p.Track(registry)
	st := sess.Execute(req)
	task.Track(registry, st)
	st.Subscribe(func(o task.Outcome[Resp, error]) {
		if !p.Alive() {
			return
		}
		switch o.State {
		case task.Succeeded:
			out, err := ep.Decode(ctx, o.Value)
			if err != nil {
				p.Fail(iface.RuntimeError(err))
				return
			}
			p.Succeed(out)
		case task.Failed:
			p.Fail(iface.RuntimeError(o.Err))
		default:
			p.Cancel()
		}
	})
	return ctx, st
}
