package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-kit/apikit/session"
	"github.com/go-kit/apikit/task"
	"github.com/go-kit/apikit/transport"
)

var _ session.Session[string, int] = (*session.Client[string, int])(nil)

func TestClientExecute(t *testing.T) {
	c := session.New(func(_ context.Context, req string) (int, error) {
		return len(req), nil
	})
	st := c.Execute("hello")
	if want, have := task.Ready, st.State(); want != have {
		t.Fatalf("want %s, have %s", want, have)
	}
	if err := st.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	n, err := st.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if want, have := 5, n; want != have {
		t.Errorf("want %d, have %d", want, have)
	}
}

func TestClientErrorHandler(t *testing.T) {
	var (
		errRefused = errors.New("connection refused")
		handled    = make(chan error, 1)
	)
	c := session.New(
		func(context.Context, string) (int, error) { return 0, errRefused },
		session.WithErrorHandler(transport.ErrorHandlerFunc(func(_ context.Context, err error) { handled <- err })),
	)
	st := c.Execute("x")
	st.Start(context.Background())
	if _, err := st.Wait(context.Background()); err != errRefused {
		t.Fatalf("want %v, have %v", errRefused, err)
	}
	select {
	case err := <-handled:
		if want, have := errRefused, err; want != have {
			t.Errorf("want %v, have %v", want, have)
		}
	case <-time.After(time.Second):
		t.Fatal("error handler not called")
	}
}

func TestClientCancel(t *testing.T) {
	var (
		entered = make(chan struct{})
		exited  = make(chan error, 1)
	)
	c := session.New(func(ctx context.Context, _ string) (int, error) {
		close(entered)
		<-ctx.Done()
		exited <- ctx.Err()
		return 0, ctx.Err()
	})
	st := c.Execute("x")
	st.Start(context.Background())
	<-entered
	st.Cancel()

	select {
	case err := <-exited:
		if want, have := context.Canceled, err; want != have {
			t.Errorf("want %v, have %v", want, have)
		}
	case <-time.After(time.Second):
		t.Fatal("round trip context was not cancelled")
	}
	if want, have := task.Cancelled, st.State(); want != have {
		t.Errorf("want %s, have %s", want, have)
	}
}

func TestWithRegistry(t *testing.T) {
	r := task.NewRegistry()
	c := session.New(func(context.Context, string) (int, error) { return 0, nil }, session.WithRegistry(r))
	if want, have := r, c.Cancellables(); want != have {
		t.Errorf("want %p, have %p", want, have)
	}
}
