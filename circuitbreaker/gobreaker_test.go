package circuitbreaker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/go-kit/apikit/api"
	"github.com/go-kit/apikit/circuitbreaker"
	"github.com/go-kit/apikit/endpoint"
	"github.com/go-kit/apikit/repository"
	"github.com/go-kit/apikit/session"
)

func TestGobreaker(t *testing.T) {
	var (
		breaker          = circuitbreaker.Gobreaker[struct{}, struct{}](gobreaker.NewCircuitBreaker(gobreaker.Settings{}))
		primeWith        = 100
		shouldPass       = func(n int) bool { return n <= 5 } // https://github.com/sony/gobreaker/blob/bfa846d/gobreaker.go#L76
		circuitOpenError = "circuit breaker is open"
	)
	testFailingFunc(t, breaker, primeWith, shouldPass, circuitOpenError)
}

type pingAPI struct{ api.Errors }

var ping = endpoint.New(
	"ping",
	func(_ context.Context, _ pingAPI, n int) (int, error) { return n, nil },
	func(_ context.Context, n int) (int, error) { return n, nil },
)

func TestGobreakerOpenCircuitFailsTask(t *testing.T) {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 1 },
		Timeout:     time.Hour,
	})
	fail := func(context.Context, int) (int, error) { return 0, errors.New("down") }
	r := repository.New[pingAPI, int, int, *api.Error](
		pingAPI{},
		session.New(circuitbreaker.Gobreaker[int, int](cb)(fail)),
	)

	repository.Run(context.Background(), r, ping, 1).Wait(context.Background())
	if want, have := gobreaker.StateOpen, cb.State(); want != have {
		t.Fatalf("want %s, have %s", want, have)
	}

	_, err := repository.Run(context.Background(), r, ping, 2).Wait(context.Background())
	var e *api.Error
	if !errors.As(err, &e) {
		t.Fatalf("want *api.Error, have %v", err)
	}
	if want, have := gobreaker.ErrOpenState, e.Err; want != have {
		t.Errorf("want %v, have %v", want, have)
	}
}

func TestGobreakerIgnoresCancellation(t *testing.T) {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 1 },
		Timeout:     time.Hour,
	})
	f := circuitbreaker.Gobreaker[int, int](cb)(func(ctx context.Context, _ int) (int, error) {
		return 0, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		if _, err := f(ctx, i); !errors.Is(err, context.Canceled) {
			t.Fatalf("want %v, have %v", context.Canceled, err)
		}
	}
	if want, have := gobreaker.StateClosed, cb.State(); want != have {
		t.Errorf("want %s, have %s", want, have)
	}
}

func TestGobreakerCancelAllKeepsCircuitClosed(t *testing.T) {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 1 },
		Timeout:     time.Hour,
	})
	var (
		entered  = make(chan struct{}, 1)
		finished = make(chan struct{})
	)
	guarded := circuitbreaker.Gobreaker[int, int](cb)(func(ctx context.Context, _ int) (int, error) {
		entered <- struct{}{}
		<-ctx.Done()
		return 0, ctx.Err()
	})
	r := repository.New[pingAPI, int, int, *api.Error](
		pingAPI{},
		session.New(func(ctx context.Context, n int) (int, error) {
			defer close(finished)
			return guarded(ctx, n)
		}),
	)

	repository.Run(context.Background(), r, ping, 1)
	<-entered
	r.SetSession(session.New(circuitbreaker.Gobreaker[int, int](cb)(func(_ context.Context, n int) (int, error) { return n, nil })))
	<-finished

	v, err := repository.Run(context.Background(), r, ping, 2).Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if want, have := 2, v; want != have {
		t.Errorf("want %d, have %d", want, have)
	}
	if want, have := gobreaker.StateClosed, cb.State(); want != have {
		t.Errorf("want %s, have %s", want, have)
	}
}
