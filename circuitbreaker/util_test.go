package circuitbreaker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kit/apikit/session"
)

func testFailingFunc(t *testing.T, breaker session.Middleware[struct{}, struct{}], primeWith int, shouldPass func(int) bool, openCircuitError string) {
	// Create a mock transport func and wrap it with the breaker.
	m := mock{}
	f := breaker(m.roundTrip)

	// Prime the func with successful requests.
	for i := 0; i < primeWith; i++ {
		if _, err := f(context.Background(), struct{}{}); err != nil {
			t.Fatalf("during priming, got error: %v", err)
		}
	}

	// Switch the func to start throwing errors.
	m.err = errors.New("tragedy+disaster")
	m.thru = 0

	// The first several should be allowed through and yield our error.
	for i := 0; shouldPass(i); i++ {
		if _, err := f(context.Background(), struct{}{}); err != m.err {
			t.Fatalf("want %v, have %v", m.err, err)
		}
	}
	thru := m.thru

	// But the rest should be blocked by an open circuit.
	for i := 0; i < 10; i++ {
		if _, err := f(context.Background(), struct{}{}); err == nil || err.Error() != openCircuitError {
			t.Fatalf("want %q, have %v", openCircuitError, err)
		}
	}

	// Make sure none of those got through.
	if want, have := thru, m.thru; want != have {
		t.Errorf("want %d, have %d", want, have)
	}
}

type mock struct {
	thru int
	err  error
}

func (m *mock) roundTrip(context.Context, struct{}) (struct{}, error) {
	m.thru++
	return struct{}{}, m.err
}
