package task_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-kit/apikit/task"
)

func TestRegistryInsertRemove(t *testing.T) {
	var r task.Registry // zero value
	remove := r.Insert(task.Nop)
	r.Insert(task.Nop)
	if want, have := 2, r.Len(); want != have {
		t.Fatalf("want %d, have %d", want, have)
	}
	remove()
	remove()
	if want, have := 1, r.Len(); want != have {
		t.Errorf("want %d, have %d", want, have)
	}
}

func TestRegistryTrack(t *testing.T) {
	r := task.NewRegistry()
	tk := task.New(func(ctx context.Context, in int, _ bool, p task.Promise[int, error]) task.Cancellable {
		return nil
	})
	task.Track(r, tk)
	if want, have := 1, r.Len(); want != have {
		t.Fatalf("want %d, have %d", want, have)
	}
	tk.Cancel()
	if want, have := 0, r.Len(); want != have {
		t.Errorf("want %d, have %d", want, have)
	}

	done := task.NewSucceeded[int, int, error](1)
	task.Track(r, done)
	if want, have := 0, r.Len(); want != have {
		t.Errorf("finished task: want %d, have %d", want, have)
	}
}

func TestRegistryCancelAll(t *testing.T) {
	r := task.NewRegistry()
	var cancelled int32
	for i := 0; i < 3; i++ {
		r.Insert(task.CancelFunc(func() { atomic.AddInt32(&cancelled, 1) }))
	}
	tk := task.New(func(ctx context.Context, in int, _ bool, p task.Promise[int, error]) task.Cancellable {
		p.Track(r)
		return nil
	})
	tk.Start(context.Background())

	if want, have := 4, r.CancelAll(); want != have {
		t.Fatalf("want %d, have %d", want, have)
	}
	if want, have := int32(3), atomic.LoadInt32(&cancelled); want != have {
		t.Errorf("want %d, have %d", want, have)
	}
	if want, have := task.Cancelled, tk.State(); want != have {
		t.Errorf("want %s, have %s", want, have)
	}
	if want, have := 0, r.Len(); want != have {
		t.Errorf("want %d, have %d", want, have)
	}
}

func TestRegistryConcurrentCancelAll(t *testing.T) {
	var (
		r  = task.NewRegistry()
		wg sync.WaitGroup
		n  int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Insert(task.CancelFunc(func() { atomic.AddInt32(&n, 1) }))
		}()
		go func() {
			defer wg.Done()
			r.CancelAll()
		}()
	}
	wg.Wait()
	r.CancelAll()
	if want, have := int32(50), atomic.LoadInt32(&n); want != have {
		t.Errorf("want %d, have %d", want, have)
	}
}
