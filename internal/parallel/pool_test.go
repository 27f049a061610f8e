package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEach_RunsAllTasks(t *testing.T) {
	const n = 50
	results := make([]int, n)
	err := ForEach(context.Background(), 4, n, func(i int) {
		results[i] = i * i
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	for i, got := range results {
		if got != i*i {
			t.Errorf("results[%d] = %d, want %d", i, got, i*i)
		}
	}
}

func TestForEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	// With one worker and a cancelled context, submission must stop early.
	err := ForEach(ctx, 1, 1000, func(int) { ran.Add(1) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := ran.Load(); got >= 1000 {
		t.Fatalf("expected early stop, ran %d tasks", got)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	// Repeat across fresh pools: the rejection must be deterministic, never
	// a race between the shutdown state and a buffered send.
	for i := 0; i < 20; i++ {
		p := NewPool(2)
		p.Shutdown()
		err := p.Submit(context.Background(), func() {})
		if !errors.Is(err, ErrPoolShutdown) {
			t.Fatalf("run %d: expected ErrPoolShutdown, got %v", i, err)
		}
	}
}

func TestPool_ShutdownDrainsQueuedTasks(t *testing.T) {
	p := NewPool(1)
	gate := make(chan struct{})
	var done atomic.Int32

	// Block the single worker, then queue more tasks behind it.
	if err := p.Submit(context.Background(), func() { <-gate; done.Add(1) }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := p.Submit(context.Background(), func() { done.Add(1) }); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	close(gate)
	p.Shutdown()
	if got := done.Load(); got != 3 {
		t.Fatalf("tasks finished before Shutdown returned = %d, want 3", got)
	}
}

func TestPool_ShutdownIdempotent(t *testing.T) {
	p := NewPool(1)
	p.Shutdown()
	p.Shutdown()
}
