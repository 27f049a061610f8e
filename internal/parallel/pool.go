// Package parallel provides a bounded worker pool for solving independent
// covering instances concurrently. Each instance is solved by its own
// single-threaded session, so workers share no state; the pool only bounds
// how many sessions run at once.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when submitting work to a pool that has been
// shut down.
var ErrPoolShutdown = errors.New("worker pool has been shut down")

// Pool manages a fixed set of worker goroutines. Submission blocks when all
// workers are busy and the task buffer is full, which keeps memory bounded
// for large batches.
type Pool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a pool with the given number of workers. Values of zero
// or less default to the number of CPU cores.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		if task != nil {
			task()
		}
	}
}

// Submit queues a task for execution, blocking until a worker slot frees up
// or the context is cancelled. Submit returns ErrPoolShutdown once Shutdown
// has been called; a nil return guarantees the task will run. The read lock
// is held across the send so Shutdown cannot close the task channel under a
// blocked submitter.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolShutdown
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting new tasks and waits for every queued and running
// task to complete. It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// ForEach runs fn(i) for i in [0, n) across the given number of workers and
// waits for all of them. Tasks must write only to disjoint state (typically
// a result slice indexed by i). The first context cancellation error seen
// during submission is returned; tasks already submitted still finish.
func ForEach(ctx context.Context, workers, n int, fn func(int)) error {
	pool := NewPool(workers)
	var tasks sync.WaitGroup
	var submitErr error
	for i := 0; i < n; i++ {
		i := i
		tasks.Add(1)
		err := pool.Submit(ctx, func() {
			defer tasks.Done()
			fn(i)
		})
		if err != nil {
			tasks.Done()
			submitErr = err
			break
		}
	}
	tasks.Wait()
	pool.Shutdown()
	return submitErr
}
