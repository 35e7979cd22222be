// Package worker runs background tasks on a fixed number of goroutines.
package worker

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"
)

type Task func(ctx context.Context) error

type Result struct {
	Err error
}

var (
	ErrClosed    = errors.New("worker pool closed")
	ErrQueueFull = errors.New("worker pool queue full")
)

// Pool drains a buffered task queue with a fixed set of workers. An optional
// limiter paces task starts across all workers.
type Pool struct {
	workers int
	tasks   chan Task

	mu      sync.RWMutex
	limiter *rate.Limiter
	closed  bool

	wg sync.WaitGroup
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

// SetRateLimit paces task starts to perSec with the given burst. perSec <= 0
// removes the limit.
func (p *Pool) SetRateLimit(perSec float64, burst int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if perSec <= 0 {
		p.limiter = nil
		return
	}
	if burst <= 0 {
		burst = 1
	}
	p.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
}

// Submit blocks until the task is queued or ctx is done.
func (p *Pool) Submit(ctx context.Context, t Task) error {
	if p == nil || t == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues the task without blocking.
func (p *Pool) TrySubmit(t Task) error {
	if p == nil || t == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.tasks <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting tasks. Workers finish what is queued and exit.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.tasks)
}

// Run starts the workers. The returned channel carries one Result per task
// and is closed after Close once the queue is drained, or when ctx is done.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers*64)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					p.mu.RLock()
					lim := p.limiter
					p.mu.RUnlock()
					if lim != nil {
						if err := lim.Wait(ctx); err != nil {
							return
						}
					}
					err := t(ctx)
					select {
					case out <- Result{Err: err}:
					default:
						// nobody is reading results
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}
