// Package worker provides a bounded pool for fanning independent jobs out
// over a fixed number of goroutines. Results flow back over a channel; there
// is no shared mutable state between workers.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed on a pool goroutine. Execute must convert
// its own failures into the Result; a Job never aborts the pool.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job execution.
type Result interface {
	GetError() error
}

// Pool manages a fixed set of workers executing jobs concurrently.
type Pool struct {
	workers   int
	jobQueue  chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool of the given size. Cancelling parent stops workers
// between jobs; the unit of cancellation is the whole batch.
func NewPool(parent context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(parent)
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, workers*2),
		results:  make(chan Result, workers*2),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job for execution.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Results exposes the result channel for consumers that process completions
// as they arrive (progress reporting reads from here).
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Finish closes the job queue and, once all workers drain, the results
// channel. Call after the last Submit; then range over Results.
func (p *Pool) Finish() {
	close(p.jobQueue)
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()
}

// Shutdown cancels outstanding work and waits for workers to exit.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
