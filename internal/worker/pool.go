package worker

import (
	"context"
	"sync"
)

// Job is a unit of work producing a result of type R
type Job[R any] interface {
	Execute(ctx context.Context) R
}

// JobFunc adapts a function to Job
type JobFunc[R any] func(ctx context.Context) R

// Execute calls f
func (f JobFunc[R]) Execute(ctx context.Context) R {
	return f(ctx)
}

// Pool manages a pool of workers that execute jobs concurrently.
// Results are returned in submission order.
type Pool[R any] struct {
	workers    int
	jobQueue   chan indexed[Job[R]]
	results    chan indexed[R]
	submitted  int
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once

	collected []indexed[R]
	collectWG sync.WaitGroup
}

type indexed[T any] struct {
	index int
	value T
}

// NewPool creates a new worker pool with the specified number of workers.
// Jobs see a context derived from parent.
func NewPool[R any](parent context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(parent)

	return &Pool[R]{
		workers:    workers,
		jobQueue:   make(chan indexed[Job[R]], workers*2),
		results:    make(chan indexed[R], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool and its result collector
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	p.collectWG.Add(1)
	go func() {
		defer p.collectWG.Done()
		for r := range p.results {
			p.collected = append(p.collected, r)
		}
	}()
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.value.Execute(p.ctx)
			p.results <- indexed[R]{index: job.index, value: result}
		}
	}
}

// Submit submits a job to the pool. It reports false when the pool is
// shutting down and the job was dropped. Submit must not be called
// concurrently with Wait.
func (p *Pool[R]) Submit(job Job[R]) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- indexed[Job[R]]{index: p.submitted, value: job}:
		p.submitted++
		return true
	}
}

// Wait waits for all submitted jobs and returns their results in submission
// order. Jobs lost to a shutdown leave a zero value in their slot.
func (p *Pool[R]) Wait() []R {
	close(p.jobQueue)

	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()

	results := make([]R, p.submitted)
	for _, r := range p.collected {
		results[r.index] = r.value
	}

	p.cancelFunc()
	return results
}

// Shutdown cancels running jobs and stops the pool without collecting results
func (p *Pool[R]) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()
}

func (p *Pool[R]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
