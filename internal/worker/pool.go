// Package worker runs parse jobs and market searches concurrently.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by a Pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a Job produces
type Result interface {
	Err() error
}

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Pool executes jobs on a fixed number of goroutines and returns results in
// submission order
type Pool struct {
	workers   int
	jobs      chan indexedJob
	results   chan indexedResult
	submitted int
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool bound to ctx; cancelling ctx stops the workers
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: workers,
		jobs:    make(chan indexedJob, workers*2),
		results: make(chan indexedResult, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case j, ok := <-p.jobs:
			if !ok {
				return
			}
			r := indexedResult{index: j.index, result: j.job.Execute(p.ctx)}
			select {
			case p.results <- r:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false once the pool is cancelled.
// Submit must not be called concurrently with itself or after Wait.
func (p *Pool) Submit(job Job) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- indexedJob{index: p.submitted, job: job}:
		p.submitted++
		return true
	}
}

// Wait closes the queue and returns one slot per submitted job. Slots of
// jobs abandoned by cancellation are nil.
func (p *Pool) Wait() []Result {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	out := make([]Result, p.submitted)
	for r := range p.results {
		out[r.index] = r.result
	}
	p.cancel()
	return out
}

// Shutdown cancels in-flight work and waits for the workers to exit
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
