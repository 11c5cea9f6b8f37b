// SPDX-License-Identifier: EPL-2.0

// Package worker runs long jobs, such as decoding, off the control goroutine.
package worker

import (
	"context"
	"log"
	"sync"
)

// Job is one unit of background work. Run is skipped when Ctx is already
// done by the time a worker picks the job up.
type Job struct {
	Name string
	Ctx  context.Context
	Run  func(ctx context.Context)
}

// Pool is a fixed set of goroutines draining a bounded queue.
type Pool struct {
	jobs chan Job
	wg   sync.WaitGroup

	mtx     sync.Mutex
	stopped bool
}

// NewPool creates a pool whose queue holds queueSize pending jobs.
func NewPool(queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for range workers {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.process(job)
			}
		}()
	}
}

// Stop closes the queue and waits for queued jobs to finish.
func (p *Pool) Stop() {
	p.mtx.Lock()
	if p.stopped {
		p.mtx.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mtx.Unlock()

	p.wg.Wait()
}

// Submit queues a job without blocking. It reports false when the queue is
// full or the pool is stopped.
func (p *Pool) Submit(job Job) bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.stopped {
		log.Printf("WARN worker: pool stopped, dropping %s", job.Name)
		return false
	}

	select {
	case p.jobs <- job:
		return true
	default:
		log.Printf("WARN worker: queue full, dropping %s", job.Name)
		return false
	}
}

func (p *Pool) process(job Job) {
	ctx := job.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		log.Printf("worker: skipping %s: %v", job.Name, err)
		return
	}

	job.Run(ctx)
}
