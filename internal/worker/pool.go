package worker

import (
	"context"
	"sync"

	"github.com/ksen/caseflash/internal/logger"
)

// Job is a unit of background work.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Pool runs jobs on a fixed set of workers with a bounded queue.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc
	log     *logger.Logger
}

// NewPool creates a pool with the given worker count and queue size.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     logger.Default().WithPrefix("worker-pool"),
	}
}

// Start launches the workers. They run until the context is cancelled.
func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					p.log.Debug("worker %d running job %s", id, job.Name())
					if err := job.Run(ctx); err != nil {
						p.log.Error("job %s failed: %v", job.Name(), err)
					}
				}
			}
		}(i)
	}
}

// Submit enqueues a job. Returns false when the queue is full; the caller
// decides whether to run inline or drop.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		p.log.Warn("queue full, rejecting job %s", job.Name())
		return false
	}
}

// Stop cancels the workers and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}
