package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is a unit of work run by the Pool
type Job func() error

// Pool runs jobs on a bounded number of goroutines. The first job error stops
// jobs that have not started yet; Wait reports that error.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	slots  chan struct{}
}

// New creates a pool running at most workers jobs at a time
func New(workers int) *Pool {
	return NewWithContext(context.Background(), workers)
}

// NewWithContext is like New, but jobs that have not started are skipped
// once ctx is done
func NewWithContext(ctx context.Context, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		group:  group,
		slots:  make(chan struct{}, workers),
	}
}

// Add schedules jobs on the pool
func (p *Pool) Add(jobs []Job) {
	for _, job := range jobs {
		job := job
		p.group.Go(func() error {
			select {
			case p.slots <- struct{}{}:
			case <-p.ctx.Done():
				return nil
			}
			defer func() { <-p.slots }()

			if p.ctx.Err() != nil {
				return nil
			}
			return job()
		})
	}
}

// Stop prevents queued jobs from starting; running jobs are not interrupted
func (p *Pool) Stop() {
	p.cancel()
}

// Wait blocks until every scheduled job has returned or been skipped and
// returns the first job error
func (p *Pool) Wait() error {
	defer p.cancel()
	return p.group.Wait()
}
