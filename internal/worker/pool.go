package worker

import (
	"context"
	"sync"
	"time"

	"github.com/learnify/learnify/internal/logger"
)

type Job interface {
	Run(context.Context) error
	Name() string
}

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }
func (j funcJob) Name() string                  { return j.name }

// Func wraps a plain function as a Job.
func Func(name string, fn func(context.Context) error) Job {
	return funcJob{name: name, fn: fn}
}

// Pool runs submitted jobs on a fixed set of workers. A pool with a single
// worker doubles as a serialization point: jobs are applied strictly in
// submission order.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	queue   int
	cancel  context.CancelFunc
	log     *logger.Logger
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			for {
				select {
				case <-ctx.Done():
					workerLog.Debug("worker shutting down (context cancelled)")
					return
				case job := <-p.jobs:
					if job == nil {
						workerLog.Debug("worker shutting down (nil job received)")
						return
					}
					p.runJob(ctx, workerLog, job)
				}
			}
		}(i + 1)
	}
}

func (p *Pool) runJob(ctx context.Context, workerLog *logger.Logger, job Job) {
	jobLog := workerLog.WithField("job", job.Name())
	jobLog.Debug("starting job")
	start := time.Now()

	jobCtx := logger.NewContext(ctx, jobLog)

	err := job.Run(jobCtx)
	if err != nil {
		jobLog.Error("job failed after %v: %v", time.Since(start), err)
	} else {
		jobLog.Debug("job completed in %v", time.Since(start))
	}

	if sj, ok := job.(*syncJob); ok {
		sj.done <- err
	}
}

func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	close(p.jobs)
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.log.Info("worker pool stopped")
}

// Submit enqueues a job and returns once it is queued. Errors are logged
// by the worker, not reported to the submitter.
func (p *Pool) Submit(job Job) {
	p.log.Debug("submitting job: %s", job.Name())
	p.jobs <- job
}

type syncJob struct {
	Job
	done chan error
}

// Do enqueues a job and waits for it to finish, returning the job's error.
// The job still runs on a pool worker, so Do calls issued against a
// single-worker pool are serialized with every Submit before them.
func (p *Pool) Do(ctx context.Context, job Job) error {
	sj := &syncJob{Job: job, done: make(chan error, 1)}
	select {
	case p.jobs <- sj:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-sj.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
