package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrPoolStopped is delivered for jobs submitted after the pool stopped.
var ErrPoolStopped = errors.New("worker pool stopped")

// Job is a unit of work run by the pool.
type Job func(ctx context.Context) error

type job struct {
	run  Job
	done chan<- error
}

// WorkerPool runs data loads off the caller's goroutine with a fixed
// number of workers.
type WorkerPool struct {
	size int
	jobs chan job
	log  logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorkerPool creates a pool of size workers. Call Start before Submit.
func NewWorkerPool(size int, log logrus.FieldLogger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		size: size,
		// Unbuffered: a send succeeds only when a worker takes the job.
		jobs: make(chan job),
		log:  orStandard(log),
	}
}

// Start launches the worker goroutines. They exit when ctx is cancelled
// or Stop is called.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.ctx, wp.cancel = context.WithCancel(ctx)
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop cancels the workers and waits for running jobs to return.
func (wp *WorkerPool) Stop() {
	if wp.cancel != nil {
		wp.cancel()
	}
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	log := wp.log.WithField("worker", id)
	log.Debug("worker started")
	for {
		select {
		case j := <-wp.jobs:
			j.done <- wp.run(j.run)
		case <-wp.ctx.Done():
			log.Debug("worker shutting down")
			return
		}
	}
}

func (wp *WorkerPool) run(fn Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
			wp.log.WithField("panic", r).Error("worker recovered from panic")
		}
	}()
	return fn(wp.ctx)
}

// Submit queues fn and returns a channel that receives its result once.
// If ctx ends or the pool stops before a worker picks the job up, the
// channel receives that error instead.
func (wp *WorkerPool) Submit(ctx context.Context, fn Job) <-chan error {
	done := make(chan error, 1)
	if wp.ctx == nil {
		done <- ErrPoolStopped
		return done
	}
	select {
	case wp.jobs <- job{run: fn, done: done}:
	case <-ctx.Done():
		done <- ctx.Err()
	case <-wp.ctx.Done():
		done <- ErrPoolStopped
	}
	return done
}
