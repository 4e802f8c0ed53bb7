package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"golang.org/x/time/rate"
)

// ErrStopped is returned when enqueueing on a stopped dispatcher
var ErrStopped = errors.New("dispatcher stopped")

// ErrQueueFull is returned when the job queue has no free slot
var ErrQueueFull = errors.New("job queue full")

// Job is one unit of background work. Run reports whether it succeeded.
type Job struct {
	Name string
	Run  func(ctx context.Context) bool
}

// Dispatcher runs queued jobs on a fixed number of workers, throttled by a shared token bucket
type Dispatcher struct {
	queue   chan Job
	workers int
	limiter *rate.Limiter
	logger  logger.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher with a queue of queueSize jobs.
// ratePerSecond limits how many jobs start per second across all workers.
func NewDispatcher(workers, queueSize int, ratePerSecond float64, logger logger.Logger) (*Dispatcher, error) {
	if workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1")
	}
	if queueSize < 1 {
		return nil, fmt.Errorf("queue size must be at least 1")
	}
	if ratePerSecond <= 0 {
		return nil, fmt.Errorf("rate must be positive")
	}

	return &Dispatcher{
		queue:   make(chan Job, queueSize),
		workers: workers,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		logger:  logger,
	}, nil
}

// Start launches the workers. Jobs run under a context derived from ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(ctx)
	}
	d.logger.Info(fmt.Sprintf("Started %d job workers", d.workers))
}

// Enqueue queues job without blocking
func (d *Dispatcher) Enqueue(job Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- job:
		return nil
	default:
		d.logger.Warn("Dropping job ", job.Name, ": queue full")
		return ErrQueueFull
	}
}

// Stop stops accepting jobs and waits for queued ones to finish.
// When ctx ends first, running jobs are cancelled and Stop returns ctx.Err().
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("Job workers stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for job := range d.queue {
		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Warn("Skipping job ", job.Name, ": ", err)
			continue
		}
		d.run(ctx, job)
	}
}

func (d *Dispatcher) run(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Job ", job.Name, " panicked: ", r)
		}
	}()

	if job.Run(ctx) {
		d.logger.Debug("Job ", job.Name, " succeeded")
		return
	}
	d.logger.Warn("Job ", job.Name, " did not succeed")
}
