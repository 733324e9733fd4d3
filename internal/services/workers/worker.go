package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/models"
	"github.com/killallgit/autocut/internal/services/jobs"
)

// failureRecordTimeout bounds the write that records a failure after the
// run's own context was cancelled.
const failureRecordTimeout = 5 * time.Second

// JobProcessor runs jobs of the types it accepts. A returned
// *models.StructuredJobError is stored as is; any other error is recorded
// as a system failure.
type JobProcessor interface {
	ProcessJob(ctx context.Context, job *models.Job) error
	CanProcess(jobType models.JobType) bool
}

// Worker claims jobs from the queue one at a time.
type Worker struct {
	id           string
	queue        jobs.Consumer
	processors   []JobProcessor
	pollInterval time.Duration
	logger       *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorker creates a worker that checks the queue every pollInterval.
func NewWorker(id string, queue jobs.Consumer, pollInterval time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		id:           id,
		queue:        queue,
		pollInterval: pollInterval,
		logger:       logging.NewComponent(logger, "worker").With(slog.String("worker", id)),
		done:         make(chan struct{}),
	}
}

// RegisterProcessor adds p. It must be called before Start.
func (w *Worker) RegisterProcessor(p JobProcessor) {
	w.processors = append(w.processors, p)
}

// Start runs the worker loop in a goroutine until ctx ends or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx)
	}()
}

// Stop ends the loop and waits for the job in hand.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	w.logger.Info("worker starting")
	defer w.logger.Info("worker stopped")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
		}

		// Keep claiming while jobs succeed. A failure waits for the next tick
		// so a retryable job is not retried immediately.
		for {
			claimed, err := w.processNextJob(ctx)
			if err != nil {
				w.logger.Warn("job run failed", logging.Error(err))
			}
			if !claimed || err != nil || w.stopping(ctx) {
				break
			}
		}
	}
}

func (w *Worker) stopping(ctx context.Context) bool {
	select {
	case <-w.done:
		return true
	default:
		return ctx.Err() != nil
	}
}

func (w *Worker) processorFor(jobType models.JobType) JobProcessor {
	for _, p := range w.processors {
		if p.CanProcess(jobType) {
			return p
		}
	}
	return nil
}

// processNextJob claims one job and runs it. It reports whether a job was
// claimed.
func (w *Worker) processNextJob(ctx context.Context) (bool, error) {
	var accepted []models.JobType
	for _, jobType := range models.AllJobTypes {
		if w.processorFor(jobType) != nil {
			accepted = append(accepted, jobType)
		}
	}
	if len(accepted) == 0 {
		return false, errors.New("no job processors registered")
	}

	job, err := w.queue.ClaimNextJob(ctx, w.id, accepted)
	if errors.Is(err, jobs.ErrNoJobsAvailable) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	logger := w.logger.With(slog.Uint64("job_id", uint64(job.ID)), slog.String("type", string(job.Type)))
	logger.Info("claimed job")

	started := time.Now()
	if err := w.processorFor(job.Type).ProcessJob(ctx, job); err != nil {
		w.recordFailure(ctx, job, err)
		return true, fmt.Errorf("job %d: %w", job.ID, err)
	}

	logger.Info("completed job", slog.Duration("took", time.Since(started)))
	return true, nil
}

func (w *Worker) recordFailure(ctx context.Context, job *models.Job, runErr error) {
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), failureRecordTimeout)
		defer cancel()
	}

	var err error
	var structured *models.StructuredJobError
	if errors.As(runErr, &structured) {
		err = w.queue.FailJobWithDetails(ctx, job.ID, structured.Type, structured.Code, structured.Message, structured.Details)
	} else {
		err = w.queue.FailJob(ctx, job.ID, runErr)
	}
	if err != nil {
		w.logger.Error("could not record job failure", slog.Uint64("job_id", uint64(job.ID)), logging.Error(err))
	}
}

// WorkerPool runs a fixed number of workers sharing one set of processors.
type WorkerPool struct {
	queue   jobs.Consumer
	workers []*Worker
	logger  *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewWorkerPool creates workerCount workers, at least one.
func NewWorkerPool(queue jobs.Consumer, workerCount int, pollInterval time.Duration, logger *slog.Logger) *WorkerPool {
	workerCount = max(workerCount, 1)
	pool := &WorkerPool{
		queue:   queue,
		workers: make([]*Worker, 0, workerCount),
		logger:  logging.NewComponent(logger, "worker_pool"),
	}
	for i := 1; i <= workerCount; i++ {
		pool.workers = append(pool.workers, NewWorker(fmt.Sprintf("worker-%d", i), queue, pollInterval, logger))
	}
	return pool
}

// RegisterProcessor adds p to every worker.
func (p *WorkerPool) RegisterProcessor(processor JobProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.workers {
		w.RegisterProcessor(processor)
	}
}

// Start puts jobs left processing by a previous process back in the queue,
// then starts the workers.
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return errors.New("worker pool already started")
	}

	recovered, err := p.queue.RecoverStaleJobs(ctx)
	if err != nil {
		return fmt.Errorf("recovering stale jobs: %w", err)
	}
	p.logger.Info("starting worker pool", slog.Int("workers", len(p.workers)), slog.Int64("recovered", recovered))

	for _, w := range p.workers {
		w.Start(ctx)
	}
	p.started = true
	return nil
}

// Stop waits for every worker to finish its current job. It is safe to call
// more than once.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}

	p.logger.Info("stopping worker pool")
	for _, w := range p.workers {
		w.Stop()
	}
	p.started = false
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}
