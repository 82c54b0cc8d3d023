package ingest

import (
	"context"
	"sync"

	"graphfacade/internal/storage"
)

// Handler applies one record. A returned error is recorded as a failure for
// that record; it does not stop the pool.
type Handler func(ctx context.Context, rec *storage.Record) error

type WorkerPool struct {
	workers int
	handle  Handler
	jobChan chan *storage.Record
	wg      sync.WaitGroup

	mu       sync.Mutex
	failures []Failure
	applied  int
}

func NewWorkerPool(workers int, handle Handler) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		handle:  handle,
		jobChan: make(chan *storage.Record, 100),
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx)
	}
}

func (wp *WorkerPool) worker(ctx context.Context) {
	defer wp.wg.Done()
	for rec := range wp.jobChan {
		// Drain without applying once cancelled.
		if ctx.Err() != nil {
			continue
		}
		err := wp.handle(ctx, rec)

		wp.mu.Lock()
		if err != nil {
			wp.failures = append(wp.failures, newFailure(rec, err))
		} else {
			wp.applied++
		}
		wp.mu.Unlock()
	}
}

func (wp *WorkerPool) Submit(rec *storage.Record) {
	wp.jobChan <- rec
}

// Stop waits for queued records and returns the applied count and failures.
func (wp *WorkerPool) Stop() (int, []Failure) {
	close(wp.jobChan)
	wp.wg.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.applied, wp.failures
}
