package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"graphfacade/internal/storage"
)

func TestWorkerPool_ContinuesAfterFailure(t *testing.T) {
	var seen sync.Map
	workerPool := NewWorkerPool(2, func(ctx context.Context, rec *storage.Record) error {
		seen.Store(rec.ID, true)
		if rec.ID == "bad" {
			return errors.New("simulated failure")
		}
		return nil
	})

	workerPool.Start(context.Background())
	for _, id := range []string{"a", "bad", "b", "c"} {
		workerPool.Submit(&storage.Record{ID: id, Kind: storage.KindNode})
	}
	applied, failures := workerPool.Stop()

	if applied != 3 {
		t.Errorf("Expected 3 applied records, got %d", applied)
	}
	if len(failures) != 1 || failures[0].ID != "bad" {
		t.Fatalf("Expected one failure for 'bad', got %v", failures)
	}
	for _, id := range []string{"a", "b", "c"} {
		if _, ok := seen.Load(id); !ok {
			t.Errorf("Record %s was not processed", id)
		}
	}
}

func TestWorkerPool_SkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	workerPool := NewWorkerPool(1, func(ctx context.Context, rec *storage.Record) error {
		calls.Add(1)
		cancel()
		return nil
	})

	workerPool.Start(ctx)
	for range 10 {
		workerPool.Submit(&storage.Record{Kind: storage.KindNode})
	}
	workerPool.Stop()

	if n := calls.Load(); n != 1 {
		t.Errorf("Expected a single call before cancellation, got %d", n)
	}
}

func TestWorkerPool_ClampsWorkers(t *testing.T) {
	workerPool := NewWorkerPool(0, func(ctx context.Context, rec *storage.Record) error { return nil })
	if workerPool.workers != 1 {
		t.Errorf("Expected 1 worker, got %d", workerPool.workers)
	}
}
