// Package worker defines worker contracts for asynchronous wardrobe
// ingestion.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/pkg/logger"
	"github.com/okalli/garb/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
// Using the model.IngestJob type for consistency.
type Job = model.IngestJob

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Embedder produces the feature vector stored with each item.
type Embedder interface {
	Item(item model.WardrobeItem) []float32
}

// Store persists normalized wardrobe items.
type Store interface {
	Upsert(ctx context.Context, item model.WardrobeItem) error
}

// Indexer mirrors stored items into the similarity index.
type Indexer interface {
	Add(ctx context.Context, item model.WardrobeItem) error
}

// Worker processes ingestion jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining jobs before stopping.
	Shutdown(ctx context.Context) error
}

// IngestWorker implements Worker for wardrobe submissions.
type IngestWorker struct {
	queue    Queue
	embedder Embedder
	store    Store
	indexer  Indexer
	name     string

	// Called after each successfully ingested item.
	processed func()

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewIngestWorker creates a new worker with configuration options.
func NewIngestWorker(queue Queue, embedder Embedder, store Store, indexer Indexer, opts ...Option) *IngestWorker {
	w := &IngestWorker{
		queue:    queue,
		embedder: embedder,
		store:    store,
		indexer:  indexer,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"), // will be updated by options
	}

	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *IngestWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing submission", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *IngestWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob normalizes, embeds, stores, and indexes a single submission.
// A submission failing normalization is rejected and never retried.
func (w *IngestWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	item, err := model.FromRaw(job.SubmissionID, job.OwnerID, job.Raw, job.EnqueuedAt)
	if err != nil {
		metrics.RecordItemRejected()
		metrics.RecordErrorByComponent("worker", "normalize_error")
		metrics.RecordErrorByType("normalize_error", "low")
		w.logger.Warn(ctx, "rejected wardrobe submission",
			logger.String("submissionID", job.SubmissionID),
			logger.Error(err),
		)
		return nil
	}

	embedStart := time.Now()
	item.Embedding = w.embedder.Item(item)
	metrics.RecordEmbeddingLatency(float64(time.Since(embedStart).Milliseconds()))

	if err := w.store.Upsert(ctx, item); err != nil {
		metrics.RecordIngestError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		w.logger.Error(ctx, "storing wardrobe item failed",
			logger.String("itemID", item.ID),
			logger.Error(err),
		)
		return fmt.Errorf("store item %s: %w", item.ID, err)
	}

	if err := w.indexer.Add(ctx, item); err != nil {
		metrics.RecordIngestError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "index_error")
		metrics.RecordErrorByType("index_error", "medium")
		w.logger.Error(ctx, "indexing wardrobe item failed",
			logger.String("itemID", item.ID),
			logger.Error(err),
		)
		return fmt.Errorf("index item %s: %w", item.ID, err)
	}

	metrics.RecordItemIngested()
	if w.processed != nil {
		w.processed()
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*IngestWorker
	queue    Queue
	embedder Embedder
	store    Store
	indexer  Indexer

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once

	// Metrics tracking
	processed         atomic.Int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, embedder Embedder, store Store, indexer Indexer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*IngestWorker, workerCount),
		queue:             queue,
		embedder:          embedder,
		store:             store,
		indexer:           indexer,
		shutdown:          make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewIngestWorker(
			queue,
			embedder,
			store,
			indexer,
			WithName("worker-"+strconv.Itoa(i)),
			WithProcessedHook(func() { pool.processed.Add(1) }),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	// Start metrics updater
	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	elapsed := now.Sub(p.lastProcessedTime).Seconds()
	if elapsed > 0 {
		metrics.UpdateWorkerMessagesPerSecond(float64(p.processed.Swap(0)) / elapsed)
	}
	p.lastProcessedTime = now
}

// signalShutdown stops the metrics updater and every worker. Safe to
// call more than once.
func (p *Pool) signalShutdown() {
	p.shutdownOnce.Do(func() {
		close(p.shutdown)
		for _, worker := range p.workers {
			close(worker.shutdown)
		}
	})
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	p.signalShutdown()

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	p.signalShutdown()

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
