// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	ingestqueue "github.com/okalli/garb/internal/adapters/mq/queue"
	workerpool "github.com/okalli/garb/internal/adapters/mq/worker"
	"github.com/okalli/garb/internal/adapters/repository"
	"github.com/okalli/garb/internal/adapters/vectorindex"
	"github.com/okalli/garb/internal/domain/dedupe"
	"github.com/okalli/garb/internal/domain/embedding"
	"github.com/okalli/garb/internal/domain/engine"
	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/outfit"
	"github.com/okalli/garb/internal/domain/retrieval"
	"github.com/okalli/garb/internal/domain/scoring"
	"github.com/okalli/garb/internal/domain/synthesis"
	"github.com/okalli/garb/internal/domain/taxonomy"
	"github.com/okalli/garb/internal/domain/types"
	"github.com/okalli/garb/pkg/logger"
	"github.com/okalli/garb/pkg/metrics"
)

// ErrQueueFull reports that the ingestion queue rejected a submission.
var ErrQueueFull = errors.New("ingestion queue full")

// statsRefreshInterval paces the background gauge updates.
const statsRefreshInterval = 30 * time.Second

// Service implements the API dependencies for the outfit recommender.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	index    vectorindex.Index
	queue    ingestqueue.Queue
	pool     *workerpool.Pool
	deduper  dedupe.Deduper
	embedder *embedding.Embedder
	engine   *engine.Engine

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	storePath       string
	indexPath       string
	embeddingDim    int
	retrievalK      int
	maxOutfits      int
	branchingFactor int
	maxAccessories  int
	harmonyWeight   float64
	contextWeight   float64
	diversityWeight float64
	outerwearBelowC float64
	rainThreshold   float64
	windyAboveKPH   float64
	buildTimeout    time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       10_000,
		dedupeSize:      50_000,
		storePath:       "garb.db",
		indexPath:       "",
		embeddingDim:    embedding.DefaultDimension,
		retrievalK:      retrieval.DefaultTopK,
		maxOutfits:      outfit.DefaultMaxOutfits,
		branchingFactor: outfit.DefaultBranchingFactor,
		maxAccessories:  outfit.DefaultMaxAccessories,
		harmonyWeight:   0.5,
		contextWeight:   0.3,
		diversityWeight: 0.2,
		outerwearBelowC: synthesis.DefaultOuterwearBelowC,
		rainThreshold:   synthesis.DefaultRainThreshold,
		windyAboveKPH:   synthesis.DefaultWindyAboveKPH,
		buildTimeout:    engine.DefaultBuildTimeout,
		stopCh:          make(chan struct{}),
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting wardrobe service...")

	s.embedder = embedding.New(embedding.WithDimension(s.embeddingDim))

	store, err := repository.NewSQLiteStore(repository.WithPath(s.storePath))
	if err != nil {
		return fmt.Errorf("opening wardrobe store: %w", err)
	}
	s.store = store

	index, err := vectorindex.NewChromemIndex(s.embedder, vectorindex.WithPath(s.indexPath))
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	s.index = index

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = ingestqueue.NewInMemoryQueue(
		ingestqueue.WithCapacity(s.queueSize),
		ingestqueue.WithBufferSize(s.queueSize),
	)
	s.engine = engine.New(
		engine.WithSynthesizer(synthesis.New(
			synthesis.WithOuterwearBelow(s.outerwearBelowC),
			synthesis.WithRainThreshold(s.rainThreshold),
			synthesis.WithWindyAbove(s.windyAboveKPH),
		)),
		engine.WithRetriever(retrieval.New(s.embedder)),
		engine.WithBuilder(outfit.New(
			outfit.WithBranchingFactor(s.branchingFactor),
			outfit.WithMaxAccessories(s.maxAccessories),
		)),
		engine.WithScorer(scoring.NewWeightedScorer(
			scoring.WithWeights(s.harmonyWeight, s.contextWeight, s.diversityWeight),
		)),
		engine.WithRetrievalK(s.retrievalK),
		engine.WithMaxOutfits(s.maxOutfits),
		engine.WithBuildTimeout(s.buildTimeout),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.embedder, s.store, s.index)
	s.pool.Start(ctx)

	// Recreated per start so a restarted service gets a live stats loop.
	s.stopCh = make(chan struct{})
	go s.refreshStats(ctx, s.stopCh, s.store, s.index)

	s.started = true
	s.logger.Info(ctx, "wardrobe service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("storePath", s.storePath),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping wardrobe service...")

	// Signal the stats loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	// Stop worker pool so no ingestion is in flight when the store closes
	if s.pool != nil {
		s.pool.Stop()
	}

	// Close queue
	if s.queue != nil {
		_ = s.queue.Close()
	}

	// Close wardrobe store
	if s.store != nil {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "wardrobe service stopped")
}

// SeenAndRecord atomically checks if a submission id was seen and records
// it if not. Returns true if the submission was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordItemDuplicate()
	}
	return seen
}

// Unrecord removes a submission id from the seen list, allowing it to be
// retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// SubmitItems queues a batch of raw wardrobe submissions for asynchronous
// ingestion. Submissions whose id was already seen are acknowledged as
// duplicates without re-queueing. On backpressure the failing submission
// is unrecorded and ErrQueueFull returned with the acks issued so far.
func (s *Service) SubmitItems(ctx context.Context, ownerID string, subs []types.Submission) ([]types.SubmissionAck, error) {
	acks := make([]types.SubmissionAck, 0, len(subs))
	for _, sub := range subs {
		id := sub.SubmissionID
		if id == "" {
			id = uuid.NewString()
		}

		if s.SeenAndRecord(ctx, id) {
			s.logger.Debug(ctx, "duplicate submission skipped",
				logger.String("submissionID", id),
				logger.String("ownerID", ownerID),
			)
			acks = append(acks, types.SubmissionAck{SubmissionID: id, Status: types.StatusDuplicate})
			continue
		}

		job := model.IngestJob{
			SubmissionID: id,
			OwnerID:      ownerID,
			Raw:          sub.Raw,
			EnqueuedAt:   time.Now(),
		}
		if !s.queue.Enqueue(ctx, job) {
			s.Unrecord(ctx, id)
			return acks, fmt.Errorf("%w: submission %s", ErrQueueFull, id)
		}
		acks = append(acks, types.SubmissionAck{SubmissionID: id, Status: types.StatusQueued})
	}
	return acks, nil
}

// Recommend answers one recommendation request using the owner's current
// wardrobe.
func (s *Service) Recommend(ctx context.Context, q types.OutfitQuery) (types.Recommendation, error) {
	wardrobe, err := s.store.QueryByFilters(ctx, q.OwnerID, repository.Filters{})
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("loading wardrobe for %s: %w", q.OwnerID, err)
	}

	result, err := s.engine.Recommend(ctx, engine.Request{
		Date:       q.Date,
		Location:   q.Location,
		Mood:       q.Mood,
		Events:     q.Events,
		Forecast:   q.Forecast,
		Wardrobe:   wardrobe,
		MaxOutfits: q.MaxOutfits,
	})
	if err != nil {
		return types.Recommendation{}, err
	}
	return recommendationView(result), nil
}

// PreviewContext runs only context synthesis so callers can inspect the
// directive a request would dress for.
func (s *Service) PreviewContext(ctx context.Context, q types.OutfitQuery) (types.DayContext, error) {
	directive, err := s.engine.Synthesize(ctx, engine.Request{
		Date:     q.Date,
		Location: q.Location,
		Mood:     q.Mood,
		Events:   q.Events,
		Forecast: q.Forecast,
	})
	if err != nil {
		return types.DayContext{}, err
	}
	return contextView(directive), nil
}

// ListItems returns an owner's stored items, optionally narrowed to one
// category.
func (s *Service) ListItems(ctx context.Context, ownerID string, category taxonomy.Category, limit int) ([]types.Item, error) {
	items, err := s.store.QueryByFilters(ctx, ownerID, repository.Filters{Category: category, Limit: limit})
	if err != nil {
		return nil, err
	}

	views := make([]types.Item, len(items))
	for i, item := range items {
		views[i] = itemView(item)
	}
	return views, nil
}

// GetItem returns a single stored item.
func (s *Service) GetItem(ctx context.Context, ownerID, id string) (types.Item, error) {
	item, err := s.store.QueryByID(ctx, ownerID, id)
	if err != nil {
		return types.Item{}, err
	}
	return itemView(item), nil
}

// DeleteItem removes an item from the store and the vector index.
func (s *Service) DeleteItem(ctx context.Context, ownerID, id string) error {
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.index.Remove(ctx, ownerID, id); err != nil {
		s.logger.Warn(ctx, "failed to remove item from index",
			logger.String("itemID", id),
			logger.Error(err),
		)
	}
	return nil
}

// Search finds the owner's stored items most similar to a free-text
// query.
func (s *Service) Search(ctx context.Context, ownerID, query string, k int) ([]types.SearchMatch, error) {
	matches, err := s.index.Search(ctx, ownerID, query, k, "")
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchMatch, 0, len(matches))
	for _, m := range matches {
		item, err := s.store.QueryByID(ctx, ownerID, m.ID)
		if err != nil {
			// The index can run ahead of the store during deletes.
			continue
		}
		results = append(results, types.SearchMatch{Item: itemView(item), Score: m.Score})
	}
	return results, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		itemCount := s.store.Count(ctx)
		indexDocs := s.index.Documents()

		stats["queueLength"] = queueLen
		stats["wardrobeItems"] = itemCount
		stats["indexDocuments"] = indexDocs
		stats["dedupeEntries"] = s.deduper.Size()

		if owners, err := s.store.Owners(ctx); err == nil {
			stats["owners"] = len(owners)
			metrics.UpdateWardrobeOwners(len(owners))
		}

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWardrobeItems(itemCount)
		metrics.UpdateIndexDocuments(indexDocs)
		metrics.UpdateWorkerCount(s.pool.Size())
	}

	return stats
}

// refreshStats keeps the wardrobe gauges current between scrapes. The
// components are passed in so a restart cannot swap them mid-loop.
func (s *Service) refreshStats(ctx context.Context, stopCh <-chan struct{}, store repository.Store, index vectorindex.Index) {
	ticker := time.NewTicker(statsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateWardrobeItems(store.Count(ctx))
			metrics.UpdateIndexDocuments(index.Documents())
			if owners, err := store.Owners(ctx); err == nil {
				metrics.UpdateWardrobeOwners(len(owners))
			}
		}
	}
}
