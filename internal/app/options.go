package service

import (
	"time"

	"github.com/okalli/garb/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the ingestion queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the submission deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStorePath sets the SQLite database file backing the wardrobe.
func WithStorePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.storePath = path
		}
	}
}

// WithIndexPath sets the directory for the persistent vector index.
// An empty path keeps the index in memory.
func WithIndexPath(path string) Option {
	return func(s *Service) {
		s.indexPath = path
	}
}

// WithEmbeddingDim sets the feature vector length shared by the
// embedder, the store, and the index.
func WithEmbeddingDim(dim int) Option {
	return func(s *Service) {
		if dim > 0 {
			s.embeddingDim = dim
		}
	}
}

// WithRetrievalK sets how many candidates retrieval keeps per category.
func WithRetrievalK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.retrievalK = k
		}
	}
}

// WithMaxOutfits sets the default number of outfits per recommendation.
func WithMaxOutfits(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxOutfits = n
		}
	}
}

// WithBranchingFactor caps per-slot candidates during outfit
// construction.
func WithBranchingFactor(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.branchingFactor = n
		}
	}
}

// WithMaxAccessories caps accessories per outfit. Zero disables them.
func WithMaxAccessories(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxAccessories = n
		}
	}
}

// WithScoringWeights sets the harmony, context fit, and diversity blend.
// Negative values or an all-zero set are ignored.
func WithScoringWeights(harmony, contextFit, diversity float64) Option {
	return func(s *Service) {
		if harmony < 0 || contextFit < 0 || diversity < 0 {
			return
		}
		if harmony+contextFit+diversity == 0 {
			return
		}
		s.harmonyWeight = harmony
		s.contextWeight = contextFit
		s.diversityWeight = diversity
	}
}

// WithSynthesisThresholds sets the outerwear temperature, rain
// probability, and wind speed cutoffs.
func WithSynthesisThresholds(outerwearBelowC, rainThreshold, windyAboveKPH float64) Option {
	return func(s *Service) {
		s.outerwearBelowC = outerwearBelowC
		if rainThreshold > 0 && rainThreshold <= 1 {
			s.rainThreshold = rainThreshold
		}
		if windyAboveKPH > 0 {
			s.windyAboveKPH = windyAboveKPH
		}
	}
}

// WithBuildTimeout bounds wall-clock outfit construction per request.
func WithBuildTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.buildTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
