package engine

import (
	"time"

	"github.com/okalli/garb/internal/domain/outfit"
	"github.com/okalli/garb/internal/domain/retrieval"
	"github.com/okalli/garb/internal/domain/scoring"
	"github.com/okalli/garb/internal/domain/synthesis"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSynthesizer sets the context synthesis stage.
func WithSynthesizer(s *synthesis.Synthesizer) Option {
	return func(e *Engine) {
		if s != nil {
			e.synthesizer = s
		}
	}
}

// WithRetriever sets the similarity retrieval stage.
func WithRetriever(r *retrieval.Retriever) Option {
	return func(e *Engine) {
		if r != nil {
			e.retriever = r
		}
	}
}

// WithBuilder sets the outfit construction stage.
func WithBuilder(b *outfit.Builder) Option {
	return func(e *Engine) {
		if b != nil {
			e.builder = b
		}
	}
}

// WithScorer sets the ranking stage.
func WithScorer(s scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithRetrievalK sets how many candidates retrieval keeps per category.
func WithRetrievalK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.retrievalK = k
		}
	}
}

// WithMaxOutfits sets the default number of outfits per response.
func WithMaxOutfits(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxOutfits = n
		}
	}
}

// WithBuildTimeout bounds the wall-clock time spent enumerating outfits.
func WithBuildTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.buildTimeout = d
		}
	}
}
