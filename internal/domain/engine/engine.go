// Package engine composes the recommendation pipeline: context
// synthesis, candidate filtering and retrieval, outfit construction,
// and scoring. The engine holds no mutable state; every invocation
// works on its own directive and wardrobe snapshot.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/okalli/garb/internal/domain/filtering"
	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/outfit"
	"github.com/okalli/garb/internal/domain/retrieval"
	"github.com/okalli/garb/internal/domain/scoring"
	"github.com/okalli/garb/internal/domain/synthesis"
	"github.com/okalli/garb/internal/domain/taxonomy"
	"github.com/okalli/garb/pkg/metrics"
)

// DefaultBuildTimeout bounds outfit enumeration per request.
const DefaultBuildTimeout = 200 * time.Millisecond

// Warning codes attached to results.
const (
	WarnEmptyCandidatePool  = "empty_candidate_pool"
	WarnConstructionTimeout = "construction_timeout"
)

// Warning is a non-fatal condition observed while answering a request.
type Warning struct {
	Code    string
	Message string
}

// Request carries one recommendation invocation: the day being dressed
// for and the owner's wardrobe snapshot.
type Request struct {
	Date       time.Time
	Location   string
	Mood       string
	Events     []model.CalendarEvent
	Forecast   *model.WeatherForecast
	Wardrobe   []model.WardrobeItem
	MaxOutfits int // 0 uses the engine default
}

// Result is a ranked recommendation together with its paper trail.
type Result struct {
	Directive   model.ContextDirective
	Outfits     []model.ScoredOutfit
	Warnings    []Warning
	Diagnostics model.Diagnostics
}

// Engine runs the full pipeline over immutable inputs.
type Engine struct {
	synthesizer  *synthesis.Synthesizer
	retriever    *retrieval.Retriever
	builder      *outfit.Builder
	scorer       scoring.Scorer
	retrievalK   int
	maxOutfits   int
	buildTimeout time.Duration
}

// New constructs an engine with configuration options. Stages not
// supplied explicitly use their package defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		retrievalK:   retrieval.DefaultTopK,
		maxOutfits:   outfit.DefaultMaxOutfits,
		buildTimeout: DefaultBuildTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.synthesizer == nil {
		e.synthesizer = synthesis.New()
	}
	if e.retriever == nil {
		e.retriever = retrieval.New(nil)
	}
	if e.builder == nil {
		e.builder = outfit.New()
	}
	if e.scorer == nil {
		e.scorer = scoring.NewWeightedScorer()
	}
	return e
}

// Synthesize runs only the context stage, so callers can preview the
// directive a request would dress for.
func (e *Engine) Synthesize(ctx context.Context, req Request) (model.ContextDirective, error) {
	directive, err := e.synthesizer.Synthesize(req.Date, req.Location, req.Events, req.Forecast, req.Mood)
	if err != nil {
		metrics.RecordSynthesisError()
		return model.ContextDirective{}, err
	}
	return directive, nil
}

// Recommend runs the pipeline end to end. Synthesis failure is the only
// error path; empty pools and truncated enumeration come back as
// warnings on the result.
func (e *Engine) Recommend(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	stageStart := time.Now()
	directive, err := e.synthesizer.Synthesize(req.Date, req.Location, req.Events, req.Forecast, req.Mood)
	if err != nil {
		metrics.RecordSynthesisError()
		return Result{}, err
	}
	metrics.RecordStageLatency("synthesis", float64(time.Since(stageStart).Milliseconds()))

	var diags model.Diagnostics
	wearable := make([]model.WardrobeItem, 0, len(req.Wardrobe))
	for _, item := range req.Wardrobe {
		if err := item.Validate(); err != nil {
			diags.Malformed = append(diags.Malformed, model.ItemIssue{ItemID: item.ID, Reason: err.Error()})
			continue
		}
		wearable = append(wearable, item)
	}

	stageStart = time.Now()
	filtered, removed := filtering.Filter(directive, wearable)
	diags.Removed = removed
	metrics.RecordStageLatency("filtering", float64(time.Since(stageStart).Milliseconds()))

	stageStart = time.Now()
	retrieved := e.retriever.Retrieve(directive, wearable, e.retrievalK)
	metrics.RecordStageLatency("retrieval", float64(time.Since(stageStart).Milliseconds()))

	maxOutfits := req.MaxOutfits
	if maxOutfits <= 0 {
		maxOutfits = e.maxOutfits
	}

	buildCtx, cancel := context.WithTimeout(ctx, e.buildTimeout)
	defer cancel()

	stageStart = time.Now()
	candidates, buildDiags := e.builder.Build(buildCtx, directive, filtered, retrieved, maxOutfits)
	metrics.RecordStageLatency("build", float64(time.Since(stageStart).Milliseconds()))
	diags.EmptyCategories = buildDiags.EmptyCategories
	diags.Truncated = buildDiags.Truncated
	diags.Combinations = buildDiags.Combinations

	stageStart = time.Now()
	scored := e.scorer.Score(directive, candidates)
	metrics.RecordStageLatency("scoring", float64(time.Since(stageStart).Milliseconds()))

	result := Result{
		Directive:   directive,
		Outfits:     scored,
		Diagnostics: diags,
	}
	if len(diags.EmptyCategories) > 0 {
		metrics.RecordEmptyPool()
		result.Warnings = append(result.Warnings, Warning{
			Code:    WarnEmptyCandidatePool,
			Message: "no eligible items for: " + joinCategories(diags.EmptyCategories),
		})
	}
	if diags.Truncated {
		metrics.RecordTruncatedBuild()
		result.Warnings = append(result.Warnings, Warning{
			Code:    WarnConstructionTimeout,
			Message: "outfit enumeration stopped early; returning the outfits found so far",
		})
	}

	metrics.RecordRecommendationServed()
	metrics.RecordOutfitsAssembled(len(scored))
	metrics.RecordRecommendLatency(float64(time.Since(start).Milliseconds()))
	return result, nil
}

func joinCategories(categories []taxonomy.Category) string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
