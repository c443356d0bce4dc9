// Package scoring defines the contract for ranking assembled outfits.
package scoring

import (
	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
)

// Default scoring weights. Harmony carries the most signal; diversity
// only separates otherwise similar responses.
const (
	defaultHarmonyWeight   = 0.5
	defaultContextWeight   = 0.3
	defaultDiversityWeight = 0.2
)

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithWeights sets the three sub-score weights. Negative values or an
// all-zero set are ignored. Weights are normalized at scoring time, so
// any positive scale works.
func WithWeights(harmony, contextFit, diversity float64) Option {
	return func(s *WeightedScorer) {
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

// Scorer ranks outfit candidates against a directive.
type Scorer interface {
	// Score returns the candidates as a ranked sequence, best first.
	Score(directive model.ContextDirective, outfits []model.OutfitCandidate) []model.ScoredOutfit
}

// WeightedScorer implements Scorer with a weighted blend of color
// harmony, context fit, and cross-outfit diversity.
type WeightedScorer struct {
	harmonyWeight   float64
	contextWeight   float64
	diversityWeight float64
}

// NewWeightedScorer creates a scorer with configuration options.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{
		harmonyWeight:   defaultHarmonyWeight,
		contextWeight:   defaultContextWeight,
		diversityWeight: defaultDiversityWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score ranks outfits greedily: each position takes the candidate with
// the highest combined score given the outfits already placed, so the
// diversity penalty reflects the response the caller actually sees.
// Ties go to the lower construction order.
func (s *WeightedScorer) Score(directive model.ContextDirective, outfits []model.OutfitCandidate) []model.ScoredOutfit {
	if len(outfits) == 0 {
		return nil
	}
	weightSum := s.harmonyWeight + s.contextWeight + s.diversityWeight

	type prescored struct {
		outfit     model.OutfitCandidate
		harmony    float64
		rule       taxonomy.HarmonyRule
		contextFit float64
	}
	remaining := make([]prescored, len(outfits))
	for i, o := range outfits {
		rule, harmony := taxonomy.EvaluateHarmony(o.Colors())
		remaining[i] = prescored{
			outfit:     o,
			harmony:    harmony,
			rule:       rule,
			contextFit: contextFit(directive, o),
		}
	}

	ranked := make([]model.ScoredOutfit, 0, len(remaining))
	var placed []model.OutfitCandidate
	for len(remaining) > 0 {
		bestIdx := -1
		var best model.ScoredOutfit
		for i, p := range remaining {
			diversity := diversityScore(p.outfit, placed)
			combined := (p.harmony*s.harmonyWeight + p.contextFit*s.contextWeight + diversity*s.diversityWeight) / weightSum
			candidate := model.ScoredOutfit{
				Outfit:      p.outfit,
				Harmony:     p.harmony,
				HarmonyRule: p.rule,
				ContextFit:  p.contextFit,
				Diversity:   diversity,
				Score:       combined,
			}
			if bestIdx < 0 || candidate.Score > best.Score ||
				(candidate.Score == best.Score && candidate.Outfit.Order < best.Outfit.Order) {
				bestIdx = i
				best = candidate
			}
		}
		ranked = append(ranked, best)
		placed = append(placed, best.Outfit)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return ranked
}

// contextFit measures how much of the outfit's aggregate style and season
// vocabulary the directive's occasions and season cover. Outfits with no
// tags at all cannot fit any context.
func contextFit(directive model.ContextDirective, o model.OutfitCandidate) float64 {
	aggregate := make(map[string]struct{})
	for _, item := range o.Items() {
		for _, style := range item.Styles {
			aggregate[string(style)] = struct{}{}
		}
		for _, season := range item.Seasons {
			aggregate[string(season)] = struct{}{}
		}
	}
	if len(aggregate) == 0 {
		return 0
	}

	reference := make(map[string]struct{}, len(directive.Occasions)+1)
	for _, occasion := range directive.Occasions {
		reference[string(occasion)] = struct{}{}
	}
	if directive.Season != "" {
		reference[string(directive.Season)] = struct{}{}
	}

	matched := 0
	for tag := range aggregate {
		if _, ok := reference[tag]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(aggregate))
}

// diversityScore is 1 minus the largest share of this outfit's items
// already used by an earlier outfit in the response.
func diversityScore(o model.OutfitCandidate, placed []model.OutfitCandidate) float64 {
	if len(placed) == 0 {
		return 1.0
	}
	items := o.ItemIDs()
	if len(items) == 0 {
		return 1.0
	}
	own := make(map[string]struct{}, len(items))
	for _, id := range items {
		own[id] = struct{}{}
	}

	worst := 0.0
	for _, prior := range placed {
		shared := 0
		for _, id := range prior.ItemIDs() {
			if _, ok := own[id]; ok {
				shared++
			}
		}
		if share := float64(shared) / float64(len(items)); share > worst {
			worst = share
		}
	}
	return 1.0 - worst
}
