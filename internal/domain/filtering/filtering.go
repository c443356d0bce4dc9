// Package filtering applies the hard eligibility rules that decide which
// wardrobe items may appear in an outfit at all. Relevance ranking is the
// retriever's job; this package only removes, never reorders.
package filtering

import (
	"fmt"

	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
)

// Filter removes items that are ineligible under the directive and groups
// the survivors by category in stable input order. Every removal is
// returned with its reason so callers can explain thin results.
func Filter(directive model.ContextDirective, wardrobe []model.WardrobeItem) (model.CandidatePool, []model.ItemIssue) {
	pool := make(model.CandidatePool)
	var removed []model.ItemIssue
	band := directive.FormalityBand()

	for _, item := range wardrobe {
		if reason := eligibility(directive, band, item); reason != "" {
			removed = append(removed, model.ItemIssue{ItemID: item.ID, Reason: reason})
			continue
		}
		pool[item.Category] = append(pool[item.Category], item)
	}

	removed = append(removed, narrowToStyleBias(directive, pool)...)
	return pool, removed
}

// eligibility returns the first failed rule's reason, or empty when the
// item is eligible.
func eligibility(directive model.ContextDirective, band taxonomy.FormalityBand, item model.WardrobeItem) string {
	if !item.WearableIn(directive.Season) {
		return fmt.Sprintf("not wearable in %s", directive.Season)
	}
	if !band.Contains(item.Formality) {
		return fmt.Sprintf("formality %d outside band %d..%d", item.Formality, band.Min, band.Max)
	}
	if directive.NeedsOuterwear && item.Warmth == 0 &&
		(item.Category == taxonomy.CategoryTop || item.Category == taxonomy.CategoryOuterwear) {
		return "too light for the weather"
	}
	if directive.NeedsRainFootwear && item.Category == taxonomy.CategoryFootwear && !item.RainReady() {
		return "not suitable for precipitation"
	}
	return ""
}

// narrowToStyleBias restricts each category to items matching the mood's
// style bias, but only where at least one item matches. A category with
// no matching item keeps its full pool; emptying a category over a soft
// preference would block otherwise dressable days.
func narrowToStyleBias(directive model.ContextDirective, pool model.CandidatePool) []model.ItemIssue {
	if len(directive.StyleBias) == 0 {
		return nil
	}
	var removed []model.ItemIssue
	for category, items := range pool {
		var matching []model.WardrobeItem
		for _, item := range items {
			if matchesBias(item, directive.StyleBias) {
				matching = append(matching, item)
			}
		}
		if len(matching) == 0 || len(matching) == len(items) {
			continue
		}
		for _, item := range items {
			if !matchesBias(item, directive.StyleBias) {
				removed = append(removed, model.ItemIssue{ItemID: item.ID, Reason: "style tags do not match mood"})
			}
		}
		pool[category] = matching
	}
	return removed
}

func matchesBias(item model.WardrobeItem, bias []taxonomy.Style) bool {
	for _, style := range bias {
		if item.HasStyle(style) {
			return true
		}
	}
	return false
}
