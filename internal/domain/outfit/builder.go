// Package outfit assembles complete outfit candidates from per-category
// candidate pools. Enumeration is bounded and deterministic: the most
// relevant items are tried first and the search never runs unbounded.
package outfit

import (
	"context"

	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
)

// Enumeration defaults.
const (
	DefaultMaxOutfits      = 3
	DefaultBranchingFactor = 4
	DefaultMaxAccessories  = 2
)

// Builder enumerates outfit combinations under configured bounds.
type Builder struct {
	branchingFactor int
	maxAccessories  int
}

// New creates a Builder with the given options.
func New(opts ...Option) *Builder {
	b := &Builder{
		branchingFactor: DefaultBranchingFactor,
		maxAccessories:  DefaultMaxAccessories,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// family is one way of covering the mandated slots: separates use a top
// and a bottom, one-piece outfits use a dress for both.
type family struct {
	categories []taxonomy.Category
}

// Build assembles up to maxOutfits complete outfits. Eligibility is the
// filtered pool's; the retrieved pool only orders each category so more
// relevant items are tried first. Enumeration stops at maxOutfits, at the
// attempt bound, or at ctx's deadline, whichever comes first; stopping
// early with fewer outfits than requested marks the result truncated.
func (b *Builder) Build(
	ctx context.Context,
	directive model.ContextDirective,
	filtered model.CandidatePool,
	retrieved model.CandidatePool,
	maxOutfits int,
) ([]model.OutfitCandidate, model.Diagnostics) {
	if maxOutfits <= 0 {
		maxOutfits = DefaultMaxOutfits
	}
	var diags model.Diagnostics

	candidates := make(map[taxonomy.Category][]model.WardrobeItem)
	for _, category := range taxonomy.Categories() {
		merged := mergeByRelevance(filtered[category], retrieved[category])
		if len(merged) > b.branchingFactor {
			merged = merged[:b.branchingFactor]
		}
		candidates[category] = merged
	}

	families := viableFamilies(directive, candidates)
	if len(families) == 0 {
		diags.EmptyCategories = missingCategories(directive, candidates)
		return nil, diags
	}

	maxAttempts := maxOutfits * b.branchingFactor
	accessories := candidates[taxonomy.CategoryAccessory]

	var outfits []model.OutfitCandidate
	attempts := 0
	truncated := false

	maxTier := 0
	for _, f := range families {
		if t := maxTierFor(f, candidates); t > maxTier {
			maxTier = t
		}
	}

sweep:
	for tier := 0; tier <= maxTier; tier++ {
		for _, f := range families {
			lengths := make([]int, len(f.categories))
			for i, category := range f.categories {
				lengths[i] = len(candidates[category])
			}
			for _, indexes := range tuplesWithSum(lengths, tier) {
				if ctx.Err() != nil || attempts >= maxAttempts {
					truncated = len(outfits) < maxOutfits
					break sweep
				}
				attempts++

				slots := make(map[model.Slot]model.WardrobeItem, len(f.categories))
				for i, category := range f.categories {
					item := candidates[category][indexes[i]]
					slots[model.SlotForCategory(category)] = item
				}
				candidate := model.OutfitCandidate{Slots: slots, Order: len(outfits)}
				candidate.Accessories = b.pickAccessories(directive, candidate, accessories)
				outfits = append(outfits, candidate)

				if len(outfits) >= maxOutfits {
					break sweep
				}
			}
		}
	}

	diags.Truncated = truncated
	diags.Combinations = attempts
	return outfits, diags
}

// pickAccessories attaches up to the configured number of accessories
// whose colors sit well with the outfit and the day's palette.
func (b *Builder) pickAccessories(directive model.ContextDirective, candidate model.OutfitCandidate, accessories []model.WardrobeItem) []model.WardrobeItem {
	if b.maxAccessories == 0 || len(accessories) == 0 {
		return nil
	}
	base := candidate.Colors()
	var picked []model.WardrobeItem
	for _, accessory := range accessories {
		if len(picked) >= b.maxAccessories {
			break
		}
		if taxonomy.AccentCompatible(accessory.Colors, base, directive.Palette) {
			picked = append(picked, accessory)
		}
	}
	return picked
}

// viableFamilies returns the slot families every mandated category of
// which has at least one candidate. Separates come before one-pieces so
// tied enumeration tiers favor the conventional cover.
func viableFamilies(directive model.ContextDirective, candidates map[taxonomy.Category][]model.WardrobeItem) []family {
	separates := []taxonomy.Category{taxonomy.CategoryTop, taxonomy.CategoryBottom, taxonomy.CategoryFootwear}
	onePiece := []taxonomy.Category{taxonomy.CategoryDress, taxonomy.CategoryFootwear}
	if directive.NeedsOuterwear {
		separates = append(separates, taxonomy.CategoryOuterwear)
		onePiece = append(onePiece, taxonomy.CategoryOuterwear)
	}

	var families []family
	for _, categories := range [][]taxonomy.Category{separates, onePiece} {
		viable := true
		for _, category := range categories {
			if len(candidates[category]) == 0 {
				viable = false
				break
			}
		}
		if viable {
			families = append(families, family{categories: categories})
		}
	}
	return families
}

// missingCategories lists the mandated categories with no candidates, in
// slot order, counting the top+bottom pair and the dress track as both
// missing only when neither can cover the torso.
func missingCategories(directive model.ContextDirective, candidates map[taxonomy.Category][]model.WardrobeItem) []taxonomy.Category {
	var missing []taxonomy.Category
	torsoCovered := (len(candidates[taxonomy.CategoryTop]) > 0 && len(candidates[taxonomy.CategoryBottom]) > 0) ||
		len(candidates[taxonomy.CategoryDress]) > 0
	if !torsoCovered {
		for _, category := range []taxonomy.Category{taxonomy.CategoryTop, taxonomy.CategoryBottom, taxonomy.CategoryDress} {
			if len(candidates[category]) == 0 {
				missing = append(missing, category)
			}
		}
	}
	if len(candidates[taxonomy.CategoryFootwear]) == 0 {
		missing = append(missing, taxonomy.CategoryFootwear)
	}
	if directive.NeedsOuterwear && len(candidates[taxonomy.CategoryOuterwear]) == 0 {
		missing = append(missing, taxonomy.CategoryOuterwear)
	}
	return missing
}

// maxTierFor returns the largest index sum reachable for a family.
func maxTierFor(f family, candidates map[taxonomy.Category][]model.WardrobeItem) int {
	tier := 0
	for _, category := range f.categories {
		tier += len(candidates[category]) - 1
	}
	return tier
}

// mergeByRelevance orders a category's eligible items: retrieval-ranked
// ones first, then the rest of the eligible pool in stable order. Items
// only the retriever liked are dropped; eligibility always wins.
func mergeByRelevance(eligible, ranked []model.WardrobeItem) []model.WardrobeItem {
	if len(eligible) == 0 {
		return nil
	}
	eligibleIDs := make(map[string]struct{}, len(eligible))
	for _, item := range eligible {
		eligibleIDs[item.ID] = struct{}{}
	}

	merged := make([]model.WardrobeItem, 0, len(eligible))
	taken := make(map[string]struct{}, len(eligible))
	for _, item := range ranked {
		if _, ok := eligibleIDs[item.ID]; !ok {
			continue
		}
		if _, dup := taken[item.ID]; dup {
			continue
		}
		taken[item.ID] = struct{}{}
		merged = append(merged, item)
	}
	for _, item := range eligible {
		if _, dup := taken[item.ID]; dup {
			continue
		}
		taken[item.ID] = struct{}{}
		merged = append(merged, item)
	}
	return merged
}

// tuplesWithSum enumerates index tuples over the given list lengths whose
// indexes add up to sum, in lexicographic order.
func tuplesWithSum(lengths []int, sum int) [][]int {
	var out [][]int
	scratch := make([]int, len(lengths))

	var recurse func(pos, remaining int)
	recurse = func(pos, remaining int) {
		if pos == len(lengths) {
			if remaining == 0 {
				tuple := make([]int, len(scratch))
				copy(tuple, scratch)
				out = append(out, tuple)
			}
			return
		}
		limit := lengths[pos] - 1
		if limit > remaining {
			limit = remaining
		}
		for i := 0; i <= limit; i++ {
			scratch[pos] = i
			recurse(pos+1, remaining-i)
		}
	}
	recurse(0, sum)
	return out
}
