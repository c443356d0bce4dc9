package model

import (
	"github.com/okalli/garb/internal/domain/taxonomy"
)

// Slot is a position in an outfit filled by exactly one item.
type Slot string

// Outfit slots. The accessory slot may repeat up to a configured maximum.
const (
	SlotTop       Slot = "top"
	SlotBottom    Slot = "bottom"
	SlotDress     Slot = "dress"
	SlotFootwear  Slot = "footwear"
	SlotOuterwear Slot = "outerwear"
	SlotAccessory Slot = "accessory"
)

// slotOrder fixes the presentation order of filled slots.
var slotOrder = []Slot{SlotTop, SlotBottom, SlotDress, SlotFootwear, SlotOuterwear}

// SlotForCategory maps a garment category onto the slot it occupies.
func SlotForCategory(c taxonomy.Category) Slot {
	switch c {
	case taxonomy.CategoryTop:
		return SlotTop
	case taxonomy.CategoryBottom:
		return SlotBottom
	case taxonomy.CategoryDress:
		return SlotDress
	case taxonomy.CategoryFootwear:
		return SlotFootwear
	case taxonomy.CategoryOuterwear:
		return SlotOuterwear
	default:
		return SlotAccessory
	}
}

// CandidatePool maps categories to eligible items. Order within a category
// is meaningful: retrieval pools are ordered by relevance, filter pools by
// stable input order.
type CandidatePool map[taxonomy.Category][]WardrobeItem

// Count returns the number of items in the given category.
func (p CandidatePool) Count(c taxonomy.Category) int {
	return len(p[c])
}

// Total returns the number of items across all categories.
func (p CandidatePool) Total() int {
	total := 0
	for _, items := range p {
		total += len(items)
	}
	return total
}

// OutfitCandidate is a complete outfit assembled by the builder.
// Accessories ride alongside the slot map because their slot repeats.
type OutfitCandidate struct {
	Slots       map[Slot]WardrobeItem
	Accessories []WardrobeItem
	Order       int // construction order, used for deterministic tie-breaks
}

// Items returns the outfit's items in stable slot order, accessories last.
func (o OutfitCandidate) Items() []WardrobeItem {
	items := make([]WardrobeItem, 0, len(o.Slots)+len(o.Accessories))
	for _, slot := range slotOrder {
		if item, ok := o.Slots[slot]; ok {
			items = append(items, item)
		}
	}
	items = append(items, o.Accessories...)
	return items
}

// ItemIDs returns the ids of all items in stable slot order.
func (o OutfitCandidate) ItemIDs() []string {
	items := o.Items()
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// Colors concatenates the colors of all items in stable slot order,
// primary color first within each item.
func (o OutfitCandidate) Colors() []taxonomy.Color {
	var colors []taxonomy.Color
	for _, item := range o.Items() {
		colors = append(colors, item.Colors...)
	}
	return colors
}

// ScoredOutfit pairs an assembled outfit with its score record.
type ScoredOutfit struct {
	Outfit      OutfitCandidate
	Harmony     float64
	HarmonyRule taxonomy.HarmonyRule
	ContextFit  float64
	Diversity   float64
	Score       float64 // weighted blend used for the final ranking
}

// ItemIssue records a wardrobe item excluded from a request and why.
type ItemIssue struct {
	ItemID string
	Reason string
}

// Diagnostics accumulates the non-fatal findings of one recommendation
// request so callers can explain thin or empty results.
type Diagnostics struct {
	Malformed       []ItemIssue         // items dropped before filtering
	Removed         []ItemIssue         // items removed by eligibility rules
	EmptyCategories []taxonomy.Category // mandated categories left without candidates
	Truncated       bool                // builder stopped at its bound or deadline
	Combinations    int                 // combinations examined by the builder
}
