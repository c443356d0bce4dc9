// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/okalli/garb/internal/domain/taxonomy"
)

// WardrobeItem represents a single garment in an owner's wardrobe.
// Fields mirror the OpenAPI schema for /wardrobe/items.
type WardrobeItem struct {
	ID          string             // unique id, assigned at ingestion
	OwnerID     string             // wardrobe owner
	Category    taxonomy.Category  // canonical category
	Subcategory string             // canonical subcategory within the category
	Colors      []taxonomy.Color   // primary color first
	Materials   []string           // lowercased, free-form
	Styles      []taxonomy.Style   // controlled style tags
	Seasons     []taxonomy.Season  // nil means wearable in any season
	Warmth      int                // 0 (light) to 3 (heavy)
	Formality   int                // 0 (relaxed) to 3 (formal)
	Brand       string
	Fit         string
	ImageURL    string
	SourceURL   string
	Notes       string
	Embedding   []float32 // produced at ingestion
	AddedAt     time.Time
}

// rainPoorMaterials soak through or stain in precipitation.
var rainPoorMaterials = map[string]struct{}{
	"suede":  {},
	"canvas": {},
	"mesh":   {},
}

// defaultWarmth gives a warmth rating when ingestion omits one.
var defaultWarmth = map[string]int{
	"tee":     0,
	"polo":    0,
	"shorts":  0,
	"sandals": 0,
	"sweater": 2,
	"hoodie":  2,
	"boots":   2,
	"coat":    3,
	"puffer":  3,
	"trench":  2,
	"jacket":  2,
}

// defaultFormality gives a formality rating when ingestion omits one.
var defaultFormality = map[string]int{
	"blazer":        2,
	"shirt":         2,
	"hoodie":        0,
	"tee":           0,
	"shorts":        0,
	"chinos":        2,
	"trousers":      2,
	"loafers":       2,
	"heels":         2,
	"sandals":       0,
	"sneakers":      1,
	"coat":          2,
	"trench":        2,
	"evening_dress": 3,
	"jewellery":     2,
}

const fallbackRating = 1

// PrimaryColor returns the item's leading color, or the empty color when
// the item carries none.
func (w WardrobeItem) PrimaryColor() taxonomy.Color {
	if len(w.Colors) == 0 {
		return ""
	}
	return w.Colors[0]
}

// WearableIn reports whether the item suits the given season. Items with
// no season tags are wearable year round.
func (w WardrobeItem) WearableIn(season taxonomy.Season) bool {
	if len(w.Seasons) == 0 {
		return true
	}
	for _, s := range w.Seasons {
		if s == season {
			return true
		}
	}
	return false
}

// HasStyle reports whether the item carries the given style tag.
func (w WardrobeItem) HasStyle(style taxonomy.Style) bool {
	for _, s := range w.Styles {
		if s == style {
			return true
		}
	}
	return false
}

// RainReady reports whether the item can be worn in precipitation. Only
// material composition disqualifies an item.
func (w WardrobeItem) RainReady() bool {
	for _, m := range w.Materials {
		if _, ok := rainPoorMaterials[strings.ToLower(m)]; ok {
			return false
		}
	}
	return true
}

// Validate checks the invariants every stored item must satisfy. Items
// failing validation are excluded from recommendations, never fatal.
func (w WardrobeItem) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("wardrobe item missing id")
	}
	if strings.TrimSpace(w.OwnerID) == "" {
		return fmt.Errorf("wardrobe item %s missing owner", w.ID)
	}
	if _, ok := taxonomy.ParseCategory(string(w.Category)); !ok {
		return fmt.Errorf("wardrobe item %s has unsupported category %q", w.ID, w.Category)
	}
	if w.Subcategory != "" {
		if _, ok := taxonomy.ParseSubcategory(w.Category, w.Subcategory); !ok {
			return fmt.Errorf("wardrobe item %s has subcategory %q outside category %q", w.ID, w.Subcategory, w.Category)
		}
	}
	if w.Warmth < taxonomy.WarmthMin || w.Warmth > taxonomy.WarmthMax {
		return fmt.Errorf("wardrobe item %s warmth %d out of range", w.ID, w.Warmth)
	}
	if w.Formality < taxonomy.FormalityMin || w.Formality > taxonomy.FormalityMax {
		return fmt.Errorf("wardrobe item %s formality %d out of range", w.ID, w.Formality)
	}
	return nil
}

// RawItem is an unvalidated wardrobe submission as received over HTTP.
// Warmth and formality are pointers so that absent and zero are distinct.
type RawItem struct {
	Category    string
	Subcategory string
	Colors      []string
	Materials   []string
	Styles      []string
	Seasons     []string
	Warmth      *int
	Formality   *int
	Brand       string
	Fit         string
	ImageURL    string
	SourceURL   string
	Notes       string
}

// FromRaw normalizes a raw submission into a WardrobeItem. The embedding
// is left empty; ingestion fills it before the item is stored.
func FromRaw(id, ownerID string, raw RawItem, now time.Time) (WardrobeItem, error) {
	category, ok := taxonomy.ParseCategory(raw.Category)
	if !ok {
		return WardrobeItem{}, fmt.Errorf("unsupported category %q", raw.Category)
	}

	subcategory := ""
	if strings.TrimSpace(raw.Subcategory) != "" {
		sub, ok := taxonomy.ParseSubcategory(category, raw.Subcategory)
		if !ok {
			return WardrobeItem{}, fmt.Errorf("unsupported subcategory %q for category %q", raw.Subcategory, category)
		}
		subcategory = sub
	}

	warmth := ratingOrDefault(raw.Warmth, subcategory, defaultWarmth)
	if warmth < taxonomy.WarmthMin || warmth > taxonomy.WarmthMax {
		return WardrobeItem{}, fmt.Errorf("warmth %d out of range", warmth)
	}
	formality := ratingOrDefault(raw.Formality, subcategory, defaultFormality)
	if formality < taxonomy.FormalityMin || formality > taxonomy.FormalityMax {
		return WardrobeItem{}, fmt.Errorf("formality %d out of range", formality)
	}

	var materials []string
	for _, m := range raw.Materials {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			materials = append(materials, m)
		}
	}

	return WardrobeItem{
		ID:          id,
		OwnerID:     ownerID,
		Category:    category,
		Subcategory: subcategory,
		Colors:      taxonomy.NormalizeColors(raw.Colors),
		Materials:   materials,
		Styles:      taxonomy.NormalizeStyles(raw.Styles),
		Seasons:     taxonomy.NormalizeSeasons(raw.Seasons),
		Warmth:      warmth,
		Formality:   formality,
		Brand:       strings.TrimSpace(raw.Brand),
		Fit:         strings.TrimSpace(raw.Fit),
		ImageURL:    strings.TrimSpace(raw.ImageURL),
		SourceURL:   strings.TrimSpace(raw.SourceURL),
		Notes:       strings.TrimSpace(raw.Notes),
		AddedAt:     now,
	}, nil
}

func ratingOrDefault(explicit *int, subcategory string, defaults map[string]int) int {
	if explicit != nil {
		return *explicit
	}
	if v, ok := defaults[subcategory]; ok {
		return v
	}
	return fallbackRating
}
