// Package taxonomy holds the controlled vocabularies and lookup tables
// shared by ingestion, filtering, and scoring.
package taxonomy

import (
	"strings"
	"time"
)

// Category identifies the garment family an item belongs to.
type Category string

// Canonical garment categories.
const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryDress     Category = "dress"
	CategoryFootwear  Category = "footwear"
	CategoryOuterwear Category = "outerwear"
	CategoryAccessory Category = "accessory"
)

// categoryAliases maps common ingestion spellings to canonical categories.
var categoryAliases = map[string]Category{
	"top":         CategoryTop,
	"tops":        CategoryTop,
	"bottom":      CategoryBottom,
	"bottoms":     CategoryBottom,
	"dress":       CategoryDress,
	"one_piece":   CategoryDress,
	"jumpsuit":    CategoryDress,
	"footwear":    CategoryFootwear,
	"shoes":       CategoryFootwear,
	"shoe":        CategoryFootwear,
	"outerwear":   CategoryOuterwear,
	"accessory":   CategoryAccessory,
	"accessories": CategoryAccessory,
}

// subcategories lists the known subcategories per category.
var subcategories = map[Category][]string{
	CategoryTop:       {"blazer", "shirt", "tee", "polo", "sweater", "hoodie"},
	CategoryBottom:    {"jeans", "chinos", "trousers", "skirt", "shorts"},
	CategoryDress:     {"day_dress", "evening_dress", "jumpsuit"},
	CategoryFootwear:  {"sneakers", "boots", "loafers", "heels", "sandals"},
	CategoryOuterwear: {"coat", "jacket", "puffer", "trench"},
	CategoryAccessory: {"belt", "bag", "hat", "scarf", "jewellery"},
}

// Categories returns the canonical categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryTop,
		CategoryBottom,
		CategoryDress,
		CategoryFootwear,
		CategoryOuterwear,
		CategoryAccessory,
	}
}

// ParseCategory normalizes a raw category string. The second return is
// false when the value is not part of the taxonomy.
func ParseCategory(raw string) (Category, bool) {
	c, ok := categoryAliases[normalizeKey(raw)]
	return c, ok
}

// Subcategories lists the known subcategories for a category.
func Subcategories(c Category) []string {
	subs := subcategories[c]
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

// ParseSubcategory validates a subcategory against its category.
func ParseSubcategory(c Category, raw string) (string, bool) {
	key := normalizeKey(raw)
	for _, sub := range subcategories[c] {
		if sub == key {
			return key, true
		}
	}
	return key, false
}

// Style is a controlled style tag.
type Style string

// Canonical style tags.
const (
	StyleCasual   Style = "casual"
	StyleBusiness Style = "business"
	StyleFormal   Style = "formal"
	StyleParty    Style = "party"
	StyleStreet   Style = "street"
	StyleSporty   Style = "sporty"
)

var styleSet = map[Style]struct{}{
	StyleCasual:   {},
	StyleBusiness: {},
	StyleFormal:   {},
	StyleParty:    {},
	StyleStreet:   {},
	StyleSporty:   {},
}

// Styles returns the canonical style tags in a stable order.
func Styles() []Style {
	return []Style{StyleCasual, StyleBusiness, StyleFormal, StyleParty, StyleStreet, StyleSporty}
}

// ParseStyle normalizes a raw style tag.
func ParseStyle(raw string) (Style, bool) {
	s := Style(normalizeKey(raw))
	_, ok := styleSet[s]
	return s, ok
}

// NormalizeStyles normalizes and deduplicates style tags, dropping values
// outside the taxonomy. Input order is preserved.
func NormalizeStyles(raw []string) []Style {
	var out []Style
	seen := make(map[Style]struct{}, len(raw))
	for _, r := range raw {
		s, ok := ParseStyle(r)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Season is a concrete meteorological season.
type Season string

// Canonical seasons.
const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// seasonAliases expands ingestion tags into concrete seasons. An empty
// expansion means the tag lifts all seasonal restriction.
var seasonAliases = map[string][]Season{
	"spring":       {SeasonSpring},
	"summer":       {SeasonSummer},
	"autumn":       {SeasonAutumn},
	"fall":         {SeasonAutumn},
	"winter":       {SeasonWinter},
	"warm_weather": {SeasonSpring, SeasonSummer},
	"cold_weather": {SeasonAutumn, SeasonWinter},
	"all_year":     {},
	"all_season":   {},
}

// Seasons returns the canonical seasons in calendar order.
func Seasons() []Season {
	return []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}
}

// NormalizeSeasons expands raw season tags into canonical seasons. A nil
// result means the item is wearable in any season, either because no valid
// tag was supplied or because an all-year tag was present.
func NormalizeSeasons(raw []string) []Season {
	var out []Season
	seen := make(map[Season]struct{}, len(raw))
	for _, r := range raw {
		expansion, ok := seasonAliases[normalizeKey(r)]
		if !ok {
			continue
		}
		if len(expansion) == 0 {
			return nil
		}
		for _, s := range expansion {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// SeasonForDate returns the meteorological season (northern hemisphere) for t.
func SeasonForDate(t time.Time) Season {
	switch t.Month() {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonAutumn
	}
}

// Occasion classifies a calendar event for dressing purposes.
type Occasion string

// Canonical occasions.
const (
	OccasionCasual   Occasion = "casual"
	OccasionBusiness Occasion = "business"
	OccasionFormal   Occasion = "formal"
	OccasionParty    Occasion = "party"
	OccasionFestive  Occasion = "festive"
	OccasionAthletic Occasion = "athletic"
)

// occasionAliases maps common calendar classifications onto occasions.
var occasionAliases = map[string]Occasion{
	"casual":      OccasionCasual,
	"business":    OccasionBusiness,
	"work":        OccasionBusiness,
	"office":      OccasionBusiness,
	"meeting":     OccasionBusiness,
	"formal":      OccasionFormal,
	"wedding":     OccasionFormal,
	"party":       OccasionParty,
	"festive":     OccasionFestive,
	"celebration": OccasionFestive,
	"holiday":     OccasionFestive,
	"athletic":    OccasionAthletic,
	"gym":         OccasionAthletic,
	"fitness":     OccasionAthletic,
	"workout":     OccasionAthletic,
}

// Occasions returns the canonical occasions in a stable order.
func Occasions() []Occasion {
	return []Occasion{
		OccasionCasual,
		OccasionBusiness,
		OccasionFormal,
		OccasionParty,
		OccasionFestive,
		OccasionAthletic,
	}
}

// ParseOccasion normalizes a raw occasion tag.
func ParseOccasion(raw string) (Occasion, bool) {
	o, ok := occasionAliases[normalizeKey(raw)]
	return o, ok
}

// Formality and warmth are coarse ordinals from 0 (lightest, most relaxed)
// to 3 (heaviest, most formal).
const (
	FormalityMin = 0
	FormalityMax = 3
	WarmthMin    = 0
	WarmthMax    = 3
)

// FormalityBand is an inclusive range of acceptable formality ratings.
type FormalityBand struct {
	Min int
	Max int
}

// occasionBands holds the formality band each occasion tolerates.
var occasionBands = map[Occasion]FormalityBand{
	OccasionCasual:   {Min: 0, Max: 2},
	OccasionBusiness: {Min: 2, Max: 3},
	OccasionFormal:   {Min: 2, Max: 3},
	OccasionParty:    {Min: 1, Max: 3},
	OccasionFestive:  {Min: 1, Max: 3},
	OccasionAthletic: {Min: 0, Max: 1},
}

// BandFor returns the acceptable formality band for an occasion.
func BandFor(o Occasion) (FormalityBand, bool) {
	b, ok := occasionBands[o]
	return b, ok
}

// EffectiveBand intersects the formality bands of all given occasions.
// Unknown occasions are ignored. When the intersection is empty the
// returned band has Min greater than Max and admits nothing.
func EffectiveBand(occasions []Occasion) FormalityBand {
	band := FormalityBand{Min: FormalityMin, Max: FormalityMax}
	for _, o := range occasions {
		b, ok := occasionBands[o]
		if !ok {
			continue
		}
		if b.Min > band.Min {
			band.Min = b.Min
		}
		if b.Max < band.Max {
			band.Max = b.Max
		}
	}
	return band
}

// Contains reports whether a rating falls inside the band.
func (b FormalityBand) Contains(rating int) bool {
	return rating >= b.Min && rating <= b.Max
}

// Empty reports whether the band admits no rating at all.
func (b FormalityBand) Empty() bool {
	return b.Min > b.Max
}

// normalizeKey lowercases, trims, and underscores a free-form tag.
func normalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}
