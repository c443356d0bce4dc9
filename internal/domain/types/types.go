// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/okalli/garb/internal/domain/model"
)

// OutfitQuery carries one recommendation request from the API layer to
// the service. Events arrive already classified into occasions.
type OutfitQuery struct {
	OwnerID    string
	Date       time.Time
	Location   string
	Mood       string
	Events     []model.CalendarEvent
	Forecast   *model.WeatherForecast
	MaxOutfits int
}

// Submission is one raw wardrobe item together with its idempotency
// key. An empty SubmissionID asks the service to assign one.
type Submission struct {
	SubmissionID string
	Raw          model.RawItem
}

// Submission outcomes reported back to callers.
const (
	StatusQueued    = "queued"
	StatusDuplicate = "duplicate"
)

// SubmissionAck reports what happened to one submission in a batch.
type SubmissionAck struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
}

// OutfitItem is one garment inside a recommended outfit.
type OutfitItem struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Brand       string   `json:"brand,omitempty"`
}

// RecommendedOutfit is one ranked outfit in a recommendation response.
type RecommendedOutfit struct {
	Rank        int          `json:"rank"`
	Score       float64      `json:"score"`
	Harmony     float64      `json:"harmony"`
	HarmonyRule string       `json:"harmony_rule"`
	ContextFit  float64      `json:"context_fit"`
	Diversity   float64      `json:"diversity"`
	Items       []OutfitItem `json:"items"`
}

// DayContext is the synthesized dressing context for one day, as
// reported back to API callers.
type DayContext struct {
	Date              string   `json:"date"`
	Location          string   `json:"location,omitempty"`
	Season            string   `json:"season"`
	Mood              string   `json:"mood"`
	Occasions         []string `json:"occasions"`
	StyleBias         []string `json:"style_bias,omitempty"`
	Palette           []string `json:"palette,omitempty"`
	FormalityMin      int      `json:"formality_min"`
	FormalityMax      int      `json:"formality_max"`
	NeedsOuterwear    bool     `json:"needs_outerwear"`
	NeedsRainFootwear bool     `json:"needs_rain_footwear"`
	Windy             bool     `json:"windy"`
}

// Warning reports a non-fatal condition hit while building a response.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ItemIssue names a wardrobe item excluded from a request and why.
type ItemIssue struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

// Diagnostics explains thin or empty recommendation responses.
type Diagnostics struct {
	Malformed       []ItemIssue `json:"malformed,omitempty"`
	Removed         []ItemIssue `json:"removed,omitempty"`
	EmptyCategories []string    `json:"empty_categories,omitempty"`
	Combinations    int         `json:"combinations"`
	Truncated       bool        `json:"truncated"`
}

// Recommendation is a complete recommendation response.
type Recommendation struct {
	Context     DayContext          `json:"context"`
	Outfits     []RecommendedOutfit `json:"outfits"`
	Warnings    []Warning           `json:"warnings,omitempty"`
	Diagnostics Diagnostics         `json:"diagnostics"`
}

// Item is the wire form of a stored wardrobe item. The feature vector
// stays internal.
type Item struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Colors      []string  `json:"colors,omitempty"`
	Materials   []string  `json:"materials,omitempty"`
	Styles      []string  `json:"styles,omitempty"`
	Seasons     []string  `json:"seasons,omitempty"`
	Warmth      int       `json:"warmth"`
	Formality   int       `json:"formality"`
	Brand       string    `json:"brand,omitempty"`
	Fit         string    `json:"fit,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// SearchMatch pairs a stored item with its similarity to a query.
type SearchMatch struct {
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
}
