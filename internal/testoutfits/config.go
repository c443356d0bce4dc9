package testoutfits

import "time"

// Config holds configuration for the outfit test
type Config struct {
	BaseURL    string        // Base URL of the service
	OwnerID    string        // Wardrobe owner used for the fixture items
	NumItems   int           // Total wardrobe size to generate (staples included)
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for the generated wardrobe
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Garment is one wardrobe item to be submitted
type Garment struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Materials   []string `json:"materials,omitempty"`
	Styles      []string `json:"styles,omitempty"`
	Seasons     []string `json:"seasons,omitempty"`
	Warmth      *int     `json:"warmth,omitempty"`
	Formality   *int     `json:"formality,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// Submission pairs a garment with its idempotency key
type Submission struct {
	SubmissionID string  `json:"submission_id"`
	Item         Garment `json:"item"`
}

// SubmitRequest is the batch body for POST /wardrobe/items
type SubmitRequest struct {
	OwnerID string       `json:"owner_id"`
	Items   []Submission `json:"items"`
}

// Ack reports what happened to one submission
type Ack struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
}

// SubmitResponse is the body of a 202 from POST /wardrobe/items
type SubmitResponse struct {
	Acks []Ack `json:"acks"`
}

// Forecast is the weather block of a recommendation request
type Forecast struct {
	TempMinC      float64 `json:"temp_min_c"`
	TempMaxC      float64 `json:"temp_max_c"`
	Precipitation float64 `json:"precipitation"`
	WindKPH       float64 `json:"wind_kph"`
	Condition     string  `json:"condition"`
}

// Event is one calendar event on the day being dressed
type Event struct {
	Title    string `json:"title"`
	Occasion string `json:"occasion,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
}

// RecommendRequest is the body for POST /recommend
type RecommendRequest struct {
	OwnerID    string    `json:"owner_id"`
	Date       string    `json:"date"`
	Location   string    `json:"location,omitempty"`
	Mood       string    `json:"mood,omitempty"`
	MaxOutfits int       `json:"max_outfits,omitempty"`
	Events     []Event   `json:"events,omitempty"`
	Forecast   *Forecast `json:"forecast,omitempty"`
}

// DayContext is the synthesized dressing context in a response
type DayContext struct {
	Date              string   `json:"date"`
	Season            string   `json:"season"`
	Mood              string   `json:"mood"`
	Occasions         []string `json:"occasions"`
	FormalityMin      int      `json:"formality_min"`
	FormalityMax      int      `json:"formality_max"`
	NeedsOuterwear    bool     `json:"needs_outerwear"`
	NeedsRainFootwear bool     `json:"needs_rain_footwear"`
	Windy             bool     `json:"windy"`
}

// OutfitItem is one garment inside a recommended outfit
type OutfitItem struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Colors      []string `json:"colors"`
}

// Outfit is one ranked outfit in a recommendation response
type Outfit struct {
	Rank        int          `json:"rank"`
	Score       float64      `json:"score"`
	Harmony     float64      `json:"harmony"`
	HarmonyRule string       `json:"harmony_rule"`
	ContextFit  float64      `json:"context_fit"`
	Diversity   float64      `json:"diversity"`
	Items       []OutfitItem `json:"items"`
}

// Diagnostics explains thin or empty responses
type Diagnostics struct {
	EmptyCategories []string `json:"empty_categories"`
	Combinations    int      `json:"combinations"`
	Truncated       bool     `json:"truncated"`
}

// Recommendation is a complete response from POST /recommend
type Recommendation struct {
	Context     DayContext  `json:"context"`
	Outfits     []Outfit    `json:"outfits"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// StoredItem is the wire form of an ingested wardrobe item
type StoredItem struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Colors      []string `json:"colors"`
	Materials   []string `json:"materials"`
	Styles      []string `json:"styles"`
	Seasons     []string `json:"seasons"`
	Warmth      int      `json:"warmth"`
	Formality   int      `json:"formality"`
}

// SearchMatch pairs a stored item with its similarity score
type SearchMatch struct {
	Item  StoredItem `json:"item"`
	Score float64    `json:"score"`
}

// Stats holds test statistics
type Stats struct {
	ItemsGenerated   int
	ItemsSubmitted   int
	ItemsQueued      int
	ItemsDuplicate   int
	ItemsFailed      int
	ItemsIngested    int
	ScenariosRun     int
	ScenariosPassed  int
	ChecksFailed     int
	OutfitsReturned  int
	ItemsHydrated    int
	SearchMatches    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
