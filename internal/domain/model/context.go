package model

import (
	"time"

	"github.com/okalli/garb/internal/domain/taxonomy"
)

// CalendarEvent is a classified schedule entry for the target day.
type CalendarEvent struct {
	Title    string
	Occasion taxonomy.Occasion
	Start    time.Time
	End      time.Time
}

// WeatherForecast summarizes the day's weather at the target location.
type WeatherForecast struct {
	TempMinC      float64 // degrees Celsius
	TempMaxC      float64
	Precipitation float64 // probability in [0, 1]
	WindKPH       float64
	Condition     string // e.g. "clear", "rain", "storm"
}

// ContextDirective is the normalized fusion of schedule, weather, and mood
// for one recommendation request. Constructed once per request; immutable
// afterwards.
type ContextDirective struct {
	Date     time.Time
	Location string
	Mood     taxonomy.Mood
	Season   taxonomy.Season

	Occasions []taxonomy.Occasion // union of event occasions, never empty
	StyleBias []taxonomy.Style    // from the mood profile
	Palette   []taxonomy.Color    // from the mood profile, never empty

	TempMinC      float64
	TempMaxC      float64
	Precipitation float64
	Windy         bool

	NeedsOuterwear    bool // cold or wet enough to mandate an outer layer
	NeedsRainFootwear bool // wet enough to mandate rain-ready footwear
}

// HasOccasion reports whether the directive carries the given occasion.
func (d ContextDirective) HasOccasion(o taxonomy.Occasion) bool {
	for _, occ := range d.Occasions {
		if occ == o {
			return true
		}
	}
	return false
}

// FormalityBand returns the formality range acceptable across all of the
// directive's occasions.
func (d ContextDirective) FormalityBand() taxonomy.FormalityBand {
	return taxonomy.EffectiveBand(d.Occasions)
}
