// Package synthesis fuses calendar, weather, and mood inputs into the
// single context directive the rest of the pipeline consumes.
package synthesis

import (
	"fmt"
	"time"

	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
)

// Default thresholds for layer requirements.
const (
	DefaultOuterwearBelowC = 12.0
	DefaultRainThreshold   = 0.5
	DefaultWindyAboveKPH   = 30.0
)

// Synthesizer builds context directives. It holds only thresholds and is
// safe for concurrent use.
type Synthesizer struct {
	outerwearBelowC float64
	rainThreshold   float64
	windyAboveKPH   float64
}

// New creates a Synthesizer with the given options.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		outerwearBelowC: DefaultOuterwearBelowC,
		rainThreshold:   DefaultRainThreshold,
		windyAboveKPH:   DefaultWindyAboveKPH,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize combines the day's classified events, the weather forecast,
// and a mood into an immutable directive. A nil or malformed forecast
// fails the whole request; mood and events degrade gracefully instead.
func (s *Synthesizer) Synthesize(
	date time.Time,
	location string,
	events []model.CalendarEvent,
	forecast *model.WeatherForecast,
	mood string,
) (model.ContextDirective, error) {
	if forecast == nil {
		return model.ContextDirective{}, fmt.Errorf("%w: weather forecast missing", ErrInvalidContext)
	}
	if forecast.Precipitation < 0 || forecast.Precipitation > 1 {
		return model.ContextDirective{}, fmt.Errorf("%w: precipitation probability %.2f outside [0, 1]", ErrInvalidContext, forecast.Precipitation)
	}
	if forecast.TempMinC > forecast.TempMaxC {
		return model.ContextDirective{}, fmt.Errorf("%w: temperature range inverted (%.1f > %.1f)", ErrInvalidContext, forecast.TempMinC, forecast.TempMaxC)
	}

	occasions := unionOccasions(events)
	profile := taxonomy.ProfileFor(mood)

	wet := forecast.Precipitation > s.rainThreshold
	directive := model.ContextDirective{
		Date:     date,
		Location: location,
		Mood:     profile.Mood,
		Season:   taxonomy.SeasonForDate(date),

		Occasions: occasions,
		StyleBias: profile.StyleBias,
		Palette:   profile.Palette,

		TempMinC:      forecast.TempMinC,
		TempMaxC:      forecast.TempMaxC,
		Precipitation: forecast.Precipitation,
		Windy:         forecast.WindKPH > s.windyAboveKPH,

		NeedsOuterwear:    forecast.TempMaxC < s.outerwearBelowC || wet,
		NeedsRainFootwear: wet,
	}
	return directive, nil
}

// unionOccasions collects the distinct occasions across the day's events,
// preserving first-seen order. Days without events dress casual.
func unionOccasions(events []model.CalendarEvent) []taxonomy.Occasion {
	var out []taxonomy.Occasion
	seen := make(map[taxonomy.Occasion]struct{}, len(events))
	for _, ev := range events {
		o := ev.Occasion
		if _, ok := taxonomy.BandFor(o); !ok {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	if len(out) == 0 {
		return []taxonomy.Occasion{taxonomy.OccasionCasual}
	}
	return out
}
