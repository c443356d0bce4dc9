package synthesis

// Option applies a configuration option to the Synthesizer.
type Option func(*Synthesizer)

// WithOuterwearBelow sets the maximum temperature (Celsius) under which
// outerwear becomes mandatory.
func WithOuterwearBelow(celsius float64) Option {
	return func(s *Synthesizer) {
		s.outerwearBelowC = celsius
	}
}

// WithRainThreshold sets the precipitation probability above which rain
// gear is mandatory. Values outside (0, 1] are ignored.
func WithRainThreshold(probability float64) Option {
	return func(s *Synthesizer) {
		if probability > 0 && probability <= 1 {
			s.rainThreshold = probability
		}
	}
}

// WithWindyAbove sets the wind speed (km/h) above which the day counts
// as windy. Non-positive values are ignored.
func WithWindyAbove(kph float64) Option {
	return func(s *Synthesizer) {
		if kph > 0 {
			s.windyAboveKPH = kph
		}
	}
}
