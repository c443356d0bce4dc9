// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top.
// - Validation happens once, after all layers are applied.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory ingestion queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StorePath is the SQLite database file for the wardrobe store.
	StorePath string `koanf:"store_path"`

	// IndexPath is the directory for the persistent vector index.
	// Empty keeps the index in memory.
	IndexPath string `koanf:"index_path"`

	// RetrievalK caps how many candidates each category keeps after
	// similarity retrieval.
	RetrievalK int `koanf:"retrieval_k"`

	// MaxOutfits is the default number of outfits per recommendation.
	MaxOutfits int `koanf:"max_outfits"`

	// BranchingFactor bounds per-slot candidates during outfit
	// construction.
	BranchingFactor int `koanf:"branching_factor"`

	// MaxAccessories caps accessories attached to one outfit.
	MaxAccessories int `koanf:"max_accessories"`

	// HarmonyWeight, ContextWeight, and DiversityWeight blend the three
	// outfit score components. They are normalized by their sum.
	HarmonyWeight   float64 `koanf:"harmony_weight"`
	ContextWeight   float64 `koanf:"context_weight"`
	DiversityWeight float64 `koanf:"diversity_weight"`

	// OuterwearBelowC is the daily maximum temperature under which
	// outfits must include outerwear.
	OuterwearBelowC float64 `koanf:"outerwear_below_c"`

	// RainThreshold is the precipitation probability above which the
	// day counts as wet.
	RainThreshold float64 `koanf:"rain_threshold"`

	// WindyAboveKPH is the wind speed above which the day counts as
	// windy.
	WindyAboveKPH float64 `koanf:"windy_above_kph"`

	// BuildTimeoutMS bounds wall-clock outfit construction time.
	BuildTimeoutMS int `koanf:"build_timeout_ms"`

	// EmbeddingDim is the feature vector length shared by the embedder,
	// the store, and the vector index.
	EmbeddingDim int `koanf:"embedding_dim"`
}

// New creates a Config with the service defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		QueueSize:       10_000,
		WorkerCount:     runtime.NumCPU() * 2,
		DedupeSize:      50_000,
		StorePath:       "garb.db",
		IndexPath:       "",
		RetrievalK:      5,
		MaxOutfits:      3,
		BranchingFactor: 4,
		MaxAccessories:  2,
		HarmonyWeight:   0.5,
		ContextWeight:   0.3,
		DiversityWeight: 0.2,
		OuterwearBelowC: 12.0,
		RainThreshold:   0.5,
		WindyAboveKPH:   30.0,
		BuildTimeoutMS:  200,
		EmbeddingDim:    128,
	}
}

// Validate checks the invariants a loaded Config must satisfy. Size and
// count fields are left to the component option guards, which fall back
// to their own defaults on out-of-range values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errInvalid("addr must not be empty")
	}
	if c.RainThreshold < 0 || c.RainThreshold > 1 {
		return errInvalid("rain_threshold must be within [0, 1]")
	}
	if c.HarmonyWeight < 0 || c.ContextWeight < 0 || c.DiversityWeight < 0 {
		return errInvalid("scoring weights must not be negative")
	}
	return nil
}
