package testoutfits

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// Scenario is one named day run through the recommendation pipeline.
// The expectation fields state what the synthesized context and the
// returned outfits must look like for the scenario to pass.
type Scenario struct {
	Name    string
	Sparse  bool // run against the sparse owner's wardrobe
	Request RecommendRequest

	ExpectOutfits         bool
	ExpectSeason          string
	ExpectOuterwear       bool
	ExpectRainFootwear    bool
	ExpectWindy           bool
	MinFormality          int // lower bound every outfit item must meet; 0 disables
	ExpectEmptyCategories bool
}

// scenarios returns the scenario table. Each one leans on the staple
// wardrobe, so the expectations hold whatever the random filler drew.
func scenarios() []Scenario {
	return []Scenario{
		{
			Name: "sunny-commute",
			Request: RecommendRequest{
				Date:     "2026-07-10",
				Location: "Lisbon",
				Mood:     "neutral",
				Forecast: &Forecast{TempMinC: 22, TempMaxC: 28, Precipitation: 0.1, WindKPH: 8, Condition: "clear"},
			},
			ExpectOutfits: true,
			ExpectSeason:  "summer",
		},
		{
			Name: "rainy-office",
			Request: RecommendRequest{
				Date:     "2026-11-03",
				Location: "Copenhagen",
				Mood:     "neutral",
				Events: []Event{
					{Title: "Board meeting", Occasion: "business", Start: "2026-11-03T09:00:00Z", End: "2026-11-03T11:00:00Z"},
				},
				Forecast: &Forecast{TempMinC: 4, TempMaxC: 9, Precipitation: 0.8, WindKPH: 40, Condition: "rain"},
			},
			ExpectOutfits:      true,
			ExpectSeason:       "autumn",
			ExpectOuterwear:    true,
			ExpectRainFootwear: true,
			ExpectWindy:        true,
			MinFormality:       2,
		},
		{
			Name: "winter-chill",
			Request: RecommendRequest{
				Date:     "2027-01-20",
				Location: "Oslo",
				Mood:     "cozy",
				Forecast: &Forecast{TempMinC: -5, TempMaxC: 2, Precipitation: 0.3, WindKPH: 20, Condition: "snow"},
			},
			ExpectOutfits:   true,
			ExpectSeason:    "winter",
			ExpectOuterwear: true,
		},
		{
			Name: "festive-evening",
			Request: RecommendRequest{
				Date:     "2026-12-31",
				Location: "Lisbon",
				Mood:     "festive",
				Events: []Event{
					{Title: "New Year party", Occasion: "party", Start: "2026-12-31T21:00:00Z"},
				},
				Forecast: &Forecast{TempMinC: 5, TempMaxC: 10, Precipitation: 0.2, WindKPH: 12, Condition: "clear"},
			},
			ExpectOutfits:   true,
			ExpectSeason:    "winter",
			ExpectOuterwear: true,
			MinFormality:    1,
		},
		{
			Name:   "sparse-wardrobe",
			Sparse: true,
			Request: RecommendRequest{
				Date:     "2026-07-10",
				Location: "Lisbon",
				Mood:     "neutral",
				Forecast: &Forecast{TempMinC: 21, TempMaxC: 26, Precipitation: 0.0, WindKPH: 5, Condition: "clear"},
			},
			ExpectOutfits:         false,
			ExpectSeason:          "summer",
			ExpectEmptyCategories: true,
		},
	}
}

// ScenarioResult pairs a scenario with the recommendation it produced.
type ScenarioResult struct {
	Scenario Scenario
	Response Recommendation
}

// runScenarios posts each scenario to /recommend and collects responses.
func runScenarios(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) ([]ScenarioResult, error) {
	table := scenarios()
	log.Printf("👗 Running %d recommendation scenarios...", len(table))

	recommendURL := config.BaseURL + "/recommend"
	results := make([]ScenarioResult, 0, len(table))

	for _, scenario := range table {
		request := scenario.Request
		request.OwnerID = config.OwnerID
		if scenario.Sparse {
			request.OwnerID = sparseOwnerID(config.OwnerID)
		}

		resp, err := client.Post(ctx, recommendURL, request)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: request failed: %w", scenario.Name, err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: failed to read response: %w", scenario.Name, err)
		}
		if resp.StatusCode != StatusOK {
			return nil, fmt.Errorf("scenario %s: HTTP %d: %s", scenario.Name, resp.StatusCode, string(body))
		}

		var rec Recommendation
		if err := unmarshalJSON(body, &rec); err != nil {
			return nil, fmt.Errorf("scenario %s: failed to parse response: %w", scenario.Name, err)
		}

		stats.ScenariosRun++
		stats.OutfitsReturned += len(rec.Outfits)
		log.Printf("   %s: %d outfits (season %s, occasions %v)",
			scenario.Name, len(rec.Outfits), rec.Context.Season, rec.Context.Occasions)

		results = append(results, ScenarioResult{Scenario: scenario, Response: rec})
	}

	log.Printf("✅ Scenario runs completed: %d", len(results))
	return results, nil
}

// sparseOwnerID derives the owner id used for the tops-only wardrobe.
func sparseOwnerID(owner string) string {
	return owner + "-sparse"
}

// hydrateOutfitItems fetches the stored form of every item referenced by
// the scenario outfits, concurrently, so verification can check materials
// and ratings the outfit view does not carry.
func hydrateOutfitItems(ctx context.Context, config *Config, client *HTTPClient, results []ScenarioResult, stats *Stats) (map[string]StoredItem, error) {
	// Collect unique item IDs
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, result := range results {
		for _, outfit := range result.Response.Outfits {
			for _, item := range outfit.Items {
				if _, dup := seen[item.ID]; dup {
					continue
				}
				seen[item.ID] = struct{}{}
				ids = append(ids, item.ID)
			}
		}
	}
	if len(ids) == 0 {
		return map[string]StoredItem{}, nil
	}

	log.Printf("🔎 Hydrating %d outfit items with %d workers...", len(ids), config.Workers)

	hydrated := make([]StoredItem, len(ids))
	var failed int64

	idChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range idChan {
				select {
				case <-ctx.Done():
					return
				default:
					item, err := fetchStoredItem(ctx, client, config.BaseURL, config.OwnerID, ids[index])
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to hydrate %s: %v", ids[index], err)
						}
						continue
					}
					hydrated[index] = item
				}
			}
		}()
	}

	go func() {
		defer close(idChan)
		for i := range ids {
			select {
			case <-ctx.Done():
				return
			case idChan <- i:
			}
		}
	}()

	wg.Wait()

	byID := make(map[string]StoredItem, len(ids))
	for _, item := range hydrated {
		if item.ID != "" { // Empty ID indicates failed retrieval
			byID[item.ID] = item
		}
	}

	stats.ItemsHydrated = len(byID)
	if failed > 0 {
		return byID, fmt.Errorf("failed to hydrate %d of %d items", failed, len(ids))
	}

	log.Printf("✅ Hydrated %d items", len(byID))
	return byID, nil
}

// fetchStoredItem retrieves one stored item by id.
func fetchStoredItem(ctx context.Context, client *HTTPClient, baseURL, ownerID, id string) (StoredItem, error) {
	itemURL := fmt.Sprintf("%s/wardrobe/items/%s?owner=%s", baseURL, id, ownerID)

	resp, err := client.Get(ctx, itemURL)
	if err != nil {
		return StoredItem{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return StoredItem{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return StoredItem{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var item StoredItem
	if err := unmarshalJSON(body, &item); err != nil {
		return StoredItem{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return item, nil
}

// searchSpotCheck runs a similarity search for a staple garment and
// verifies the staple itself comes back first.
func searchSpotCheck(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) error {
	log.Println("🔍 Search spot check: \"navy tee\"...")

	searchURL := fmt.Sprintf("%s/wardrobe/search?owner=%s&q=%s&k=5",
		config.BaseURL, config.OwnerID, url.QueryEscape("navy tee"))

	resp, err := client.Get(ctx, searchURL)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var matches []SearchMatch
	if err := unmarshalJSON(body, &matches); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	stats.SearchMatches = len(matches)

	if len(matches) == 0 {
		return fmt.Errorf("no matches for a staple garment")
	}
	best := matches[0].Item
	if best.Category != "top" || best.Subcategory != "tee" {
		return fmt.Errorf("best match is %s/%s, want top/tee", best.Category, best.Subcategory)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			return fmt.Errorf("matches not sorted by score at position %d", i)
		}
	}

	log.Printf("✅ Search returned %d matches, best %s (%.3f)", len(matches), best.ID, matches[0].Score)
	return nil
}

// waitForIngestion polls the wardrobe listing until the expected number of
// items is visible or the settle timeout passes.
func waitForIngestion(ctx context.Context, config *Config, client *HTTPClient, ownerID string, want int, stats *Stats) error {
	log.Printf("⏳ Waiting for %d items to be ingested for %s...", want, ownerID)

	deadline := time.Now().Add(IngestSettleTimeout)
	for {
		count, err := countStoredItems(ctx, client, config.BaseURL, ownerID)
		if err == nil && count >= want {
			stats.ItemsIngested += count
			log.Printf("✅ Ingestion settled: %d items visible", count)
			return nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("ingestion did not settle: %w", err)
			}
			return fmt.Errorf("ingestion did not settle: %d of %d items visible", count, want)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for ingestion: %w", ctx.Err())
		case <-time.After(IngestPollInterval):
		}
	}
}
