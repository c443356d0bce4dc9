package testoutfits

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Materials that fail the precipitation rule for footwear.
var rainPoorMaterials = map[string]struct{}{
	"suede":  {},
	"canvas": {},
	"mesh":   {},
}

// verifyResults checks every scenario's response against its expectations
// and the structural rules every outfit must satisfy.
func verifyResults(config *Config, results []ScenarioResult, itemsByID map[string]StoredItem, stats *Stats) error {
	log.Println("🔍 Verifying scenario results...")

	for _, result := range results {
		failures := checkScenario(result.Scenario, result.Response, itemsByID)
		if len(failures) == 0 {
			stats.ScenariosPassed++
			log.Printf("✅ %s passed", result.Scenario.Name)
			continue
		}
		stats.ChecksFailed += len(failures)
		for _, failure := range failures {
			log.Printf("⚠️  %s: %s", result.Scenario.Name, failure)
		}
	}

	displayTopOutfits(results, config.Verbose)

	if stats.ChecksFailed > 0 {
		return fmt.Errorf("%d checks failed across %d scenarios", stats.ChecksFailed, len(results))
	}

	log.Println("✅ Result verification completed")
	return nil
}

// checkScenario returns every failed expectation for one scenario.
func checkScenario(scenario Scenario, rec Recommendation, itemsByID map[string]StoredItem) []string {
	var failures []string
	fail := func(format string, args ...interface{}) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	// Context expectations
	if scenario.ExpectSeason != "" && rec.Context.Season != scenario.ExpectSeason {
		fail("season %q, want %q", rec.Context.Season, scenario.ExpectSeason)
	}
	if rec.Context.NeedsOuterwear != scenario.ExpectOuterwear {
		fail("needs_outerwear %v, want %v", rec.Context.NeedsOuterwear, scenario.ExpectOuterwear)
	}
	if rec.Context.NeedsRainFootwear != scenario.ExpectRainFootwear {
		fail("needs_rain_footwear %v, want %v", rec.Context.NeedsRainFootwear, scenario.ExpectRainFootwear)
	}
	if rec.Context.Windy != scenario.ExpectWindy {
		fail("windy %v, want %v", rec.Context.Windy, scenario.ExpectWindy)
	}

	// Outfit presence
	if scenario.ExpectOutfits && len(rec.Outfits) == 0 {
		fail("no outfits returned (empty categories: %v)", rec.Diagnostics.EmptyCategories)
		return failures
	}
	if !scenario.ExpectOutfits {
		if len(rec.Outfits) != 0 {
			fail("expected no outfits, got %d", len(rec.Outfits))
		}
		if scenario.ExpectEmptyCategories && len(rec.Diagnostics.EmptyCategories) == 0 {
			fail("expected diagnostics to name empty categories")
		}
		return failures
	}

	// Ranking order
	signatures := make(map[string]int)
	for i, outfit := range rec.Outfits {
		if outfit.Rank != i+1 {
			fail("outfit %d has rank %d", i, outfit.Rank)
		}
		if i > 0 && outfit.Score > rec.Outfits[i-1].Score {
			fail("outfit %d scored above its predecessor", outfit.Rank)
		}
		for _, value := range []float64{outfit.Score, outfit.Harmony, outfit.ContextFit, outfit.Diversity} {
			if value < 0 || value > 1 {
				fail("outfit %d has a component score outside [0, 1]", outfit.Rank)
				break
			}
		}

		signature := outfitSignature(outfit)
		if prev, dup := signatures[signature]; dup {
			fail("outfit %d repeats the items of outfit %d", outfit.Rank, prev)
		}
		signatures[signature] = outfit.Rank

		failures = append(failures, checkOutfitStructure(rec.Context, outfit)...)
		failures = append(failures, checkOutfitItems(scenario, rec.Context, outfit, itemsByID)...)
	}

	return failures
}

// checkOutfitStructure validates the slot composition of one outfit.
func checkOutfitStructure(dayCtx DayContext, outfit Outfit) []string {
	var failures []string
	fail := func(format string, args ...interface{}) {
		failures = append(failures, fmt.Sprintf("outfit %d: %s", outfit.Rank, fmt.Sprintf(format, args...)))
	}

	counts := make(map[string]int)
	seen := make(map[string]struct{})
	for _, item := range outfit.Items {
		counts[item.Category]++
		if _, dup := seen[item.ID]; dup {
			fail("item %s appears twice", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	separates := counts["top"] == 1 && counts["bottom"] == 1 && counts["dress"] == 0
	onePiece := counts["dress"] == 1 && counts["top"] == 0 && counts["bottom"] == 0
	if !separates && !onePiece {
		fail("not a valid cover: %d top, %d bottom, %d dress", counts["top"], counts["bottom"], counts["dress"])
	}
	if counts["footwear"] != 1 {
		fail("%d footwear items", counts["footwear"])
	}

	wantOuterwear := 0
	if dayCtx.NeedsOuterwear {
		wantOuterwear = 1
	}
	if counts["outerwear"] != wantOuterwear {
		fail("%d outerwear items, want %d", counts["outerwear"], wantOuterwear)
	}
	if counts["accessory"] > 2 {
		fail("%d accessories", counts["accessory"])
	}

	return failures
}

// checkOutfitItems validates per-item properties using the hydrated
// stored items.
func checkOutfitItems(scenario Scenario, dayCtx DayContext, outfit Outfit, itemsByID map[string]StoredItem) []string {
	var failures []string
	fail := func(format string, args ...interface{}) {
		failures = append(failures, fmt.Sprintf("outfit %d: %s", outfit.Rank, fmt.Sprintf(format, args...)))
	}

	for _, ref := range outfit.Items {
		item, ok := itemsByID[ref.ID]
		if !ok {
			fail("item %s could not be hydrated", ref.ID)
			continue
		}

		if scenario.MinFormality > 0 && item.Formality < scenario.MinFormality {
			fail("item %s formality %d below %d", item.ID, item.Formality, scenario.MinFormality)
		}
		if len(item.Seasons) > 0 && !containsString(item.Seasons, dayCtx.Season) {
			fail("item %s is not wearable in %s", item.ID, dayCtx.Season)
		}
		if dayCtx.NeedsRainFootwear && item.Category == "footwear" {
			for _, material := range item.Materials {
				if _, poor := rainPoorMaterials[strings.ToLower(material)]; poor {
					fail("item %s is %s footwear on a wet day", item.ID, material)
					break
				}
			}
		}
		if dayCtx.NeedsOuterwear && (item.Category == "top" || item.Category == "outerwear") && item.Warmth == 0 {
			fail("item %s is too light for the weather", item.ID)
		}
	}

	return failures
}

// outfitSignature builds an order-independent identity for an outfit.
func outfitSignature(outfit Outfit) string {
	ids := make([]string, len(outfit.Items))
	for i, item := range outfit.Items {
		ids[i] = item.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// containsString reports whether values contains the target.
func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// displayTopOutfits shows the best outfit of every scenario.
func displayTopOutfits(results []ScenarioResult, verbose bool) {
	log.Println("👗 Best outfit per scenario:")
	for _, result := range results {
		if len(result.Response.Outfits) == 0 {
			log.Printf("   %s: none (empty categories: %v)",
				result.Scenario.Name, result.Response.Diagnostics.EmptyCategories)
			continue
		}
		best := result.Response.Outfits[0]
		parts := make([]string, len(best.Items))
		for i, item := range best.Items {
			parts[i] = item.Category + "/" + item.Subcategory
		}
		log.Printf("   %s: score %.3f (%s) - %s",
			result.Scenario.Name, best.Score, best.HarmonyRule, strings.Join(parts, ", "))
	}

	if verbose {
		for _, result := range results {
			for _, outfit := range result.Response.Outfits {
				log.Printf(`📊 %s outfit %d:
   Score: %.3f
   Harmony: %.3f (%s)
   Context fit: %.3f
   Diversity: %.3f
`, result.Scenario.Name, outfit.Rank, outfit.Score, outfit.Harmony, outfit.HarmonyRule, outfit.ContextFit, outfit.Diversity)
			}
		}
	}
}
