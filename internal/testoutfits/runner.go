package testoutfits

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okalli/garb/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete outfit test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting garb outfit test",
		logger.String("baseURL", config.BaseURL),
		logger.String("owner", config.OwnerID),
		logger.Int("items", config.NumItems),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the fixture wardrobe
	wardrobe, err := generateWardrobe(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("wardrobe generation failed: %w", err)
	}
	sparse := sparseWardrobe()
	stats.ItemsGenerated += len(sparse)

	// Step 3: Submit both wardrobes concurrently
	if err := submitWardrobe(ctx, config, client, config.OwnerID, wardrobe, stats); err != nil {
		return fmt.Errorf("wardrobe submission failed: %w", err)
	}
	if err := submitWardrobe(ctx, config, client, sparseOwnerID(config.OwnerID), sparse, stats); err != nil {
		return fmt.Errorf("sparse wardrobe submission failed: %w", err)
	}

	// Step 4: Wait for ingestion to settle
	if err := waitForIngestion(ctx, config, client, config.OwnerID, len(wardrobe), stats); err != nil {
		return fmt.Errorf("ingestion wait failed: %w", err)
	}
	if err := waitForIngestion(ctx, config, client, sparseOwnerID(config.OwnerID), len(sparse), stats); err != nil {
		return fmt.Errorf("sparse ingestion wait failed: %w", err)
	}

	// Step 5: Run the recommendation scenarios
	results, err := runScenarios(ctx, config, client, stats)
	if err != nil {
		return fmt.Errorf("scenario run failed: %w", err)
	}

	// Step 6: Hydrate recommended items for property checks
	itemsByID, err := hydrateOutfitItems(ctx, config, client, results, stats)
	if err != nil {
		return fmt.Errorf("item hydration failed: %w", err)
	}

	// Step 7: Spot-check similarity search
	if err := searchSpotCheck(ctx, config, client, stats); err != nil {
		return fmt.Errorf("search spot check failed: %w", err)
	}

	// Step 8: Verify results
	if err := verifyResults(config, results, itemsByID, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 9: Save the wardrobe to file
	if err := saveWardrobeToFile(ctx, config, wardrobe); err != nil {
		logger.Get().Warn(ctx, "failed to save wardrobe to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveWardrobeToFile saves the generated wardrobe to a JSON file.
func saveWardrobeToFile(ctx context.Context, config *Config, wardrobe []Submission) error {
	if len(wardrobe) == 0 {
		return fmt.Errorf("no wardrobe to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_wardrobe_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write wardrobe to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, submission := range wardrobe {
		jsonData, err := marshalJSON(submission)
		if err != nil {
			return fmt.Errorf("failed to marshal item %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write item %d: %w", i, err)
		}

		// Add comma except for last item
		if i < len(wardrobe)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "wardrobe saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var queueRate, itemsPerSecond float64

	if stats.ItemsSubmitted > 0 {
		queueRate = float64(stats.ItemsQueued) / float64(stats.ItemsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		itemsPerSecond = float64(stats.ItemsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("itemsGenerated", stats.ItemsGenerated),
		logger.Int("itemsSubmitted", stats.ItemsSubmitted),
		logger.Int("itemsQueued", stats.ItemsQueued),
		logger.Int("itemsDuplicate", stats.ItemsDuplicate),
		logger.Int("itemsFailed", stats.ItemsFailed),
		logger.Int("itemsIngested", stats.ItemsIngested),
		logger.Int("scenariosRun", stats.ScenariosRun),
		logger.Int("scenariosPassed", stats.ScenariosPassed),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.Int("outfitsReturned", stats.OutfitsReturned),
		logger.Int("itemsHydrated", stats.ItemsHydrated),
		logger.Int("searchMatches", stats.SearchMatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("queueRate", queueRate),
		logger.Float64("itemsPerSecond", itemsPerSecond))
}
