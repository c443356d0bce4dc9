package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okalli/garb/internal/testoutfits"
)

// Default configuration constants.
const (
	defaultNumItems    = 200
	defaultOwnerID     = "fixture-owner"
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		ownerID    = flag.String("owner", defaultOwnerID, "Owner ID for the fixture wardrobe")
		numItems   = flag.Int("items", defaultNumItems, "Number of wardrobe items to generate and submit")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for the generated wardrobe (default: generated_wardrobe_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testoutfits.ShowHelp()
		return
	}

	// Setup logging
	if err := testoutfits.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testoutfits.Config{
		BaseURL:    *baseURL,
		OwnerID:    *ownerID,
		NumItems:   *numItems,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the test
	if err := testoutfits.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
