package testoutfits

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okalli/garb/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "test_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the outfit test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Garb Outfit Test Tool
=====================

A concurrent tool for exercising the garb recommendation pipeline end to end:
it builds a fixture wardrobe, submits it over HTTP, waits for ingestion, and
runs named day scenarios whose outfits are verified property by property.

Usage:
  go run cmd/test-outfits/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -owner string
        Wardrobe owner id for the fixture items (default "fixture-owner")
  -items int
        Total wardrobe size to generate, staples included (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the generated wardrobe (default: generated_wardrobe_TIMESTAMP.json)
  -log string
        Log file for test output (default: test_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-outfits/main.go

  # Test with a larger wardrobe
  go run cmd/test-outfits/main.go -items 400 -workers 16 -url http://localhost:8080

  # Test with verbose output
  go run cmd/test-outfits/main.go -verbose

  # Test with custom log file
  go run cmd/test-outfits/main.go -items 300 -log my_test.log
`)
}
