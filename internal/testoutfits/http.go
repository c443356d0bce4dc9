package testoutfits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitWardrobe submits the wardrobe in batches using a worker pool.
func submitWardrobe(ctx context.Context, config *Config, client *HTTPClient, ownerID string, wardrobe []Submission, stats *Stats) error {
	log.Printf("📤 Submitting %d items for %s with %d workers...", len(wardrobe), ownerID, config.Workers)

	url := config.BaseURL + "/wardrobe/items"

	// Counters for statistics
	var (
		queued    int64
		duplicate int64
		failed    int64
		submitted int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool over batches
	batchChan := make(chan []Submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for batch := range batchChan {
				select {
				case <-ctx.Done():
					return
				default:
					q, d, f := submitSingleBatch(ctx, client, url, ownerID, batch)

					// Update counters
					atomic.AddInt64(&submitted, int64(len(batch)))
					atomic.AddInt64(&queued, int64(q))
					atomic.AddInt64(&duplicate, int64(d))
					atomic.AddInt64(&failed, int64(f))

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						qd := atomic.LoadInt64(&queued)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (queued: %d, duplicate: %d, failed: %d)",
								total, len(wardrobe), qd, dup, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (queued: %d, duplicate: %d, failed: %d)",
								total, len(wardrobe), qd, dup, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send batches to workers
	go func() {
		defer close(batchChan)
		for start := 0; start < len(wardrobe); start += SubmitBatchSize {
			end := start + SubmitBatchSize
			if end > len(wardrobe) {
				end = len(wardrobe)
			}
			select {
			case <-ctx.Done():
				return
			case batchChan <- wardrobe[start:end]:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.ItemsSubmitted += int(atomic.LoadInt64(&submitted))
	stats.ItemsQueued += int(atomic.LoadInt64(&queued))
	stats.ItemsDuplicate += int(atomic.LoadInt64(&duplicate))
	stats.ItemsFailed += int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Wardrobe submission completed:
   Queued: %d
   Duplicate: %d
   Failed: %d
`, int(queued), int(duplicate), int(failed))

	return nil
}

// submitSingleBatch submits one batch and tallies per-item outcomes.
func submitSingleBatch(ctx context.Context, client *HTTPClient, url, ownerID string, batch []Submission) (queued, duplicate, failed int) {
	resp, err := client.Post(ctx, url, SubmitRequest{OwnerID: ownerID, Items: batch})
	if err != nil {
		return 0, 0, len(batch)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return 0, 0, len(batch)
	}

	if resp.StatusCode != StatusAccepted {
		// 429 means the ingestion queue pushed back; everything else is a bug.
		log.Printf("⚠️  Batch rejected with HTTP %d: %s", resp.StatusCode, string(body))
		return 0, 0, len(batch)
	}

	var ack SubmitResponse
	if err := unmarshalJSON(body, &ack); err != nil {
		return 0, 0, len(batch)
	}
	for _, a := range ack.Acks {
		switch a.Status {
		case "queued":
			queued++
		case "duplicate":
			duplicate++
		default:
			failed++
		}
	}
	return queued, duplicate, failed
}

// countStoredItems returns how many items the service has for an owner.
func countStoredItems(ctx context.Context, client *HTTPClient, baseURL, ownerID string) (int, error) {
	url := fmt.Sprintf("%s/wardrobe/items?owner=%s", baseURL, ownerID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var items []StoredItem
	if err := unmarshalJSON(body, &items); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	return len(items), nil
}
