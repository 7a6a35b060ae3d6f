package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const userAgent = "TrackTramReliability/1.0 (+https://github.com/0a1b/TrackTramReliablilty)"

// NewClient returns an HTTP client that retries transient failures
// (connection errors, 429 and 5xx responses) with exponential backoff.
func NewClient() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 8 * time.Second
	rc.HTTPClient.Timeout = 20 * time.Second
	rc.Logger = nil
	return rc.StandardClient()
}

// GetBytes performs a GET request and returns the response body.
// Non-2xx statuses that survive the retry policy are errors.
func GetBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// GetJSON performs a GET request and decodes the JSON response into v.
func GetJSON(ctx context.Context, client *http.Client, url string, v any) error {
	body, err := GetBytes(ctx, client, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
