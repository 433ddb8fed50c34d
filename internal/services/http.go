package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrUpstreamStatus is returned when an upstream answers with a non-2xx status
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	// ErrMissingMeta is returned when Cinemeta answers without a usable meta object
	ErrMissingMeta = errors.New("response has no meta object")
	// ErrMissingHits is returned when the search response has no hits array
	ErrMissingHits = errors.New("response has no hits")
	// ErrMissingFiles is returned when an item listing has no result array
	ErrMissingFiles = errors.New("response has no file listing")
)

const userAgent = "ArchiveStreams/0.0.1 (+https://archive.org)"

func newHTTPClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	// No client timeout: callers bound each lookup through ctx.
	return &http.Client{}
}

// getJSON performs a GET and decodes a successful JSON body into out
func getJSON(ctx context.Context, client *http.Client, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %d for %s", ErrUpstreamStatus, resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}

	return nil
}
