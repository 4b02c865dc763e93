package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"TrendScanner/internal/ports"
)

// maxPageBytes caps how much markup one page fetch may pull in.
const maxPageBytes = 4 << 20

// HTTPFetcher pulls raw marketplace markup over HTTP. Parsing stays out of
// here so the extractor remains pure.
type HTTPFetcher struct {
	client *http.Client
}

var _ ports.PageFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher wires an HTTP client; nil gets a sane default.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

// FetchPage downloads one page and returns its body as a string.
func (f *HTTPFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "TrendScanner/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	return string(body), nil
}
