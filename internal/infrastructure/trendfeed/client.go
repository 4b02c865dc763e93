package trendfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"TrendScanner/internal/config"
	"TrendScanner/internal/domain"
	"TrendScanner/internal/ports"
)

// Client fetches keyword samples from per-source JSON trend feeds.
type Client struct {
	urls map[domain.Source]string
	http *http.Client
}

var _ ports.TrendFeed = (*Client)(nil)

// NewClient maps each configured source to its feed endpoint.
func NewClient(sources []config.SourceConfig) *Client {
	urls := make(map[domain.Source]string, len(sources))
	for _, src := range sources {
		if src.TrendFeedURL != "" {
			urls[domain.Source(src.Source)] = src.TrendFeedURL
		}
	}
	return &Client{
		urls: urls,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type feedResponse struct {
	Keywords []struct {
		Keyword      string `json:"keyword"`
		Category     string `json:"category"`
		SearchVolume *int64 `json:"searchVolume"`
	} `json:"keywords"`
}

// FetchKeywords pulls the current samples for one source.
func (c *Client) FetchKeywords(ctx context.Context, source domain.Source) ([]domain.KeywordSample, error) {
	feedURL, ok := c.urls[source]
	if !ok {
		return nil, fmt.Errorf("no trend feed configured for %s", source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	var parsed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	samples := make([]domain.KeywordSample, 0, len(parsed.Keywords))
	for _, k := range parsed.Keywords {
		samples = append(samples, domain.KeywordSample{
			Keyword:      k.Keyword,
			Category:     k.Category,
			SearchVolume: k.SearchVolume,
		})
	}

	return samples, nil
}
