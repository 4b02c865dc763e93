package trendfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"TrendScanner/internal/config"
	"TrendScanner/internal/domain"
)

func TestFetchKeywords(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"keywords":[
			{"keyword":"wireless earbuds","category":"electronics","searchVolume":500},
			{"keyword":"tumbler","category":"kitchen"}
		]}`))
	}))
	defer server.Close()

	client := NewClient([]config.SourceConfig{
		{Source: "naver", TrendFeedURL: server.URL},
	})

	samples, err := client.FetchKeywords(context.Background(), domain.SourceNaver)
	if err != nil {
		t.Fatalf("FetchKeywords error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}

	if samples[0].SearchVolume == nil || *samples[0].SearchVolume != 500 {
		t.Fatalf("unexpected volume: %v", samples[0].SearchVolume)
	}
	if samples[1].SearchVolume != nil {
		t.Fatalf("missing volume must stay nil, got %d", *samples[1].SearchVolume)
	}
}

func TestFetchKeywordsUnconfiguredSource(t *testing.T) {
	t.Parallel()

	client := NewClient(nil)
	if _, err := client.FetchKeywords(context.Background(), domain.SourceNaver); err == nil {
		t.Fatal("expected error for unconfigured source")
	}
}

func TestFetchKeywordsServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient([]config.SourceConfig{{Source: "naver", TrendFeedURL: server.URL}})
	if _, err := client.FetchKeywords(context.Background(), domain.SourceNaver); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
