package domain

import "time"

// TrendKeyword is a keyword tracked for ranking, unique per (keyword, category, source).
type TrendKeyword struct {
	ID        int64
	Keyword   string
	Category  string
	Source    Source
	IsActive  bool
	CreatedAt time.Time
}

// TrendMetric is one append-only search-volume sample. Only the most recent
// sample per keyword matters for ranking.
type TrendMetric struct {
	ID           int64
	KeywordID    int64
	SearchVolume int64
	CollectedAt  time.Time
}

// ProductMatch links a keyword to a product with a relevance score.
type ProductMatch struct {
	ID         int64
	KeywordID  int64
	ProductID  int64
	MatchScore float64
}

// Product is a matchable catalog entry.
type Product struct {
	ID           int64
	Name         string
	ThumbnailURL string
	Price        int64
	IsActive     bool
}

// MatchedProduct is the joined view of a keyword's best active-product match.
type MatchedProduct struct {
	ProductID    int64   `json:"productId"`
	Name         string  `json:"name"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Price        int64   `json:"price"`
	MatchScore   float64 `json:"matchScore"`
}

// RankedKeyword is one leaderboard row. Rank is the 1-based position after
// sorting and truncation.
type RankedKeyword struct {
	Rank         int             `json:"rank"`
	KeywordID    int64           `json:"keywordId"`
	Keyword      string          `json:"keyword"`
	Category     string          `json:"category"`
	Source       Source          `json:"source"`
	SearchVolume int64           `json:"searchVolume"`
	ProductCount int64           `json:"productCount"`
	BestMatch    *MatchedProduct `json:"bestMatch,omitempty"`
}

// KeywordSample is one entry from a trend feed. SearchVolume is nil when the
// feed did not report a volume for the keyword.
type KeywordSample struct {
	Keyword      string
	Category     string
	SearchVolume *int64
}
