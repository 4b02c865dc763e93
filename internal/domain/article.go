package domain

import (
	"fmt"
	"time"
)

// Source identifies the origin site of collected data.
type Source string

const (
	SourceCoupang Source = "coupang"
	SourceNaver   Source = "naver"

	// SourceAll is a selector value only; it is never persisted on a record.
	SourceAll Source = "all"
)

// Sources lists every concrete origin site.
func Sources() []Source {
	return []Source{SourceCoupang, SourceNaver}
}

// ParseSource validates a selector coming from the outside (HTTP query, cron config).
// An empty selector means "all sources".
func ParseSource(raw string) (Source, error) {
	switch Source(raw) {
	case SourceCoupang, SourceNaver, SourceAll:
		return Source(raw), nil
	case "":
		return SourceAll, nil
	}
	return "", fmt.Errorf("unknown source %q", raw)
}

// Article is a collected record persisted for deduplication and enrichment.
// Summary stays nil until the enrichment step sets it exactly once; articles are
// deactivated, never deleted.
type Article struct {
	ID          int64
	Title       string
	Description string
	URL         string
	Summary     *string
	Source      Source
	IsActive    bool
	CreatedAt   time.Time
}

// ProductRecord is the transient extractor output. Optional fields are nil when
// the source fragment did not carry them.
type ProductRecord struct {
	Name          string
	ImageURL      string
	SourceURL     string
	Price         *int64
	OriginalPrice *int64
	DiscountRate  *int
}
