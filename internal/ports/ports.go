package ports

import (
	"context"
	"time"

	"TrendScanner/internal/domain"
)

// PageFetcher pulls raw marketplace markup from upstream sites.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// TrendFeed pulls keyword samples for a source.
type TrendFeed interface {
	FetchKeywords(ctx context.Context, source domain.Source) ([]domain.KeywordSample, error)
}

// Summarizer produces a short synthesized description for an article. An empty
// result with a nil error means "could not summarize".
type Summarizer interface {
	Summarize(ctx context.Context, title, description string) (string, error)
}

// ArticleRepository persists collected articles for deduplication and enrichment.
type ArticleRepository interface {
	ExistsByNaturalKey(ctx context.Context, url, title string, source domain.Source) (bool, error)
	Insert(ctx context.Context, article domain.Article) (int64, error)
	ListUnsummarized(ctx context.Context, limit int) ([]domain.Article, error)
	SetSummary(ctx context.Context, id int64, summary string) error
	SummaryStats(ctx context.Context) (domain.SummaryStats, error)
}

// JobRepository tracks collection run bookkeeping.
type JobRepository interface {
	FindRunning(ctx context.Context) ([]domain.CollectionJob, error)
	Insert(ctx context.Context, job domain.CollectionJob) error
	Finish(ctx context.Context, job domain.CollectionJob) error
	List(ctx context.Context, filter domain.JobFilter, offset, limit int) ([]domain.CollectionJob, error)
	Count(ctx context.Context, filter domain.JobFilter) (int64, error)
}

// TrendRepository persists keywords and reads the ranking inputs.
type TrendRepository interface {
	KeywordExists(ctx context.Context, keyword, category string, source domain.Source) (bool, error)
	InsertKeyword(ctx context.Context, keyword domain.TrendKeyword) (int64, error)
	InsertMetric(ctx context.Context, metric domain.TrendMetric) error
	ListActiveKeywords(ctx context.Context, category string) ([]domain.TrendKeyword, error)
	LatestMetric(ctx context.Context, keywordID int64) (*domain.TrendMetric, error)
	BestActiveMatch(ctx context.Context, keywordID int64) (*domain.MatchedProduct, error)
	CountMatches(ctx context.Context, keywordID int64) (int64, error)
}

// Scheduler controls when recurring collection runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
