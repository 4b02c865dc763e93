package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"TrendScanner/internal/domain"
	"TrendScanner/internal/ports"
)

// MaxEnrichLimit caps one enrichment batch so a single invocation finishes in
// bounded wall-clock time.
const MaxEnrichLimit = 50

// Enricher attaches generated summaries to collected articles. Calls to the
// summarizer are strictly sequential and paced by a fixed-interval gate; there
// is deliberately no concurrent fan-out and no adaptive backoff.
type Enricher struct {
	articles     ports.ArticleRepository
	summarizer   ports.Summarizer
	gate         *rate.Limiter
	defaultLimit int
	logger       *slog.Logger
}

// NewEnricher builds the step with the pacing interval between summarizer calls.
func NewEnricher(articles ports.ArticleRepository, summarizer ports.Summarizer, interval time.Duration, defaultLimit int, logger *slog.Logger) *Enricher {
	if interval <= 0 {
		interval = time.Second
	}
	if defaultLimit <= 0 || defaultLimit > MaxEnrichLimit {
		defaultLimit = MaxEnrichLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		articles:     articles,
		summarizer:   summarizer,
		gate:         rate.NewLimiter(rate.Every(interval), 1),
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Enrich selects up to limit active, summary-less articles (newest first) and
// summarizes them one by one. Already-summarized articles are never reselected,
// so repeated invocations converge. One item's failure never aborts the batch;
// only a store failure does.
func (e *Enricher) Enrich(ctx context.Context, limit int) (domain.EnrichmentReport, error) {
	if limit <= 0 {
		limit = e.defaultLimit
	}
	if limit > MaxEnrichLimit {
		limit = MaxEnrichLimit
	}

	var report domain.EnrichmentReport

	if e.summarizer == nil {
		return report, nil
	}

	articles, err := e.articles.ListUnsummarized(ctx, limit)
	if err != nil {
		return report, fmt.Errorf("select articles: %w", err)
	}

	for _, article := range articles {
		report.Processed++

		summary, sErr := e.summarizer.Summarize(ctx, article.Title, article.Description)
		switch {
		case sErr != nil:
			report.Failed++
			report.Errors = domain.AppendBoundedError(report.Errors, fmt.Sprintf("%d: %v", article.ID, sErr))
			e.logger.Warn("summarize failed", "article", article.ID, "error", sErr)
		case summary == "":
			// "Could not summarize" and a hard error are treated uniformly.
			report.Failed++
			report.Errors = domain.AppendBoundedError(report.Errors, fmt.Sprintf("%d: empty summary", article.ID))
		default:
			if err := e.articles.SetSummary(ctx, article.ID, summary); err != nil {
				return report, fmt.Errorf("persist summary for %d: %w", article.ID, err)
			}
			report.Succeeded++
		}

		// Fixed-interval gate after every call, success or failure. A canceled
		// context cuts the batch off; everything persisted so far stays valid.
		if err := e.gate.Wait(ctx); err != nil {
			return report, err
		}
	}

	return report, nil
}

// Stats reports summarized vs. unsummarized counts over the whole store.
func (e *Enricher) Stats(ctx context.Context) (domain.SummaryStats, error) {
	stats, err := e.articles.SummaryStats(ctx)
	if err != nil {
		return domain.SummaryStats{}, fmt.Errorf("summary stats: %w", err)
	}
	return stats, nil
}
