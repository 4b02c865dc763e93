package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"TrendScanner/internal/config"
	"TrendScanner/internal/domain"
	"TrendScanner/internal/extract"
	"TrendScanner/internal/ports"
)

// CollectorDeps wires all driven adapters into the collection orchestrator.
type CollectorDeps struct {
	Fetcher   ports.PageFetcher
	TrendFeed ports.TrendFeed
	Articles  ports.ArticleRepository
	Jobs      ports.JobRepository
	Trends    ports.TrendRepository
	Enricher  *Enricher
	Sources   []config.SourceConfig
	PartnerID string
	Logger    *slog.Logger
}

// Collector drives one collection run: fetch pages, extract, deduplicate,
// persist, then delegate to enrichment.
type Collector struct {
	fetcher   ports.PageFetcher
	trendFeed ports.TrendFeed
	articles  ports.ArticleRepository
	jobs      ports.JobRepository
	trends    ports.TrendRepository
	enricher  *Enricher
	sources   []config.SourceConfig
	partnerID string
	logger    *slog.Logger
	now       func() time.Time
}

// NewCollector constructs the orchestration component.
func NewCollector(deps CollectorDeps) *Collector {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		fetcher:   deps.Fetcher,
		trendFeed: deps.TrendFeed,
		articles:  deps.Articles,
		jobs:      deps.Jobs,
		trends:    deps.Trends,
		enricher:  deps.Enricher,
		sources:   deps.Sources,
		partnerID: deps.PartnerID,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RunCollection executes one run for the selected source (or all sources).
//
// At most one job may be RUNNING at a time. The check against the store is
// pessimistic but not a hard lock; the partial unique index in db/schema.sql is
// the backstop when several instances race past it.
func (c *Collector) RunCollection(ctx context.Context, selector domain.Source) (domain.CollectionResult, error) {
	running, err := c.jobs.FindRunning(ctx)
	if err != nil {
		return domain.CollectionResult{}, fmt.Errorf("check running jobs: %w", err)
	}
	if len(running) > 0 {
		ids := make([]uuid.UUID, 0, len(running))
		for _, j := range running {
			ids = append(ids, j.ID)
		}
		return domain.CollectionResult{}, &domain.ConflictError{RunningJobs: ids}
	}

	job := domain.CollectionJob{
		ID:        uuid.New(),
		Source:    selector,
		Status:    domain.JobRunning,
		StartedAt: c.now(),
	}
	if err := c.jobs.Insert(ctx, job); err != nil {
		return domain.CollectionResult{}, fmt.Errorf("insert job: %w", err)
	}

	c.logger.Info("collection started", "job", job.ID, "source", selector)
	runErr := c.run(ctx, &job, selector)

	if runErr == nil && c.enricher != nil {
		report, enrichErr := c.enricher.Enrich(ctx, 0)
		job.Summarized = report.Succeeded
		for _, msg := range report.Errors {
			job.Errors = domain.AppendBoundedError(job.Errors, msg)
		}
		if enrichErr != nil {
			// Enrichment failure never fails an otherwise successful collection.
			job.Errors = domain.AppendBoundedError(job.Errors, "enrich: "+enrichErr.Error())
			c.logger.Warn("enrichment failed", "job", job.ID, "error", enrichErr)
		}
	}

	finished := c.now()
	job.FinishedAt = &finished
	job.Status = domain.JobCompleted
	if runErr != nil {
		job.Status = domain.JobFailed
		job.Errors = domain.AppendBoundedError(job.Errors, runErr.Error())
	}

	if err := c.jobs.Finish(ctx, job); err != nil {
		c.logger.Error("finish job", "job", job.ID, "error", err)
		if runErr == nil {
			runErr = fmt.Errorf("finish job: %w", err)
		}
	}

	result := domain.CollectionResult{
		JobID:       job.ID,
		Source:      selector,
		NewArticles: job.NewArticles,
		NewKeywords: job.NewKeywords,
		Duplicates:  job.Duplicates,
		Summarized:  job.Summarized,
		Errors:      job.Errors,
	}

	c.logger.Info("collection finished",
		"job", job.ID,
		"status", job.Status,
		"new_articles", job.NewArticles,
		"new_keywords", job.NewKeywords,
		"duplicates", job.Duplicates,
	)

	return result, runErr
}

// run walks the selected sources. Page-level failures are recorded and skipped;
// store failures abort the run and surface as the returned error. Progress that
// was already persisted stays persisted.
func (c *Collector) run(ctx context.Context, job *domain.CollectionJob, selector domain.Source) error {
	for _, src := range c.selectedSources(selector) {
		source := domain.Source(src.Source)

		for _, page := range src.Pages {
			markup, err := c.fetcher.FetchPage(ctx, page.URL)
			if err != nil {
				job.Errors = domain.AppendBoundedError(job.Errors, fmt.Sprintf("fetch %s: %v", page.Name, err))
				c.logger.Warn("page fetch failed", "job", job.ID, "page", page.URL, "error", err)
				continue
			}

			pageType, records := extract.Extract(markup)
			c.logger.Debug("page extracted", "page", page.Name, "type", pageType, "records", len(records))

			if err := c.persistRecords(ctx, job, source, records); err != nil {
				return err
			}
		}

		if err := c.collectKeywords(ctx, job, src, source); err != nil {
			return err
		}
	}

	return nil
}

func (c *Collector) persistRecords(ctx context.Context, job *domain.CollectionJob, source domain.Source, records []domain.ProductRecord) error {
	for _, rec := range records {
		sourceURL := extract.ToAffiliateURL(rec.SourceURL, c.partnerID)

		exists, err := c.articles.ExistsByNaturalKey(ctx, sourceURL, rec.Name, source)
		if err != nil {
			return fmt.Errorf("dedupe %q: %w", rec.Name, err)
		}
		if exists {
			// Existing records are left untouched; no field overwrite.
			job.Duplicates++
			continue
		}

		article := domain.Article{
			Title:       rec.Name,
			Description: describeRecord(rec),
			URL:         sourceURL,
			Source:      source,
			IsActive:    true,
		}
		if _, err := c.articles.Insert(ctx, article); err != nil {
			return fmt.Errorf("insert article %q: %w", rec.Name, err)
		}
		job.NewArticles++
	}
	return nil
}

func (c *Collector) collectKeywords(ctx context.Context, job *domain.CollectionJob, src config.SourceConfig, source domain.Source) error {
	if c.trendFeed == nil || src.TrendFeedURL == "" {
		return nil
	}

	samples, err := c.trendFeed.FetchKeywords(ctx, source)
	if err != nil {
		// The feed is an external collaborator; its outage is page-level, not run-level.
		job.Errors = domain.AppendBoundedError(job.Errors, fmt.Sprintf("trend feed %s: %v", source, err))
		c.logger.Warn("trend feed failed", "job", job.ID, "source", source, "error", err)
		return nil
	}

	for _, sample := range samples {
		keyword := strings.TrimSpace(sample.Keyword)
		if keyword == "" {
			continue
		}

		exists, err := c.trends.KeywordExists(ctx, keyword, sample.Category, source)
		if err != nil {
			return fmt.Errorf("dedupe keyword %q: %w", keyword, err)
		}
		if exists {
			job.Duplicates++
			continue
		}

		id, err := c.trends.InsertKeyword(ctx, domain.TrendKeyword{
			Keyword:  keyword,
			Category: sample.Category,
			Source:   source,
			IsActive: true,
		})
		if err != nil {
			return fmt.Errorf("insert keyword %q: %w", keyword, err)
		}
		job.NewKeywords++

		if sample.SearchVolume != nil {
			metric := domain.TrendMetric{
				KeywordID:    id,
				SearchVolume: *sample.SearchVolume,
				CollectedAt:  c.now(),
			}
			if err := c.trends.InsertMetric(ctx, metric); err != nil {
				return fmt.Errorf("insert metric for %q: %w", keyword, err)
			}
		}
	}

	return nil
}

func (c *Collector) selectedSources(selector domain.Source) []config.SourceConfig {
	if selector == domain.SourceAll || selector == "" {
		return c.sources
	}
	for _, src := range c.sources {
		if domain.Source(src.Source) == selector {
			return []config.SourceConfig{src}
		}
	}
	return nil
}

// describeRecord renders the price facts as the article description the
// summarizer later works from.
func describeRecord(rec domain.ProductRecord) string {
	parts := make([]string, 0, 3)
	if rec.Price != nil {
		parts = append(parts, fmt.Sprintf("price %d", *rec.Price))
	}
	if rec.OriginalPrice != nil {
		parts = append(parts, fmt.Sprintf("was %d", *rec.OriginalPrice))
	}
	if rec.DiscountRate != nil {
		parts = append(parts, fmt.Sprintf("%d%% off", *rec.DiscountRate))
	}
	return strings.Join(parts, ", ")
}
