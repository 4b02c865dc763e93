package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TrendScanner/internal/domain"
)

type fakeArticles struct {
	nextID     int64
	articles   []domain.Article
	insertErr  error
	summaryErr error
}

func (f *fakeArticles) seed(url, title string, source domain.Source, summary string) {
	f.nextID++
	a := domain.Article{
		ID:        f.nextID,
		Title:     title,
		URL:       url,
		Source:    source,
		IsActive:  true,
		CreatedAt: time.Unix(f.nextID, 0),
	}
	if summary != "" {
		a.Summary = &summary
	}
	f.articles = append(f.articles, a)
}

func (f *fakeArticles) ExistsByNaturalKey(_ context.Context, url, title string, source domain.Source) (bool, error) {
	for _, a := range f.articles {
		if a.URL == url || (a.Title == title && a.Source == source) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeArticles) Insert(_ context.Context, article domain.Article) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	article.ID = f.nextID
	article.CreatedAt = time.Unix(f.nextID, 0)
	f.articles = append(f.articles, article)
	return article.ID, nil
}

func (f *fakeArticles) ListUnsummarized(_ context.Context, limit int) ([]domain.Article, error) {
	var out []domain.Article
	for i := len(f.articles) - 1; i >= 0 && len(out) < limit; i-- {
		a := f.articles[i]
		if a.IsActive && a.Summary == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticles) SetSummary(_ context.Context, id int64, summary string) error {
	if f.summaryErr != nil {
		return f.summaryErr
	}
	for i := range f.articles {
		if f.articles[i].ID == id {
			f.articles[i].Summary = &summary
			return nil
		}
	}
	return fmt.Errorf("article %d not found", id)
}

func (f *fakeArticles) SummaryStats(context.Context) (domain.SummaryStats, error) {
	var stats domain.SummaryStats
	for _, a := range f.articles {
		if a.Summary != nil {
			stats.Summarized++
		} else {
			stats.Unsummarized++
		}
	}
	return stats, nil
}

type fakeJobs struct {
	jobs    []domain.CollectionJob
	findErr error
}

func (f *fakeJobs) FindRunning(context.Context) ([]domain.CollectionJob, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []domain.CollectionJob
	for _, j := range f.jobs {
		if j.Status == domain.JobRunning {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobs) Insert(_ context.Context, job domain.CollectionJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeJobs) Finish(_ context.Context, job domain.CollectionJob) error {
	for i := range f.jobs {
		if f.jobs[i].ID == job.ID {
			f.jobs[i] = job
			return nil
		}
	}
	return fmt.Errorf("job %s not found", job.ID)
}

func (f *fakeJobs) matches(j domain.CollectionJob, filter domain.JobFilter) bool {
	if filter.Source != "" && j.Source != filter.Source {
		return false
	}
	if filter.Status != "" && j.Status != filter.Status {
		return false
	}
	return true
}

func (f *fakeJobs) List(_ context.Context, filter domain.JobFilter, offset, limit int) ([]domain.CollectionJob, error) {
	var filtered []domain.CollectionJob
	for i := len(f.jobs) - 1; i >= 0; i-- {
		if f.matches(f.jobs[i], filter) {
			filtered = append(filtered, f.jobs[i])
		}
	}
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (f *fakeJobs) Count(_ context.Context, filter domain.JobFilter) (int64, error) {
	var n int64
	for _, j := range f.jobs {
		if f.matches(j, filter) {
			n++
		}
	}
	return n, nil
}

type fakeTrends struct {
	nextID   int64
	keywords []domain.TrendKeyword
	metrics  []domain.TrendMetric
	matches  []domain.ProductMatch
	products map[int64]domain.Product
}

func (f *fakeTrends) KeywordExists(_ context.Context, keyword, category string, source domain.Source) (bool, error) {
	for _, k := range f.keywords {
		if k.Keyword == keyword && k.Category == category && k.Source == source {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTrends) InsertKeyword(_ context.Context, keyword domain.TrendKeyword) (int64, error) {
	f.nextID++
	keyword.ID = f.nextID
	f.keywords = append(f.keywords, keyword)
	return keyword.ID, nil
}

func (f *fakeTrends) InsertMetric(_ context.Context, metric domain.TrendMetric) error {
	f.metrics = append(f.metrics, metric)
	return nil
}

func (f *fakeTrends) ListActiveKeywords(_ context.Context, category string) ([]domain.TrendKeyword, error) {
	var out []domain.TrendKeyword
	for _, k := range f.keywords {
		if k.IsActive && (category == "" || k.Category == category) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeTrends) LatestMetric(_ context.Context, keywordID int64) (*domain.TrendMetric, error) {
	var latest *domain.TrendMetric
	for i := range f.metrics {
		m := f.metrics[i]
		if m.KeywordID != keywordID {
			continue
		}
		if latest == nil || m.CollectedAt.After(latest.CollectedAt) {
			latest = &f.metrics[i]
		}
	}
	return latest, nil
}

func (f *fakeTrends) BestActiveMatch(_ context.Context, keywordID int64) (*domain.MatchedProduct, error) {
	var best *domain.MatchedProduct
	for _, m := range f.matches {
		if m.KeywordID != keywordID {
			continue
		}
		p, ok := f.products[m.ProductID]
		if !ok || !p.IsActive {
			continue
		}
		if best == nil || m.MatchScore > best.MatchScore {
			best = &domain.MatchedProduct{
				ProductID:    p.ID,
				Name:         p.Name,
				ThumbnailURL: p.ThumbnailURL,
				Price:        p.Price,
				MatchScore:   m.MatchScore,
			}
		}
	}
	return best, nil
}

func (f *fakeTrends) CountMatches(_ context.Context, keywordID int64) (int64, error) {
	var n int64
	for _, m := range f.matches {
		if m.KeywordID == keywordID {
			n++
		}
	}
	return n, nil
}

type fakeFetcher struct {
	pages map[string]string
	fail  map[string]error
}

func (f *fakeFetcher) FetchPage(_ context.Context, pageURL string) (string, error) {
	if err, ok := f.fail[pageURL]; ok {
		return "", err
	}
	markup, ok := f.pages[pageURL]
	if !ok {
		return "", fmt.Errorf("no page for %s", pageURL)
	}
	return markup, nil
}

type fakeFeed struct {
	samples []domain.KeywordSample
	err     error
}

func (f *fakeFeed) FetchKeywords(context.Context, domain.Source) ([]domain.KeywordSample, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.samples, nil
}

type fakeSummarizer struct {
	failTitles  map[string]bool
	emptyTitles map[string]bool
	failAll     bool
	calls       int
}

func (f *fakeSummarizer) Summarize(_ context.Context, title, _ string) (string, error) {
	f.calls++
	if f.failAll || f.failTitles[title] {
		return "", fmt.Errorf("summarizer unavailable")
	}
	if f.emptyTitles[title] {
		return "", nil
	}
	return "summary of " + title, nil
}

func productUnit(id, name string) string {
	return fmt.Sprintf(
		`<li><a href="/vp/products/%s"><img src="//img.marketcdn.net/%s.jpg"><div class="product-name">%s</div><strong class="sale-price">1,000</strong></a></li>`,
		id, id, name)
}

func goldboxPage(units ...string) string {
	return `<ul class="goldbox-product-list">` + strings.Join(units, "") + `</ul>`
}
