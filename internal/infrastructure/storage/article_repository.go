package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"TrendScanner/internal/domain"
	"TrendScanner/internal/ports"
)

// ArticleRepository persists collected articles in Postgres.
type ArticleRepository struct {
	db *pgxpool.Pool
}

var _ ports.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository wires a pgx pool.
func NewArticleRepository(db *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// ExistsByNaturalKey reports whether an article with the same source URL, or
// the same title within the same source, is already stored.
func (r *ArticleRepository) ExistsByNaturalKey(ctx context.Context, url, title string, source domain.Source) (bool, error) {
	query, args, err := qb.Select("1").
		From("articles").
		Where(sq.Or{
			sq.Eq{"url": url},
			sq.And{sq.Eq{"title": title}, sq.Eq{"source": string(source)}},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query natural key: %w", err)
	}
	return true, nil
}

// Insert stores a new article and returns its generated id.
func (r *ArticleRepository) Insert(ctx context.Context, article domain.Article) (int64, error) {
	query, args, err := qb.Insert("articles").
		Columns("title", "description", "url", "source", "is_active").
		Values(article.Title, article.Description, article.URL, string(article.Source), article.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}
	return id, nil
}

// ListUnsummarized returns up to limit active articles without a summary,
// newest first.
func (r *ArticleRepository) ListUnsummarized(ctx context.Context, limit int) ([]domain.Article, error) {
	query, args, err := qb.Select("id", "title", "description", "url", "summary", "source", "is_active", "created_at").
		From("articles").
		Where(sq.Eq{"is_active": true}).
		Where("summary IS NULL").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unsummarized: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.URL, &a.Summary, &a.Source, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

// SetSummary writes the summary once; an already-summarized article is left
// untouched.
func (r *ArticleRepository) SetSummary(ctx context.Context, id int64, summary string) error {
	query, args, err := qb.Update("articles").
		Set("summary", summary).
		Where(sq.Eq{"id": id}).
		Where("summary IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("set summary: %w", err)
	}
	return nil
}

// SummaryStats counts summarized and unsummarized active articles.
func (r *ArticleRepository) SummaryStats(ctx context.Context) (domain.SummaryStats, error) {
	query, args, err := qb.Select(
		"COUNT(*) FILTER (WHERE summary IS NOT NULL)",
		"COUNT(*) FILTER (WHERE summary IS NULL)",
	).
		From("articles").
		Where(sq.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return domain.SummaryStats{}, fmt.Errorf("build query: %w", err)
	}

	var stats domain.SummaryStats
	if err := r.db.QueryRow(ctx, query, args...).Scan(&stats.Summarized, &stats.Unsummarized); err != nil {
		return domain.SummaryStats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}
