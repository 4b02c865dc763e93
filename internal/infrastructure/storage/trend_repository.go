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

// TrendRepository persists trend keywords and serves the ranking reads.
type TrendRepository struct {
	db *pgxpool.Pool
}

var _ ports.TrendRepository = (*TrendRepository)(nil)

// NewTrendRepository wires a pgx pool.
func NewTrendRepository(db *pgxpool.Pool) *TrendRepository {
	return &TrendRepository{db: db}
}

// KeywordExists checks the (keyword, category, source) natural key.
func (r *TrendRepository) KeywordExists(ctx context.Context, keyword, category string, source domain.Source) (bool, error) {
	query, args, err := qb.Select("1").
		From("trend_keywords").
		Where(sq.Eq{"keyword": keyword, "category": category, "source": string(source)}).
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
		return false, fmt.Errorf("query keyword: %w", err)
	}
	return true, nil
}

// InsertKeyword stores a new keyword and returns its generated id.
func (r *TrendRepository) InsertKeyword(ctx context.Context, keyword domain.TrendKeyword) (int64, error) {
	query, args, err := qb.Insert("trend_keywords").
		Columns("keyword", "category", "source", "is_active").
		Values(keyword.Keyword, keyword.Category, string(keyword.Source), keyword.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert keyword: %w", err)
	}
	return id, nil
}

// InsertMetric appends one search-volume sample.
func (r *TrendRepository) InsertMetric(ctx context.Context, metric domain.TrendMetric) error {
	query, args, err := qb.Insert("trend_metrics").
		Columns("keyword_id", "search_volume", "collected_at").
		Values(metric.KeywordID, metric.SearchVolume, metric.CollectedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert metric: %w", err)
	}
	return nil
}

// ListActiveKeywords returns active keywords, optionally narrowed to a category.
func (r *TrendRepository) ListActiveKeywords(ctx context.Context, category string) ([]domain.TrendKeyword, error) {
	builder := qb.Select("id", "keyword", "category", "source", "is_active", "created_at").
		From("trend_keywords").
		Where(sq.Eq{"is_active": true}).
		OrderBy("id ASC")
	if category != "" {
		builder = builder.Where(sq.Eq{"category": category})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	keywords, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TrendKeyword, error) {
		var k domain.TrendKeyword
		err := row.Scan(&k.ID, &k.Keyword, &k.Category, &k.Source, &k.IsActive, &k.CreatedAt)
		return k, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan keywords: %w", err)
	}
	return keywords, nil
}

// LatestMetric returns the most recent sample for a keyword, or nil when none
// has been collected yet.
func (r *TrendRepository) LatestMetric(ctx context.Context, keywordID int64) (*domain.TrendMetric, error) {
	query, args, err := qb.Select("id", "keyword_id", "search_volume", "collected_at").
		From("trend_metrics").
		Where(sq.Eq{"keyword_id": keywordID}).
		OrderBy("collected_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m domain.TrendMetric
	err = r.db.QueryRow(ctx, query, args...).Scan(&m.ID, &m.KeywordID, &m.SearchVolume, &m.CollectedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query metric: %w", err)
	}
	return &m, nil
}

// BestActiveMatch returns the highest-scoring match whose product is active,
// or nil when the keyword has none.
func (r *TrendRepository) BestActiveMatch(ctx context.Context, keywordID int64) (*domain.MatchedProduct, error) {
	query, args, err := qb.Select("p.id", "p.name", "p.thumbnail_url", "p.price", "m.match_score").
		From("product_matches m").
		Join("products p ON p.id = m.product_id").
		Where(sq.Eq{"m.keyword_id": keywordID, "p.is_active": true}).
		OrderBy("m.match_score DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p domain.MatchedProduct
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.ProductID, &p.Name, &p.ThumbnailURL, &p.Price, &p.MatchScore)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query match: %w", err)
	}
	return &p, nil
}

// CountMatches counts every match for the keyword regardless of product state.
func (r *TrendRepository) CountMatches(ctx context.Context, keywordID int64) (int64, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("product_matches").
		Where(sq.Eq{"keyword_id": keywordID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return total, nil
}
