package usecase

import (
	"context"
	"fmt"
	"sort"

	"TrendScanner/internal/domain"
	"TrendScanner/internal/ports"
)

// MaxRankLimit caps the leaderboard size.
const MaxRankLimit = 50

// Ranker produces the trending-keyword leaderboard. It is read-only and safe to
// call concurrently with collection and enrichment.
type Ranker struct {
	trends ports.TrendRepository
}

// NewRanker wires the trend repository.
func NewRanker(trends ports.TrendRepository) *Ranker {
	return &Ranker{trends: trends}
}

// RankKeywords joins each active keyword with its most recent search volume
// (0 when no sample exists yet), its highest-scoring active-product match, and
// its total match count. Rows sort by search volume descending; equal volumes
// are ordered by keyword id ascending so the result is deterministic regardless
// of storage read order. Rank is the 1-based position after truncation.
func (r *Ranker) RankKeywords(ctx context.Context, limit int, category string) ([]domain.RankedKeyword, error) {
	if limit <= 0 || limit > MaxRankLimit {
		limit = MaxRankLimit
	}

	keywords, err := r.trends.ListActiveKeywords(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}

	rows := make([]domain.RankedKeyword, 0, len(keywords))
	for _, kw := range keywords {
		row := domain.RankedKeyword{
			KeywordID: kw.ID,
			Keyword:   kw.Keyword,
			Category:  kw.Category,
			Source:    kw.Source,
		}

		metric, err := r.trends.LatestMetric(ctx, kw.ID)
		if err != nil {
			return nil, fmt.Errorf("latest metric for %d: %w", kw.ID, err)
		}
		if metric != nil {
			row.SearchVolume = metric.SearchVolume
		}

		match, err := r.trends.BestActiveMatch(ctx, kw.ID)
		if err != nil {
			return nil, fmt.Errorf("best match for %d: %w", kw.ID, err)
		}
		row.BestMatch = match

		count, err := r.trends.CountMatches(ctx, kw.ID)
		if err != nil {
			return nil, fmt.Errorf("count matches for %d: %w", kw.ID, err)
		}
		row.ProductCount = count

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SearchVolume != rows[j].SearchVolume {
			return rows[i].SearchVolume > rows[j].SearchVolume
		}
		return rows[i].KeywordID < rows[j].KeywordID
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows, nil
}
