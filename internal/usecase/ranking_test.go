package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScanner/internal/domain"
)

func seedKeyword(t *testing.T, trends *fakeTrends, keyword, category string, volume int64) int64 {
	t.Helper()

	id, err := trends.InsertKeyword(context.Background(), domain.TrendKeyword{
		Keyword:  keyword,
		Category: category,
		Source:   domain.SourceNaver,
		IsActive: true,
	})
	require.NoError(t, err)

	if volume >= 0 {
		require.NoError(t, trends.InsertMetric(context.Background(), domain.TrendMetric{
			KeywordID:    id,
			SearchVolume: volume,
			CollectedAt:  time.Now(),
		}))
	}
	return id
}

func TestRankKeywordsOrdering(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{}
	seedKeyword(t, trends, "j-keyword", "electronics", 300)
	seedKeyword(t, trends, "k-keyword", "electronics", 500)

	ranker := NewRanker(trends)

	rows, err := ranker.RankKeywords(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "k-keyword", rows[0].Keyword)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, int64(500), rows[0].SearchVolume)
	assert.Equal(t, "j-keyword", rows[1].Keyword)
	assert.Equal(t, 2, rows[1].Rank)

	top, err := ranker.RankKeywords(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "k-keyword", top[0].Keyword)
}

func TestRankKeywordsLatestMetricWins(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{}
	id := seedKeyword(t, trends, "keyword", "", 100)
	require.NoError(t, trends.InsertMetric(context.Background(), domain.TrendMetric{
		KeywordID:    id,
		SearchVolume: 900,
		CollectedAt:  time.Now().Add(time.Hour),
	}))

	rows, err := NewRanker(trends).RankKeywords(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(900), rows[0].SearchVolume)
}

func TestRankKeywordsNoMetricDefaultsToZero(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{}
	seedKeyword(t, trends, "fresh", "", -1)

	rows, err := NewRanker(trends).RankKeywords(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].SearchVolume)
	assert.Nil(t, rows[0].BestMatch)
}

func TestRankKeywordsTieBreakByID(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{}
	first := seedKeyword(t, trends, "b-keyword", "", 500)
	seedKeyword(t, trends, "a-keyword", "", 500)

	rows, err := NewRanker(trends).RankKeywords(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Equal volumes order by keyword id ascending.
	assert.Equal(t, first, rows[0].KeywordID)
}

func TestRankKeywordsCategoryFilter(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{}
	seedKeyword(t, trends, "earbuds", "electronics", 500)
	seedKeyword(t, trends, "tumbler", "kitchen", 900)

	rows, err := NewRanker(trends).RankKeywords(context.Background(), 10, "electronics")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "earbuds", rows[0].Keyword)
}

func TestRankKeywordsBestActiveMatch(t *testing.T) {
	t.Parallel()

	trends := &fakeTrends{products: map[int64]domain.Product{
		1: {ID: 1, Name: "Active cheap", Price: 1000, IsActive: true},
		2: {ID: 2, Name: "Inactive best", Price: 2000, IsActive: false},
		3: {ID: 3, Name: "Active best", Price: 3000, IsActive: true},
	}}
	id := seedKeyword(t, trends, "earbuds", "", 500)

	trends.matches = []domain.ProductMatch{
		{KeywordID: id, ProductID: 1, MatchScore: 0.4},
		{KeywordID: id, ProductID: 2, MatchScore: 0.9},
		{KeywordID: id, ProductID: 3, MatchScore: 0.7},
	}

	rows, err := NewRanker(trends).RankKeywords(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Highest score among active products only; count ignores activity.
	require.NotNil(t, rows[0].BestMatch)
	assert.Equal(t, int64(3), rows[0].BestMatch.ProductID)
	assert.Equal(t, int64(3), rows[0].ProductCount)
}
