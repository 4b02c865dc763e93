package api

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"TrendScanner/internal/domain"
	"TrendScanner/pkg/pagination"
)

// Collector triggers one collection run.
type Collector interface {
	RunCollection(ctx context.Context, selector domain.Source) (domain.CollectionResult, error)
}

// Enricher runs one summarization batch and reports progress.
type Enricher interface {
	Enrich(ctx context.Context, limit int) (domain.EnrichmentReport, error)
	Stats(ctx context.Context) (domain.SummaryStats, error)
}

// Ranker serves the trending-keyword leaderboard.
type Ranker interface {
	RankKeywords(ctx context.Context, limit int, category string) ([]domain.RankedKeyword, error)
}

// HistoryLister pages through past collection jobs.
type HistoryLister interface {
	List(ctx context.Context, filter domain.JobFilter, req pagination.OffsetRequest) (*pagination.OffsetResult[domain.CollectionJob], error)
}

// Handler exposes the job trigger surface over HTTP.
type Handler struct {
	collector Collector
	enricher  Enricher
	ranker    Ranker
	history   HistoryLister
}

// NewHandler wires the use cases.
func NewHandler(collector Collector, enricher Enricher, ranker Ranker, history HistoryLister) *Handler {
	return &Handler{
		collector: collector,
		enricher:  enricher,
		ranker:    ranker,
		history:   history,
	}
}

// Register binds all routes.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.health)

	g := e.Group("/api")
	g.POST("/collect", h.collect)
	g.GET("/collect/history", h.collectionHistory)
	g.POST("/enrich", h.enrich)
	g.GET("/enrich/stats", h.enrichStats)
	g.GET("/keywords/popular", h.popularKeywords)
}

func (h *Handler) health(c echo.Context) error {
	return c.String(200, "ok")
}

func (h *Handler) collect(c echo.Context) error {
	source, err := domain.ParseSource(c.QueryParam("source"))
	if err != nil {
		return NewValidationWrap("invalid source", err)
	}

	result, err := h.collector.RunCollection(c.Request().Context(), source)
	if err != nil {
		return err
	}
	return ok(c, "collection completed", result)
}

func (h *Handler) collectionHistory(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationWrap("invalid pagination", err)
	}

	var filter domain.JobFilter
	if raw := c.QueryParam("source"); raw != "" {
		source, err := domain.ParseSource(raw)
		if err != nil {
			return NewValidationWrap("invalid source", err)
		}
		filter.Source = source
	}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := domain.ParseJobStatus(raw)
		if err != nil {
			return NewValidationWrap("invalid status", err)
		}
		filter.Status = status
	}

	page, err := h.history.List(c.Request().Context(), filter, req)
	if err != nil {
		return err
	}
	return ok(c, "collection history", page)
}

func (h *Handler) enrich(c echo.Context) error {
	limit, err := optionalInt(c.QueryParam("limit"))
	if err != nil {
		return NewValidationWrap("invalid limit", err)
	}

	report, err := h.enricher.Enrich(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return ok(c, "enrichment completed", report)
}

func (h *Handler) enrichStats(c echo.Context) error {
	stats, err := h.enricher.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, "enrichment stats", stats)
}

func (h *Handler) popularKeywords(c echo.Context) error {
	limit, err := optionalInt(c.QueryParam("limit"))
	if err != nil {
		return NewValidationWrap("invalid limit", err)
	}

	ranked, err := h.ranker.RankKeywords(c.Request().Context(), limit, c.QueryParam("category"))
	if err != nil {
		return err
	}
	return ok(c, "popular keywords", ranked)
}

// optionalInt parses an optional numeric query parameter; empty means zero,
// which the use cases replace with their own defaults.
func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
