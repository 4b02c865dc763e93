package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"TrendScanner/internal/api"
	"TrendScanner/internal/config"
	"TrendScanner/internal/domain"
	"TrendScanner/internal/infrastructure/fetcher"
	"TrendScanner/internal/infrastructure/llm"
	"TrendScanner/internal/infrastructure/scheduler"
	"TrendScanner/internal/infrastructure/storage"
	"TrendScanner/internal/infrastructure/trendfeed"
	"TrendScanner/internal/logging"
	"TrendScanner/internal/ports"
	"TrendScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	echo      *echo.Echo
	pool      *pgxpool.Pool
	scheduler ports.Scheduler
	collector *usecase.Collector
}

// New builds a runnable application instance: store, adapters, use cases, and
// the HTTP trigger surface.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	pool, err := storage.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	articles := storage.NewArticleRepository(pool)
	jobs := storage.NewJobRepository(pool)
	trends := storage.NewTrendRepository(pool)

	var summarizer ports.Summarizer
	if cfg.Summarizer.APIKey != "" {
		summarizer = llm.NewSummarizerClient(cfg.Summarizer)
	}

	enricher := usecase.NewEnricher(
		articles,
		summarizer,
		cfg.Enrichment.Interval(),
		cfg.Enrichment.BatchLimit,
		logging.Component(baseLogger, "enricher"),
	)

	collector := usecase.NewCollector(usecase.CollectorDeps{
		Fetcher:   fetcher.NewHTTPFetcher(nil),
		TrendFeed: trendfeed.NewClient(cfg.Sources),
		Articles:  articles,
		Jobs:      jobs,
		Trends:    trends,
		Enricher:  enricher,
		Sources:   cfg.Sources,
		PartnerID: cfg.Affiliate.PartnerID,
		Logger:    logging.Component(baseLogger, "collector"),
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.ErrorHandler(logging.Component(baseLogger, "http"))
	e.Use(middleware.Recover())
	e.Use(api.RequestLogger(logging.Component(baseLogger, "http")))

	api.NewHandler(collector, enricher, usecase.NewRanker(trends), usecase.NewHistory(jobs)).Register(e)

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		echo:      e,
		pool:      pool,
		scheduler: scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location()),
		collector: collector,
	}, nil
}

// Run serves the trigger surface until the context is canceled, with the
// optional cron trigger running alongside.
func (a *Application) Run(ctx context.Context) error {
	err := a.scheduler.Start(ctx, func(time.Time) {
		if _, err := a.collector.RunCollection(ctx, domain.SourceAll); err != nil {
			a.logger.Error("scheduled collection failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.echo.Start(":" + a.cfg.Server.Port)
	}()
	a.logger.Info("server started", "port", a.cfg.Server.Port)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}

	err = a.echo.Shutdown(shutdownCtx)
	a.pool.Close()
	return err
}
