package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"TrendScanner/internal/domain"
	"TrendScanner/internal/ports"
)

// JobRepository tracks collection jobs in Postgres. The one-RUNNING-job
// invariant is backed by a partial unique index (see db/schema.sql), so a
// concurrent insert of a second RUNNING row fails at the store.
type JobRepository struct {
	db *pgxpool.Pool
}

var _ ports.JobRepository = (*JobRepository)(nil)

// NewJobRepository wires a pgx pool.
func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: db}
}

var jobColumns = []string{
	"id", "source", "status", "started_at", "finished_at",
	"new_articles", "new_keywords", "duplicates", "summarized", "errors",
}

// FindRunning returns every job currently in RUNNING state.
func (r *JobRepository) FindRunning(ctx context.Context) ([]domain.CollectionJob, error) {
	query, args, err := qb.Select(jobColumns...).
		From("article_collection_jobs").
		Where(sq.Eq{"status": string(domain.JobRunning)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.queryJobs(ctx, query, args)
}

// Insert stores a freshly started job.
func (r *JobRepository) Insert(ctx context.Context, job domain.CollectionJob) error {
	query, args, err := qb.Insert("article_collection_jobs").
		Columns(jobColumns...).
		Values(job.ID, string(job.Source), string(job.Status), job.StartedAt, job.FinishedAt,
			job.NewArticles, job.NewKeywords, job.Duplicates, job.Summarized, job.Errors).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Finish records the terminal state of a run. The status guard keeps a job
// from being re-entered after its single RUNNING -> terminal transition.
func (r *JobRepository) Finish(ctx context.Context, job domain.CollectionJob) error {
	query, args, err := qb.Update("article_collection_jobs").
		Set("status", string(job.Status)).
		Set("finished_at", job.FinishedAt).
		Set("new_articles", job.NewArticles).
		Set("new_keywords", job.NewKeywords).
		Set("duplicates", job.Duplicates).
		Set("summarized", job.Summarized).
		Set("errors", job.Errors).
		Where(sq.Eq{"id": job.ID}).
		Where(sq.Eq{"status": string(domain.JobRunning)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return nil
}

// List pages through jobs, newest first.
func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter, offset, limit int) ([]domain.CollectionJob, error) {
	builder := qb.Select(jobColumns...).
		From("article_collection_jobs").
		OrderBy("started_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit))
	builder = applyJobFilter(builder, filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.queryJobs(ctx, query, args)
}

// Count reports how many jobs match the filter.
func (r *JobRepository) Count(ctx context.Context, filter domain.JobFilter) (int64, error) {
	builder := qb.Select("COUNT(*)").From("article_collection_jobs")
	builder = applyJobFilter(builder, filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return total, nil
}

func applyJobFilter(builder sq.SelectBuilder, filter domain.JobFilter) sq.SelectBuilder {
	if filter.Source != "" {
		builder = builder.Where(sq.Eq{"source": string(filter.Source)})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": string(filter.Status)})
	}
	return builder
}

func (r *JobRepository) queryJobs(ctx context.Context, query string, args []any) ([]domain.CollectionJob, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CollectionJob, error) {
		var j domain.CollectionJob
		err := row.Scan(&j.ID, &j.Source, &j.Status, &j.StartedAt, &j.FinishedAt,
			&j.NewArticles, &j.NewKeywords, &j.Duplicates, &j.Summarized, &j.Errors)
		return j, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}
	return jobs, nil
}
