package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus enumerates collection run milestones.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
)

// ParseJobStatus validates an optional status filter.
func ParseJobStatus(raw string) (JobStatus, error) {
	switch JobStatus(raw) {
	case JobPending, JobRunning, JobCompleted, JobFailed, "":
		return JobStatus(raw), nil
	}
	return "", fmt.Errorf("unknown job status %q", raw)
}

// MaxReportedErrors caps every user-visible error list. The cap bounds response
// size, not the underlying failure count.
const MaxReportedErrors = 10

// CollectionJob is the bookkeeping record for one collection run. A job moves
// RUNNING -> COMPLETED or RUNNING -> FAILED exactly once and is never re-entered.
type CollectionJob struct {
	ID          uuid.UUID
	Source      Source
	Status      JobStatus
	StartedAt   time.Time
	FinishedAt  *time.Time
	NewArticles int
	NewKeywords int
	Duplicates  int
	Summarized  int
	Errors      []string
}

// JobFilter narrows collection history queries. Empty fields match everything.
type JobFilter struct {
	Source Source
	Status JobStatus
}

// CollectionResult is what a collection run reports back to its caller.
type CollectionResult struct {
	JobID       uuid.UUID `json:"jobId"`
	Source      Source    `json:"source"`
	NewArticles int       `json:"newArticles"`
	NewKeywords int       `json:"newKeywords"`
	Duplicates  int       `json:"duplicates"`
	Summarized  int       `json:"summarized"`
	Errors      []string  `json:"errors"`
}

// EnrichmentReport aggregates one enrichment batch. Failed counts every failure;
// Errors keeps only the first MaxReportedErrors of them.
type EnrichmentReport struct {
	Processed int      `json:"processed"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

// SummaryStats reports enrichment progress over the whole store.
type SummaryStats struct {
	Summarized   int64 `json:"summarized"`
	Unsummarized int64 `json:"unsummarized"`
}

// ConflictError rejects a collection run because another job is already RUNNING.
type ConflictError struct {
	RunningJobs []uuid.UUID
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.RunningJobs))
	for _, id := range e.RunningJobs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("collection already running: %s", strings.Join(ids, ", "))
}

// AppendBoundedError records a failure without letting the visible list grow past
// MaxReportedErrors.
func AppendBoundedError(errs []string, msg string) []string {
	if len(errs) >= MaxReportedErrors {
		return errs
	}
	return append(errs, msg)
}
