package usecase

import (
	"context"
	"fmt"

	"TrendScanner/internal/domain"
	"TrendScanner/internal/ports"
	"TrendScanner/pkg/pagination"
)

// History pages through past collection jobs, optionally filtered by source
// and status.
type History struct {
	jobs ports.JobRepository
}

// NewHistory wires the job repository.
func NewHistory(jobs ports.JobRepository) *History {
	return &History{jobs: jobs}
}

// List returns one page of jobs, newest first.
func (h *History) List(ctx context.Context, filter domain.JobFilter, req pagination.OffsetRequest) (*pagination.OffsetResult[domain.CollectionJob], error) {
	req.Normalize()

	total, err := h.jobs.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	jobs, err := h.jobs.List(ctx, filter, req.Offset(), req.Size)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	return pagination.NewOffsetResult(jobs, total, req.Page, req.Size), nil
}
