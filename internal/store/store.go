// Package store persists scan runs and their ranked opportunities, with
// interchangeable sqlite and postgres backends.
package store

import (
	"context"

	"github.com/turia-capital/scout-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Dataset string `json:"dataset,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for scoring passes.
type Store interface {
	// Runs
	SaveRun(ctx context.Context, run *model.ScanRun, opps []model.Opportunity) error
	GetRun(ctx context.Context, runID string) (*model.ScanRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.ScanRun, error)

	// Opportunities
	ListOpportunities(ctx context.Context, runID string, limit int) ([]model.Opportunity, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
