// Package store persists the close assistant's audit log: one row per
// engine tool invocation, keyed by conversation session.
package store

import (
	"context"

	"github.com/sells-group/capex-close/internal/model"
)

// RunFilter specifies criteria for listing audit runs.
type RunFilter struct {
	SessionID    string `json:"session_id,omitempty"`
	Tool         string `json:"tool,omitempty"`
	BusinessUnit string `json:"business_unit,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// Store defines the audit-log persistence interface.
type Store interface {
	RecordRun(ctx context.Context, run model.CloseRun) (*model.CloseRun, error)
	GetRun(ctx context.Context, runID string) (*model.CloseRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.CloseRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
